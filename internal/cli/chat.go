// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/palaver-tui/internal/config"
	"github.com/jeranaias/palaver-tui/internal/logging"
	"github.com/jeranaias/palaver-tui/internal/mention"
	"github.com/jeranaias/palaver-tui/internal/model"
	"github.com/jeranaias/palaver-tui/internal/storage"
	"github.com/jeranaias/palaver-tui/internal/ui/components"
)

var (
	mentionColor = color.New(color.FgCyan, color.Bold)
	nameColor    = color.New(color.Bold)
	dimColor     = color.New(color.FgHiBlack)
	errorColor   = color.New(color.FgRed)
	promptColor  = color.New(color.FgGreen, color.Bold)
)

// =============================================================================
// CHAT SESSION
// =============================================================================

// chatSession is the state of the line-oriented chat: who is signed in and
// which chat is open.
type chatSession struct {
	ctx   context.Context
	store *storage.Store
	cfg   *config.Config
	out   io.Writer
	width int // terminal columns, for previews

	self model.User
	dir  model.Directory
	chat *model.Chat
}

func newChatSession(ctx context.Context, store *storage.Store, cfg *config.Config, out io.Writer) (*chatSession, error) {
	dir, err := store.Users(ctx)
	if err != nil {
		return nil, err
	}
	self, err := signIn(dir, cfg)
	if err != nil {
		return nil, err
	}
	return &chatSession{
		ctx: ctx, store: store, cfg: cfg, out: out, width: TerminalWidth(),
		self: self, dir: dir,
	}, nil
}

func (s *chatSession) prompt() string {
	if s.chat == nil {
		return "palaver> "
	}
	return s.chat.Title(s.self.ID, s.dir) + "> "
}

// complete is the liner word completer. It offers "@username " for the
// mention being typed before the cursor; pos is a rune offset.
func (s *chatSession) complete(line string, pos int) (head string, completions []string, tail string) {
	runes := []rune(line)
	if pos < 0 || pos > len(runes) {
		pos = len(runes)
	}
	before, after := string(runes[:pos]), string(runes[pos:])

	query, ok := mention.ActiveQuery(line, pos)
	if !ok {
		return before, nil, after
	}
	head = before[:len(before)-len(query)-1]
	for _, e := range mention.Top(mention.Suggest(query, s.dir.Entries(), s.self.ID), s.cfg.Chat.SuggestionLimit) {
		completions = append(completions, "@"+e.Username+" ")
	}
	return head, completions, after
}

// handle runs one input line. It returns false when the session should end.
func (s *chatSession) handle(line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return true, nil
	}
	if !strings.HasPrefix(line, "/") {
		return true, s.send(line)
	}

	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "/quit", "/exit", "/q":
		return false, nil
	case "/help", "/?":
		s.help()
	case "/who":
		s.who()
	case "/chats":
		return true, s.listChats()
	case "/open":
		return true, s.open(arg)
	case "/history":
		return true, s.history()
	case "/stories":
		return true, s.listStories()
	case "/story":
		return true, s.viewStory(arg)
	case "/post":
		return true, s.post(arg)
	case "/notifications":
		return true, s.notifications()
	default:
		return true, fmt.Errorf("unknown command %s; try /help", name)
	}
	return true, nil
}

func (s *chatSession) help() {
	fmt.Fprintln(s.out, `Commands:
  /chats            list your chats
  /open <n|id>      open a chat by list number or id
  /history          show the open chat
  /stories          list active stories
  /story <id>       view a story
  /post <text>      share a text story; @mentions notify users
  /notifications    show and clear notifications
  /who              list users
  /quit             leave
Anything else is sent to the open chat. Press tab after @ to complete a username.`)
}

func (s *chatSession) who() {
	for _, u := range s.dir {
		presence := dimColor.Sprint("offline")
		if u.Online {
			presence = color.GreenString("online")
		}
		fmt.Fprintf(s.out, "  %s %s %s\n", mentionColor.Sprint("@"+u.Username), components.Sanitize(u.DisplayName), presence)
	}
}

func (s *chatSession) listChats() error {
	chats, err := s.store.Chats(s.ctx, s.self.ID)
	if err != nil {
		return err
	}
	if len(chats) == 0 {
		fmt.Fprintln(s.out, "No chats yet")
	}
	for i, c := range chats {
		preview := "No messages yet"
		if c.LastMessage != nil {
			preview = c.LastMessage.Preview(s.previewWidth())
		}
		unread := ""
		if c.UnreadCount > 0 {
			unread = color.YellowString(" (%d)", c.UnreadCount)
		}
		fmt.Fprintf(s.out, "%2d. %s%s  %s\n", i+1, nameColor.Sprint(c.Title(s.self.ID, s.dir)), unread,
			dimColor.Sprint(components.Sanitize(preview)))
	}
	return nil
}

// previewWidth leaves half the line to the chat title and unread count.
func (s *chatSession) previewWidth() int {
	return max(s.width/2, MinTerminalWidth/2)
}

// open selects a chat by its 1-based position in /chats or by id.
func (s *chatSession) open(arg string) error {
	if arg == "" {
		return errors.New("usage: /open <n|id>")
	}
	chats, err := s.store.Chats(s.ctx, s.self.ID)
	if err != nil {
		return err
	}
	var found *model.Chat
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(chats) {
		found = &chats[n-1]
	}
	if found == nil {
		for i := range chats {
			if chats[i].ID == arg {
				found = &chats[i]
			}
		}
	}
	if found == nil {
		return fmt.Errorf("no chat %q", arg)
	}
	if err := s.store.MarkChatRead(s.ctx, found.ID); err != nil {
		return err
	}
	s.chat = found
	return s.history()
}

func (s *chatSession) history() error {
	if s.chat == nil {
		return errors.New("no chat open; use /open")
	}
	msgs, err := s.store.Messages(s.ctx, s.chat.ID)
	if err != nil {
		return err
	}
	for _, m := range msgs {
		s.printMessage(m)
	}
	return nil
}

func (s *chatSession) printMessage(m model.Message) {
	sender := s.dir.Name(m.SenderID)
	if m.SenderID == s.self.ID {
		sender = "You"
	}
	body := colorMentions(m.Content, m.Mentions)
	if m.Kind != model.MessageText && m.Kind != "" {
		body = m.Kind.Label() + " " + components.Sanitize(m.FileName)
	}
	status := ""
	if m.SenderID == s.self.ID {
		status = " " + dimColor.Sprint(m.Status.Glyph())
	}
	fmt.Fprintf(s.out, "%s %s: %s%s\n", dimColor.Sprint(m.Timestamp.Format("15:04")),
		nameColor.Sprint(components.Sanitize(sender)), body, status)
}

// send posts text to the open chat. The message is marked delivered once
// the store has accepted it.
func (s *chatSession) send(text string) error {
	if s.chat == nil {
		return errors.New("no chat open; use /open")
	}
	msg := model.NewTextMessage(s.chat.ID, s.self.ID, text, mention.Extract(text))
	notes, err := s.store.AppendMessage(s.ctx, msg)
	if err != nil {
		return err
	}
	if err := s.store.SetMessageStatus(s.ctx, msg.ID, model.StatusDelivered); err != nil {
		return err
	}
	msg = msg.WithStatus(model.StatusDelivered)
	s.printMessage(msg)
	if len(notes) > 0 {
		fmt.Fprintln(s.out, dimColor.Sprintf("notified %s", plural(len(notes), "user")))
	}
	logging.Info("message sent", "chat", msg.ChatID, "mentions", len(msg.Mentions), "notified", len(notes))
	return nil
}

func (s *chatSession) listStories() error {
	stories, err := s.store.ActiveStories(s.ctx, time.Now())
	if err != nil {
		return err
	}
	groups := model.GroupStories(stories, s.self.ID)
	if len(groups) == 0 {
		fmt.Fprintln(s.out, "No stories")
	}
	for _, g := range groups {
		author := s.dir.Name(g.UserID)
		if g.UserID == s.self.ID {
			author = "My Story"
		}
		marker := " "
		if g.Unviewed {
			marker = color.MagentaString("●")
		}
		fmt.Fprintf(s.out, "%s %s\n", marker, nameColor.Sprint(components.Sanitize(author)))
		for _, st := range g.Stories {
			fmt.Fprintf(s.out, "    %s %s %s\n", dimColor.Sprint(st.ID), storySummary(st),
				dimColor.Sprintf("%dh", st.HoursAgo(time.Now())))
		}
	}
	return nil
}

func storySummary(st model.Story) string {
	if st.Kind == model.StoryText || st.Kind == "" {
		return components.Sanitize(st.Content)
	}
	return "[" + string(st.Kind) + "] " + components.Sanitize(st.Content)
}

func (s *chatSession) viewStory(id string) error {
	if id == "" {
		return errors.New("usage: /story <id>")
	}
	st, err := s.store.Story(s.ctx, id)
	if err != nil {
		return err
	}
	if st.Expired(time.Now()) {
		return fmt.Errorf("story %s has expired", id)
	}
	if st.UserID != s.self.ID {
		if st, err = s.store.MarkStoryViewed(s.ctx, id, s.self.ID); err != nil {
			return err
		}
	}
	fmt.Fprintf(s.out, "%s: %s\n", nameColor.Sprint(components.Sanitize(s.dir.Name(st.UserID))),
		colorMentions(st.Content, st.Mentions))
	if names := mention.Unique(st.Mentions); len(names) > 0 {
		tags := make([]string, len(names))
		for i, u := range names {
			tags[i] = mentionColor.Sprint("@" + u)
		}
		fmt.Fprintf(s.out, "Mentioned: %s\n", strings.Join(tags, ", "))
	}
	if st.UserID == s.self.ID {
		fmt.Fprintln(s.out, dimColor.Sprint(st.ViewLabel()))
	}
	return nil
}

func (s *chatSession) post(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("story cannot be empty")
	}
	ttl := time.Duration(s.cfg.Stories.TTLHours) * time.Hour
	st := model.NewTextStory(s.self.ID, text, model.StoryBackgrounds[0], mention.Extract(text), ttl)
	notes, err := s.store.AddStory(s.ctx, st)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Story %s shared", st.ID)
	if len(notes) > 0 {
		fmt.Fprintf(s.out, ", notified %s", plural(len(notes), "user"))
	}
	fmt.Fprintln(s.out)
	return nil
}

func (s *chatSession) notifications() error {
	items, err := s.store.Notifications(s.ctx, s.self.ID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(s.out, "No notifications")
	}
	now := time.Now()
	for _, n := range items {
		dot := " "
		if !n.Read {
			dot = color.CyanString("●")
		}
		fmt.Fprintf(s.out, "%s %s %s\n    %s\n", dot, nameColor.Sprint(components.Sanitize(n.Title)),
			dimColor.Sprint(components.Ago(n.Timestamp, now)), components.Sanitize(n.Body))
	}
	return s.store.MarkNotificationsRead(s.ctx, s.self.ID)
}

// colorMentions renders text with the resolved mentions highlighted.
func colorMentions(text string, resolved []string) string {
	var b strings.Builder
	for _, seg := range mention.Render(text, resolved) {
		if seg.Kind == mention.Mention {
			b.WriteString(mentionColor.Sprint(seg.Text))
			continue
		}
		b.WriteString(components.Sanitize(seg.Text))
	}
	return b.String()
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

func newChatCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Line-oriented chat with @ completion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), o, cmd.OutOrStdout())
		},
	}
}

func runChat(ctx context.Context, o *options, out io.Writer) error {
	store, err := openStore(ctx, o.cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	sess, err := newChatSession(ctx, store, o.cfg, out)
	if err != nil {
		return err
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetTabCompletionStyle(liner.TabPrints)
	line.SetWordCompleter(sess.complete)

	historyFile := chatHistoryFile()
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer saveHistory(line, historyFile)

	fmt.Fprintf(out, "Signed in as %s. Type /help for commands.\n", mentionColor.Sprint("@"+sess.self.Username))
	for {
		input, err := line.Prompt(sess.prompt())
		if err != nil {
			// ErrPromptAborted on ctrl+c, io.EOF on ctrl+d.
			fmt.Fprintln(out)
			return nil
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		more, err := sess.handle(input)
		if err != nil {
			fmt.Fprintln(out, errorColor.Sprint("[Error] ")+err.Error())
		}
		if !more {
			return nil
		}
	}
}

func chatHistoryFile() string {
	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "chat_history")
}

func saveHistory(line *liner.State, path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	line.WriteHistory(f)
}
