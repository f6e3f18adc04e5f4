// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/palaver-tui/internal/config"
	"github.com/jeranaias/palaver-tui/internal/fixtures"
	"github.com/jeranaias/palaver-tui/internal/logging"
	"github.com/jeranaias/palaver-tui/internal/model"
	"github.com/jeranaias/palaver-tui/internal/playback"
	"github.com/jeranaias/palaver-tui/internal/storage"
	"github.com/jeranaias/palaver-tui/internal/ui/components"
	"github.com/jeranaias/palaver-tui/internal/ui/styles"
)

// =============================================================================
// SCREENS
// =============================================================================

// Screen is the view currently on top.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenChats
	ScreenConversation
	ScreenStoryViewer
	ScreenStoryComposer
	ScreenNotifications
)

// String returns the screen name used in logs.
func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "login"
	case ScreenChats:
		return "chats"
	case ScreenConversation:
		return "conversation"
	case ScreenStoryViewer:
		return "story_viewer"
	case ScreenStoryComposer:
		return "story_composer"
	case ScreenNotifications:
		return "notifications"
	default:
		return "unknown"
	}
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// Options configures a new Model.
type Options struct {
	Store  *storage.Store
	Config *config.Config
	Theme  *styles.Theme
	// Context bounds store calls and the story timer. Defaults to Background.
	Context context.Context
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx   context.Context
	store *storage.Store
	cfg   *config.Config
	theme *styles.Theme
	clock func() time.Time

	screen Screen
	width  int
	height int
	toast  string
	help   bool

	// Session
	self      model.User
	directory model.Directory
	chats     []model.Chat
	stories   []model.Story
	unread    int

	// Components
	header   *components.Header
	chatList *components.ChatList
	strip    *components.StoryStrip
	popup    *components.SuggestionPopup
	helpView *components.Help
	notes    *components.NotificationList

	// Chat list focus: true when the story strip has the cursor.
	stripFocused bool

	login        loginState
	conversation conversationState
	viewer       viewerState
	composer     composerState

	// slot owns the story viewer's playback handle. It is a pointer so
	// copies of Model made by Update share one timer.
	slot *playback.Slot
}

// New creates the root model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(cfg.UI.Theme)
	}
	clock := opts.Now
	if clock == nil {
		clock = time.Now
	}

	m := Model{
		ctx:      ctx,
		store:    opts.Store,
		cfg:      cfg,
		theme:    theme,
		clock:    clock,
		screen:   ScreenLogin,
		width:    80,
		height:   24,
		header:   components.NewHeader(theme),
		chatList: components.NewChatList(theme),
		strip:    components.NewStoryStrip(theme),
		popup:    components.NewSuggestionPopup(theme),
		helpView: components.NewHelp(theme),
		notes:    components.NewNotificationList(theme),
		login:    newLoginState(),
		slot:     playback.NewSlot(),
	}
	m.conversation = newConversationState()
	m.composer = newComposerState()
	return m
}

func (m Model) now() time.Time { return m.clock() }

// Screen returns the current screen.
func (m Model) Screen() Screen { return m.screen }

// Self returns the signed-in user.
func (m Model) Self() model.User { return m.self }

// Init loads the store and, when configured, skips the login form.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.loadData(), schedulePurge()}
	if m.cfg.User.SkipLogin {
		cmds = append(cmds, func() tea.Msg { return loginMsg{} })
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case loginMsg:
		return m.completeLogin()

	case dataLoadedMsg:
		m.directory = msg.Directory
		m.chats = msg.Chats
		m.stories = msg.Stories
		m.unread = msg.Unread
		if u, ok := m.directory.ByID(m.self.ID); ok {
			m.self = u
		}
		m.refreshChatList()
		return m, nil

	case messagesLoadedMsg:
		return m.handleMessagesLoaded(msg)

	case messageSentMsg:
		return m.handleMessageSent(msg)

	case spinnerTickMsg:
		return m.handleSpinnerTick()

	case deliveredMsg:
		if m.screen == ScreenConversation && m.conversation.chat.ID == msg.ChatID {
			return m, tea.Batch(m.loadMessages(msg.ChatID), m.loadData())
		}
		return m, m.loadData()

	case storyTickMsg:
		return m.handleStoryTick(msg)

	case storyStoppedMsg:
		return m, nil

	case storyViewedMsg:
		m.viewer.replace(msg.Story)
		return m, nil

	case storySharedMsg:
		logging.Info("story shared", "story", msg.Story.ID, "mentions", len(msg.Story.Mentions), "notified", len(msg.Notes))
		m.screen = ScreenChats
		m.composer = newComposerState()
		return m, m.loadData()

	case notificationsLoadedMsg:
		m.notes.Items = msg.Items
		m.notes.Now = m.now()
		m.unread = 0
		m.header.SetUnread(0)
		return m, nil

	case purgeTickMsg:
		return m, tea.Batch(m.purgeExpired(time.Time(msg)), schedulePurge())

	case ConfigReloadedMsg:
		return m.applyConfig(msg.Config)

	case errMsg:
		logging.Error("store operation failed", "op", msg.Op, "err", msg.Err)
		m.toast = msg.Error()
		return m, nil
	}

	return m.updateInputs(msg)
}

// updateInputs forwards non-key messages such as cursor blinks to the
// focused text input.
func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen {
	case ScreenLogin:
		m.login, cmd = m.login.update(msg)
	case ScreenConversation:
		m.conversation.input, cmd = m.conversation.input.Update(msg)
	case ScreenStoryComposer:
		m.composer, cmd = m.composer.update(msg)
	}
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.header.SetWidth(msg.Width)
	m.chatList.Width = msg.Width
	m.strip.Width = msg.Width
	m.notes.Width = msg.Width
	m.popup.SetWidth(min(msg.Width-2, 48))
	m.conversation.resize(msg.Width, m.conversationHeight())
	m.conversation.refresh(m.theme, m.self.ID, m.directory, m.cfg)
	return m, nil
}

func (m Model) conversationHeight() int {
	// header (2) + input (2) + status (1)
	h := m.height - 5
	if h < 3 {
		h = 3
	}
	return h
}

// handleKey routes a key press to the current screen. ctrl+c always quits
// and always stops the story timer first.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	m.toast = ""

	if m.help {
		m.help = false
		return m, nil
	}

	switch m.screen {
	case ScreenLogin:
		return m.handleLoginKey(msg)
	case ScreenChats:
		return m.handleChatsKey(msg)
	case ScreenConversation:
		return m.handleConversationKey(msg)
	case ScreenStoryViewer:
		return m.handleViewerKey(msg)
	case ScreenStoryComposer:
		return m.handleComposerKey(msg)
	case ScreenNotifications:
		switch msg.String() {
		case "esc", "q", "backspace":
			m.screen = ScreenChats
			return m, m.loadData()
		}
	}
	return m, nil
}

// quit stops playback before handing control back to the terminal.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.slot.Stop()
	logging.Info("quit", "screen", m.screen.String())
	return m, tea.Quit
}

// Close releases the story timer. It is safe to call more than once.
func (m Model) Close() {
	m.slot.Stop()
}

func (m Model) applyConfig(cfg *config.Config) (tea.Model, tea.Cmd) {
	if cfg == nil {
		return m, nil
	}
	if cfg.UI.Theme != m.cfg.UI.Theme {
		theme := styles.NewTheme(cfg.UI.Theme)
		theme.SetSize(m.width, m.height)
		m.theme = theme
		m.header.SetTheme(theme)
		m.chatList.SetTheme(theme)
		m.strip.SetTheme(theme)
		m.popup.SetTheme(theme)
		m.helpView.SetTheme(theme)
		m.notes.SetTheme(theme)
	}
	m.cfg = cfg
	logging.Info("config reloaded", "theme", cfg.UI.Theme, "suggestion_limit", cfg.Chat.SuggestionLimit)
	m.refreshChatList()
	m.conversation.refresh(m.theme, m.self.ID, m.directory, m.cfg)
	m.toast = "configuration reloaded"
	return m, nil
}

func (m *Model) refreshChatList() {
	now := m.now()
	m.chatList.Chats = m.chats
	m.chatList.Directory = m.directory
	m.chatList.Self = m.self.ID
	m.chatList.Now = now
	m.chatList.Move(0)

	m.strip.Groups = model.GroupStories(m.stories, m.self.ID)
	m.strip.Directory = m.directory
	m.strip.Self = m.self.ID
	m.strip.Now = now
	m.strip.Move(0)

	m.header.SetUnread(m.unread)
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the current screen.
func (m Model) View() string {
	var body string
	switch m.screen {
	case ScreenLogin:
		return m.viewLogin()
	case ScreenChats:
		body = m.viewChats()
	case ScreenConversation:
		body = m.viewConversation()
	case ScreenStoryViewer:
		return m.viewStory()
	case ScreenStoryComposer:
		body = m.viewComposer()
	case ScreenNotifications:
		body = m.viewNotifications()
	}

	if m.help {
		body = m.helpView.View(m.width)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.viewStatus())
}

func (m Model) viewStatus() string {
	if m.toast != "" {
		if strings.HasPrefix(m.toast, "configuration") {
			return m.theme.StatusBar.Render(m.theme.Notice.Render(m.toast))
		}
		return m.theme.StatusBar.Render(styles.RenderError(m.toast))
	}
	var hints []string
	switch m.screen {
	case ScreenChats:
		hints = []string{"enter open", "tab stories", "s story", "n notifications", "? help", "q quit"}
	case ScreenConversation:
		hints = []string{"@ mention", "enter send", "esc back"}
	case ScreenStoryComposer:
		hints = []string{"enter share", "ctrl+b background", "ctrl+t mention", "esc cancel"}
	case ScreenNotifications:
		hints = []string{"esc back"}
	}
	if m.theme.GetLayoutMode() == styles.LayoutNarrow && len(hints) > 3 {
		hints = append(hints[:2:2], hints[len(hints)-1])
	}
	parts := make([]string, len(hints))
	for i, h := range hints {
		k, d, _ := strings.Cut(h, " ")
		parts[i] = m.theme.ShortcutKey.Render(k) + " " + d
	}
	return m.theme.StatusBar.Render(strings.Join(parts, "  "))
}

// chatTitle is the header title and subtitle for a chat.
func (m Model) chatTitle(c model.Chat) (string, string) {
	title := c.Title(m.self.ID, m.directory)
	if peer, ok := c.Peer(m.self.ID, m.directory); ok {
		if peer.Online {
			return title, "online"
		}
		if !peer.LastSeen.IsZero() {
			return title, "last seen " + components.Ago(peer.LastSeen, m.now())
		}
		return title, ""
	}
	return title, pluralize(len(c.Participants), "member")
}

// defaultUser resolves the configured login, falling back to the first
// fixture user.
func (m Model) defaultUser() model.User {
	if u, ok := m.directory.ByUsername(m.cfg.User.DefaultLogin); ok {
		return u
	}
	if u, ok := m.directory.ByID(fixtures.DefaultUserID); ok {
		return u
	}
	return model.User{ID: fixtures.DefaultUserID, Username: m.cfg.User.DefaultLogin}
}
