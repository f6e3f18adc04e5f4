// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/palaver-tui/internal/config"
	"github.com/jeranaias/palaver-tui/internal/fixtures"
	"github.com/jeranaias/palaver-tui/internal/model"
	"github.com/jeranaias/palaver-tui/internal/playback"
	"github.com/jeranaias/palaver-tui/internal/storage"
	"github.com/jeranaias/palaver-tui/internal/ui/styles"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// cmdTimeout bounds each command. Blinks, story ticks and the purge timer
// block longer and are dropped.
const cmdTimeout = 200 * time.Millisecond

func newTestModel(t *testing.T) (Model, *storage.Store) {
	t.Helper()
	ctx := context.Background()
	store, err := storage.Open(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Seed(ctx, fixtures.Demo(time.Now())))

	cfg := config.Default()
	cfg.Chat.DeliveryDelayMs = 0
	// Slow enough that no tick arrives within cmdTimeout.
	cfg.Stories.TickMs = 1000

	m := New(Options{
		Store:   store,
		Config:  cfg,
		Theme:   styles.NewTheme("dark"),
		Context: ctx,
	})
	t.Cleanup(m.Close)
	return m, store
}

// run executes cmd and returns the messages it produced, flattening batches.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(cmdTimeout):
		return nil
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// send applies msg and then feeds the resulting command chain back into
// the model, depth rounds deep.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	return drain(t, next.(Model), cmd, 4)
}

func drain(t *testing.T, m Model, cmd tea.Cmd, depth int) Model {
	t.Helper()
	if depth == 0 {
		return m
	}
	for _, msg := range run(cmd) {
		if _, ok := msg.(tea.QuitMsg); ok {
			continue
		}
		next, c := m.Update(msg)
		m = drain(t, next.(Model), c, depth-1)
	}
	return m
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func typeText(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loggedIn returns a model on the chat list with the store loaded.
func loggedIn(t *testing.T) (Model, *storage.Store) {
	t.Helper()
	m, store := newTestModel(t)
	m = drain(t, m, m.loadData(), 1)
	m = send(t, m, loginMsg{})
	require.Equal(t, ScreenChats, m.Screen())
	return m, store
}

func selectChat(t *testing.T, m Model, id string) Model {
	t.Helper()
	for i, c := range m.chatList.Chats {
		if c.ID == id {
			m.chatList.Selected = i
			return m
		}
	}
	t.Fatalf("chat %s not in list", id)
	return m
}

// =============================================================================
// LOGIN
// =============================================================================

func TestLogin_RequiresBothFields(t *testing.T) {
	m, _ := newTestModel(t)
	m = drain(t, m, m.loadData(), 1)

	m = send(t, m, key(tea.KeyEnter)) // identity -> password
	m = send(t, m, key(tea.KeyEnter))
	assert.Equal(t, ScreenLogin, m.Screen())
	assert.Equal(t, "Please fill in all fields", m.login.err)
	assert.Contains(t, m.View(), "Please fill in all fields")
}

func TestLogin_ResolvesToDemoUser(t *testing.T) {
	m, _ := newTestModel(t)
	m = drain(t, m, m.loadData(), 1)

	m = send(t, m, key(tea.KeyCtrlRight)) // email
	m = send(t, m, typeText("someone@example.com"))
	m = send(t, m, key(tea.KeyTab))
	m = send(t, m, typeText("secret"))
	assert.NotContains(t, m.View(), "secret")

	m = send(t, m, key(tea.KeyEnter))
	require.Equal(t, ScreenChats, m.Screen())
	assert.Equal(t, "john_doe", m.Self().Username)
	assert.Len(t, m.chats, 2)
}

func TestInit_SkipLogin(t *testing.T) {
	m, _ := newTestModel(t)
	m.cfg.User.SkipLogin = true

	m = drain(t, m, m.Init(), 3)
	assert.Equal(t, ScreenChats, m.Screen())
	assert.Equal(t, fixtures.DefaultUserID, m.Self().ID)
}

// =============================================================================
// CONVERSATION
// =============================================================================

func TestConversation_MentionAutocomplete(t *testing.T) {
	m, store := loggedIn(t)
	m = selectChat(t, m, "1")
	m = send(t, m, key(tea.KeyEnter))
	require.Equal(t, ScreenConversation, m.Screen())
	assert.NotEmpty(t, m.conversation.messages)

	m = send(t, m, typeText("hi @ja"))
	require.True(t, m.popup.Visible())
	entries := m.popup.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "jane_smith", entries[0].Username)

	m = send(t, m, key(tea.KeyTab))
	assert.Equal(t, "hi @jane_smith ", m.conversation.input.Value())
	assert.Equal(t, 15, m.conversation.input.Position())
	assert.False(t, m.popup.Visible())

	m = send(t, m, typeText("look"))
	m = send(t, m, key(tea.KeyEnter))
	assert.Empty(t, m.conversation.input.Value())

	msgs, err := store.Messages(context.Background(), "1")
	require.NoError(t, err)
	last := msgs[len(msgs)-1]
	assert.Equal(t, "hi @jane_smith look", last.Content)
	assert.Equal(t, []string{"jane_smith"}, last.Mentions)
	assert.Equal(t, model.StatusDelivered, last.Status)

	notes, err := store.Notifications(context.Background(), "2")
	require.NoError(t, err)
	var mentioned bool
	for _, n := range notes {
		if n.Kind == model.NotifyMention && n.RefID == last.ID {
			mentioned = true
		}
	}
	assert.True(t, mentioned, "jane should be notified of the mention")
}

func TestConversation_SuggestionsExcludeSelf(t *testing.T) {
	m, _ := loggedIn(t)
	m = selectChat(t, m, "2")
	m = send(t, m, key(tea.KeyEnter))

	m = send(t, m, typeText("@"))
	for _, e := range m.popup.Entries() {
		assert.NotEqual(t, "john_doe", e.Username)
	}
	assert.Len(t, m.popup.Entries(), 2)

	m = send(t, m, key(tea.KeyDown))
	assert.Equal(t, 1, m.conversation.compose.Selected)
	m = send(t, m, key(tea.KeyEnter))
	assert.Equal(t, "@mike_wilson ", m.conversation.input.Value())
	assert.Equal(t, ScreenConversation, m.Screen(), "enter with suggestions chooses, not sends")
}

func TestConversation_EscDismissesThenCloses(t *testing.T) {
	m, _ := loggedIn(t)
	m = selectChat(t, m, "1")
	m = send(t, m, key(tea.KeyEnter))
	m = send(t, m, typeText("@m"))
	require.True(t, m.popup.Visible())

	m = send(t, m, key(tea.KeyEsc))
	assert.False(t, m.popup.Visible())
	assert.False(t, m.conversation.compose.Active)
	assert.Equal(t, ScreenConversation, m.Screen())

	m = send(t, m, key(tea.KeyEsc))
	assert.Equal(t, ScreenChats, m.Screen())
}

func TestConversation_BlankMessageIgnored(t *testing.T) {
	m, store := loggedIn(t)
	m = selectChat(t, m, "1")
	m = send(t, m, key(tea.KeyEnter))
	before, err := store.Messages(context.Background(), "1")
	require.NoError(t, err)

	m = send(t, m, typeText("   "))
	m = send(t, m, key(tea.KeyEnter))

	after, err := store.Messages(context.Background(), "1")
	require.NoError(t, err)
	assert.Len(t, after, len(before))
	assert.Equal(t, ScreenConversation, m.Screen())
}

func TestConversation_OpenClearsUnread(t *testing.T) {
	m, _ := loggedIn(t)
	m = selectChat(t, m, "1")
	m = send(t, m, key(tea.KeyEnter))
	m = send(t, m, key(tea.KeyEsc))

	for _, c := range m.chats {
		if c.ID == "1" {
			assert.Zero(t, c.UnreadCount)
		}
	}
}

// =============================================================================
// STORY VIEWER
// =============================================================================

func openStrip(t *testing.T, m Model, slot int) Model {
	t.Helper()
	m = send(t, m, key(tea.KeyTab))
	for i := 0; i < slot; i++ {
		m = send(t, m, key(tea.KeyRight))
	}
	m = send(t, m, key(tea.KeyEnter))
	require.Equal(t, ScreenStoryViewer, m.Screen())
	return m
}

func tick(h *playback.Handle) storyTickMsg {
	return storyTickMsg{HandleID: h.ID(), At: time.Now()}
}

func TestViewer_IgnoresForeignTicks(t *testing.T) {
	m, _ := loggedIn(t)
	m = openStrip(t, m, 1)

	h := m.slot.Current()
	require.NotNil(t, h)

	m = send(t, m, storyTickMsg{HandleID: h.ID() + 1000})
	assert.Zero(t, m.viewer.progress.Percent)

	m = send(t, m, tick(h))
	assert.Equal(t, 1, m.viewer.progress.Percent)
}

func TestViewer_CloseStopsTimer(t *testing.T) {
	m, _ := loggedIn(t)
	m = openStrip(t, m, 1)
	h := m.slot.Current()
	require.NotNil(t, h)

	m = send(t, m, key(tea.KeyEsc))
	assert.Equal(t, ScreenChats, m.Screen())
	assert.True(t, h.Stopped())
	assert.Nil(t, m.slot.Current())

	// A tick that was already in flight changes nothing.
	m = send(t, m, tick(h))
	assert.Equal(t, ScreenChats, m.Screen())
	assert.Zero(t, m.viewer.progress.Percent)
}

func TestViewer_AdvancesThroughQueue(t *testing.T) {
	m, store := loggedIn(t)
	m = openStrip(t, m, 1)

	first, ok := m.viewer.current()
	require.True(t, ok)
	assert.Equal(t, "3", first.UserID)
	h1 := m.slot.Current()

	m.viewer.progress = playback.Progress{Percent: playback.Complete - 1}
	m = send(t, m, tick(h1))

	second, ok := m.viewer.current()
	require.True(t, ok)
	assert.Equal(t, "2", second.UserID)
	assert.True(t, h1.Stopped())
	h2 := m.slot.Current()
	require.NotNil(t, h2)
	assert.NotEqual(t, h1.ID(), h2.ID())

	st, err := store.Story(context.Background(), second.ID)
	require.NoError(t, err)
	assert.True(t, st.ViewedBy("1"))

	m.viewer.progress = playback.Progress{Percent: playback.Complete - 1}
	m = send(t, m, tick(h2))
	assert.Equal(t, ScreenChats, m.Screen())
	assert.True(t, h2.Stopped())
}

func TestViewer_ShowsMentions(t *testing.T) {
	m, _ := loggedIn(t)
	m = openStrip(t, m, 2) // jane's story mentions john_doe

	st, ok := m.viewer.current()
	require.True(t, ok)
	assert.Equal(t, "2", st.UserID)
	assert.Contains(t, m.View(), "Mentioned:")
	assert.Contains(t, m.View(), "@john_doe")
}

func TestQuit_StopsTimer(t *testing.T) {
	m, _ := loggedIn(t)
	m = openStrip(t, m, 1)
	h := m.slot.Current()

	next, cmd := m.Update(key(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, h.Stopped())
	assert.Nil(t, next.(Model).slot.Current())
}

// =============================================================================
// STORY COMPOSER
// =============================================================================

func TestComposer_EmptyStoryRejected(t *testing.T) {
	m, _ := loggedIn(t)
	m = send(t, m, typeText("s"))
	require.Equal(t, ScreenStoryComposer, m.Screen())

	m = send(t, m, key(tea.KeyEnter))
	assert.Equal(t, "Story cannot be empty", m.composer.err)
	assert.Equal(t, ScreenStoryComposer, m.Screen())
}

func TestComposer_MentionSearchAndShare(t *testing.T) {
	m, store := loggedIn(t)
	m = send(t, m, typeText("s"))

	m = send(t, m, typeText("sunny day"))
	m = send(t, m, key(tea.KeyCtrlB))
	assert.Equal(t, model.StoryBackgrounds[1], m.composer.backgroundColor())

	m = send(t, m, key(tea.KeyCtrlT))
	require.True(t, m.composer.searching)
	m = send(t, m, typeText("MIK"))
	require.Len(t, m.composer.results, 1)
	m = send(t, m, key(tea.KeyEnter))
	assert.False(t, m.composer.searching)
	assert.Equal(t, "sunny day @mike_wilson ", m.composer.input.Value())

	m = send(t, m, key(tea.KeyEnter))
	assert.Equal(t, ScreenChats, m.Screen())

	stories, err := store.ActiveStories(context.Background(), time.Now())
	require.NoError(t, err)
	var shared *model.Story
	for i := range stories {
		if stories[i].UserID == "1" {
			shared = &stories[i]
		}
	}
	require.NotNil(t, shared)
	assert.Equal(t, "sunny day @mike_wilson", shared.Content)
	assert.Equal(t, []string{"mike_wilson"}, shared.Mentions)
	assert.Equal(t, model.StoryBackgrounds[1], shared.Background)

	notes, err := store.Notifications(context.Background(), "3")
	require.NoError(t, err)
	var found bool
	for _, n := range notes {
		if n.Kind == model.NotifyStoryMention && n.RefID == shared.ID {
			found = true
		}
	}
	assert.True(t, found)

	own, ok := m.strip.Own()
	require.True(t, ok)
	assert.Len(t, own.Stories, 1)
}

func TestComposer_EscClosesSearchFirst(t *testing.T) {
	m, _ := loggedIn(t)
	m = send(t, m, typeText("s"))
	m = send(t, m, key(tea.KeyCtrlT))
	require.True(t, m.composer.searching)

	m = send(t, m, key(tea.KeyEsc))
	assert.False(t, m.composer.searching)
	assert.Equal(t, ScreenStoryComposer, m.Screen())

	m = send(t, m, key(tea.KeyEsc))
	assert.Equal(t, ScreenChats, m.Screen())
}

// =============================================================================
// NOTIFICATIONS AND CONFIG
// =============================================================================

func TestNotifications_OpenMarksRead(t *testing.T) {
	m, store := loggedIn(t)
	require.Positive(t, m.unread, "demo data mentions john_doe")

	m = send(t, m, typeText("n"))
	assert.Equal(t, ScreenNotifications, m.Screen())
	assert.NotEmpty(t, m.notes.Items)
	assert.Zero(t, m.unread)

	n, err := store.UnreadNotifications(context.Background(), "1")
	require.NoError(t, err)
	assert.Zero(t, n)

	m = send(t, m, key(tea.KeyEsc))
	assert.Equal(t, ScreenChats, m.Screen())
}

func TestConfigReload_AppliesLimit(t *testing.T) {
	m, _ := loggedIn(t)
	cfg := config.Default()
	cfg.Chat.SuggestionLimit = 1
	cfg.UI.Theme = "light"

	m = send(t, m, ConfigReloadedMsg{Config: cfg})
	assert.Equal(t, 1, m.cfg.Chat.SuggestionLimit)
	assert.False(t, m.theme.IsDark)

	m = selectChat(t, m, "2")
	m = send(t, m, key(tea.KeyEnter))
	m = send(t, m, typeText("@"))
	assert.Len(t, m.popup.Entries(), 1)
}

func TestWindowResize(t *testing.T) {
	m, _ := loggedIn(t)
	m = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 120, m.chatList.Width)
	assert.Equal(t, 120, m.strip.Width)
	assert.Equal(t, 35, m.conversation.viewport.Height)
	assert.True(t, strings.Contains(m.View(), "palaver"))
}

func TestErrMsg_ShowsToast(t *testing.T) {
	m, _ := loggedIn(t)
	m = send(t, m, errMsg{Op: "load chats", Err: storage.ErrNotFound})
	assert.Contains(t, m.View(), "load chats")

	m = send(t, m, key(tea.KeyDown))
	assert.Empty(t, m.toast)
}

func TestScreenString(t *testing.T) {
	tests := []struct {
		screen Screen
		want   string
	}{
		{ScreenLogin, "login"},
		{ScreenChats, "chats"},
		{ScreenConversation, "conversation"},
		{ScreenStoryViewer, "story_viewer"},
		{ScreenStoryComposer, "story_composer"},
		{ScreenNotifications, "notifications"},
		{Screen(99), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.screen.String())
	}
}

// =============================================================================
// RENDERING
// =============================================================================

// withColor renders styles with ANSI colour for the rest of the test so that
// highlighted text can be told apart from plain text.
func withColor(t *testing.T) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.ANSI256)
	t.Cleanup(func() { lipgloss.SetColorProfile(termenv.Ascii) })
}

func TestConversation_HighlightsUnknownMentions(t *testing.T) {
	withColor(t)
	m, store := loggedIn(t)
	_, err := store.AppendMessage(context.Background(), model.Message{
		ID:       "ghost-1",
		ChatID:   "2",
		SenderID: "1",
		Content:  "hey @ghost",
		Kind:     model.MessageText,
		Status:   model.StatusRead,
		Mentions: []string{"ghost"},
	})
	require.NoError(t, err)

	m = selectChat(t, m, "2")
	m = send(t, m, key(tea.KeyEnter))
	require.Equal(t, ScreenConversation, m.Screen())

	want := m.theme.Mention.Render("@ghost")
	require.NotEqual(t, "@ghost", want)
	assert.Contains(t, m.conversation.viewport.View(), want)
}

func TestViewer_ListsUnknownMentions(t *testing.T) {
	m, _ := loggedIn(t)
	now := time.Now()
	st := model.Story{
		ID:        "ghost-story",
		UserID:    "2",
		Content:   "with @ghost and @jane_smith",
		Mentions:  []string{"ghost", "jane_smith"},
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	m.viewer = viewerState{groups: []model.StoryGroup{{UserID: "2", Stories: []model.Story{st}}}}
	m.screen = ScreenStoryViewer

	assert.Contains(t, m.View(), "Mentioned: @ghost, @jane_smith")
}

func TestConversation_SpinnerUntilDelivered(t *testing.T) {
	ctx := context.Background()
	m, store := loggedIn(t)
	m.cfg.Chat.DeliveryDelayMs = 1000
	m = selectChat(t, m, "2")
	m = send(t, m, key(tea.KeyEnter))

	msg := model.Message{ID: "pending-1", ChatID: "2", SenderID: "1", Content: "hi", Kind: model.MessageText}
	_, err := store.AppendMessage(ctx, msg)
	require.NoError(t, err)

	next, cmd := m.Update(messageSentMsg{Message: msg})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.conversation.spinning)
	m = drain(t, m, m.loadMessages("2"), 1)

	for i := 0; i < 2; i++ {
		next, cmd = m.Update(spinnerTickMsg{})
		m = next.(Model)
		require.NotNil(t, cmd, "spinner keeps ticking while the message is pending")
	}
	assert.Equal(t, 2, m.conversation.frame)
	assert.Contains(t, m.conversation.viewport.View(), styles.DotsSpinner.Frames[2])

	require.NoError(t, store.SetMessageStatus(ctx, msg.ID, model.StatusDelivered))
	m = drain(t, m, m.loadMessages("2"), 1)
	next, cmd = m.Update(spinnerTickMsg{})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.False(t, m.conversation.spinning)
	assert.Zero(t, m.conversation.frame)
	assert.NotContains(t, m.conversation.viewport.View(), styles.DotsSpinner.Frames[2])
}

func TestConversation_NoSpinnerWithoutDelay(t *testing.T) {
	m, _ := loggedIn(t)
	m = selectChat(t, m, "2")
	m = send(t, m, key(tea.KeyEnter))
	m = send(t, m, typeText("hello"))
	m = send(t, m, key(tea.KeyEnter))
	assert.False(t, m.conversation.spinning)
}

func TestConversation_CompactMode(t *testing.T) {
	m, _ := loggedIn(t)
	m = selectChat(t, m, "1")
	m = send(t, m, key(tea.KeyEnter))
	require.NotEmpty(t, m.conversation.messages)
	spaced := m.conversation.viewport.TotalLineCount()

	m.cfg.UI.CompactMode = true
	m.conversation.refresh(m.theme, m.self.ID, m.directory, m.cfg)
	compact := m.conversation.viewport.TotalLineCount()
	assert.Equal(t, spaced-(len(m.conversation.messages)-1), compact)
}

func TestStatusBar_NarrowLayout(t *testing.T) {
	tests := []struct {
		width int
		want  []string
		drop  []string
	}{
		{120, []string{"enter open", "notifications", "quit"}, nil},
		{50, []string{"enter open", "tab stories", "quit"}, []string{"notifications", "help"}},
	}
	for _, tt := range tests {
		m, _ := loggedIn(t)
		m = send(t, m, tea.WindowSizeMsg{Width: tt.width, Height: 24})
		status := m.viewStatus()
		for _, w := range tt.want {
			assert.Contains(t, status, w, "width %d", tt.width)
		}
		for _, d := range tt.drop {
			assert.NotContains(t, status, d, "width %d", tt.width)
		}
	}
}

// =============================================================================
// CONFIG RELOAD AND COMPOSER SUGGESTIONS
// =============================================================================

func TestConfigReload_ThemeKeepsComponentState(t *testing.T) {
	m, _ := loggedIn(t)
	m = selectChat(t, m, "2")
	m = send(t, m, key(tea.KeyEnter))
	m = send(t, m, typeText("@"))
	require.Len(t, m.popup.Entries(), 2)
	header := m.header.View()

	cfg := config.Default()
	cfg.UI.Theme = "light"
	m = send(t, m, ConfigReloadedMsg{Config: cfg})
	require.False(t, m.theme.IsDark)

	assert.True(t, m.popup.Visible())
	assert.Len(t, m.popup.Entries(), 2)
	assert.Equal(t, header, m.header.View())
	assert.NotEmpty(t, m.chatList.Chats)
	assert.Equal(t, ScreenConversation, m.Screen())
}

func TestComposer_MentionAutocomplete(t *testing.T) {
	m, _ := loggedIn(t)
	m = send(t, m, typeText("s"))
	require.Equal(t, ScreenStoryComposer, m.Screen())

	m = send(t, m, typeText("sunny @ja"))
	require.True(t, m.popup.Visible())
	require.Len(t, m.popup.Entries(), 1)
	assert.Contains(t, m.View(), "jane_smith")

	m = send(t, m, key(tea.KeyTab))
	assert.Equal(t, "sunny @jane_smith ", m.composer.input.Value())
	assert.False(t, m.popup.Visible())

	m = send(t, m, typeText("@m"))
	require.True(t, m.popup.Visible())
	m = send(t, m, key(tea.KeyEsc))
	assert.False(t, m.popup.Visible())
	assert.Equal(t, ScreenStoryComposer, m.Screen(), "esc dismisses suggestions before closing")
}
