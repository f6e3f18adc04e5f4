// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/jeranaias/palaver-tui/internal/fixtures"
	"github.com/jeranaias/palaver-tui/internal/mention"
	"github.com/jeranaias/palaver-tui/internal/model"
	"github.com/jeranaias/palaver-tui/internal/ui/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func plain(s string) string { return ansi.Strip(s) }

// =============================================================================
// FRAGMENT TESTS
// =============================================================================

func TestRenderFragment_PreservesText(t *testing.T) {
	theme := styles.NewTheme("dark")
	text := "cc @bob and @bobby, not @carol"
	out := RenderMentions(theme, text, []string{"bob", "bobby"})
	assert.Equal(t, text, plain(out))
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"line\nbreak\ttab", "line\nbreak\ttab"},
		{"\x1b[31mred\x1b[0m", "red"},
		{"bell\a", "bell"},
		{"<b>@bob</b>", "<b>@bob</b>"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Sanitize(tt.in), "Sanitize(%q)", tt.in)
	}
}

func TestRenderFragment_EscapesInjectedSequences(t *testing.T) {
	theme := styles.NewTheme("dark")
	frag := mention.Render("hi \x1b[2J@bob", []string{"bob"})
	out := RenderFragment(theme, frag)
	assert.NotContains(t, out, "\x1b[2J")
	assert.Equal(t, "hi @bob", plain(out))
}

// =============================================================================
// SUGGESTION POPUP TESTS
// =============================================================================

func TestSuggestionPopup(t *testing.T) {
	theme := styles.NewTheme("dark")
	p := NewSuggestionPopup(theme)
	assert.False(t, p.Visible())
	assert.Empty(t, p.View())

	entries := []mention.Entry{
		{ID: "1", Username: "john_doe", DisplayName: "John Doe", Online: true},
		{ID: "2", Username: "jane_smith", DisplayName: "Jane Smith"},
	}
	p.SetEntries(entries, 1)
	require.True(t, p.Visible())

	sel, ok := p.Selected()
	require.True(t, ok)
	assert.Equal(t, "jane_smith", sel.Username)

	view := plain(p.View())
	assert.Contains(t, view, "@john_doe")
	assert.Contains(t, view, "> Jane Smith")
	assert.Equal(t, len(entries)+3, p.Lines()) // border top/bottom + hint

	p.SetEntries(entries, 7)
	sel, _ = p.Selected()
	assert.Equal(t, "john_doe", sel.Username, "out-of-range selection resets to first")

	p.SetEntries(nil, 0)
	assert.Zero(t, p.Lines())
	assert.Empty(t, p.View())
}

// =============================================================================
// MESSAGE BUBBLE TESTS
// =============================================================================

func TestMessageBubble(t *testing.T) {
	theme := styles.NewTheme("dark")
	msg := model.Message{
		ID:        "m1",
		ChatID:    "2",
		SenderID:  "3",
		Content:   "Great work on the project @john_doe!",
		Kind:      model.MessageText,
		Status:    model.StatusRead,
		Timestamp: testNow,
		Mentions:  []string{"john_doe"},
	}

	b := NewMessageBubble(msg, theme)
	b.Sender = "Mike Wilson"
	b.ShowSender = true
	b.Width = 80
	view := plain(b.View())
	assert.Contains(t, view, "Mike Wilson")
	assert.Contains(t, view, "@john_doe")
	assert.Contains(t, view, "12:00")
	assert.NotContains(t, view, "✓", "peer messages carry no delivery glyph")

	b.Own = true
	view = plain(b.View())
	assert.Contains(t, view, "✓✓")
	assert.NotContains(t, view, "Mike Wilson", "own messages do not repeat the sender")
}

func TestMessageBubble_Spinner(t *testing.T) {
	theme := styles.NewTheme("dark")
	tests := []struct {
		name    string
		status  model.MessageStatus
		own     bool
		animate bool
		want    bool
	}{
		{"own sent animates", model.StatusSent, true, true, true},
		{"delivered is settled", model.StatusDelivered, true, true, false},
		{"peer never animates", model.StatusSent, false, true, false},
		{"animation off", model.StatusSent, true, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewMessageBubble(model.Message{Content: "hi", Status: tt.status}, theme)
			b.ShowTimestamp = false
			b.Own = tt.own
			b.Animate = tt.animate
			b.Frame = 2
			assert.Equal(t, tt.want, strings.Contains(plain(b.View()), "..."))
		})
	}
}

func TestMessageBubble_MediaLabel(t *testing.T) {
	theme := styles.NewTheme("dark")
	b := NewMessageBubble(model.Message{Kind: model.MessageFile, FileName: "notes.pdf"}, theme)
	b.ShowTimestamp = false
	assert.Contains(t, plain(b.View()), "[file] notes.pdf")
}

// =============================================================================
// CHAT LIST TESTS
// =============================================================================

func TestChatList(t *testing.T) {
	theme := styles.NewTheme("dark")
	data := fixtures.Demo(testNow)

	l := NewChatList(theme)
	l.Directory = data.Users
	l.Self = fixtures.DefaultUserID
	l.Now = testNow
	l.Width = 60

	last := data.Messages[1]
	chats := append([]model.Chat(nil), data.Chats...)
	chats[0].LastMessage = &last
	l.Chats = chats

	view := plain(l.View())
	assert.Contains(t, view, "Jane Smith")
	assert.Contains(t, view, "Team Chat")
	assert.Contains(t, view, "You: I'm doing great!")
	assert.Contains(t, view, "No messages yet")

	l.Move(5)
	assert.Equal(t, 1, l.Selected)
	l.Move(-9)
	assert.Equal(t, 0, l.Selected)

	c, ok := l.Current()
	require.True(t, ok)
	assert.Equal(t, "1", c.ID)
}

func TestChatList_Empty(t *testing.T) {
	l := NewChatList(styles.NewTheme("dark"))
	assert.Contains(t, plain(l.View()), "No chats yet")
	_, ok := l.Current()
	assert.False(t, ok)
}

// =============================================================================
// STORY STRIP TESTS
// =============================================================================

func TestStoryStrip_AddStorySlot(t *testing.T) {
	theme := styles.NewTheme("dark")
	data := fixtures.Demo(testNow)

	s := NewStoryStrip(theme)
	s.Directory = data.Users
	s.Self = fixtures.DefaultUserID
	s.Now = testNow
	s.Groups = model.GroupStories(data.Stories, s.Self)

	assert.Equal(t, 3, s.Len())
	view := plain(s.View())
	assert.Contains(t, view, "Add Story")
	assert.Contains(t, view, "jane_smith")
	assert.Contains(t, view, "2h")

	_, add := s.Target()
	assert.True(t, add)

	s.Move(1)
	g, add := s.Target()
	assert.False(t, add)
	assert.Equal(t, "3", g.UserID, "newest author first")

	s.Move(10)
	assert.Equal(t, 2, s.Selected)
}

func TestStoryStrip_MyStory(t *testing.T) {
	theme := styles.NewTheme("dark")
	data := fixtures.Demo(testNow)
	own := model.NewTextStory("1", "hello", model.StoryBackgrounds[0], nil, model.StoryTTL)
	own.CreatedAt = testNow.Add(-10 * time.Minute)

	s := NewStoryStrip(theme)
	s.Directory = data.Users
	s.Self = "1"
	s.Now = testNow
	s.Groups = model.GroupStories(append(data.Stories, own), "1")

	view := plain(s.View())
	assert.Contains(t, view, "My Story")
	assert.NotContains(t, view, "Add Story")

	g, add := s.Target()
	assert.False(t, add)
	assert.Equal(t, "1", g.UserID)
}

func TestStoryProgress(t *testing.T) {
	theme := styles.NewTheme("dark")
	out := plain(StoryProgress(theme, 11, 3, 2, 100))
	assert.Equal(t, "━━━ ━━━ ━━━", out)
}

// =============================================================================
// NOTIFICATION LIST TESTS
// =============================================================================

func TestNotificationList(t *testing.T) {
	theme := styles.NewTheme("dark")
	l := NewNotificationList(theme)
	assert.Contains(t, plain(l.View()), "No notifications")

	n := model.NewNotification("1", model.NotifyMention, "Mike Wilson mentioned you", "Great work @john_doe!", "m3")
	n.Timestamp = testNow.Add(-time.Hour)
	l.Items = []model.Notification{n}
	l.Now = testNow

	view := plain(l.View())
	assert.Contains(t, view, "Mike Wilson mentioned you")
	assert.Contains(t, view, "1 hour ago")
	assert.Contains(t, view, "●")
}

func TestAgo(t *testing.T) {
	assert.Equal(t, "5 minutes ago", Ago(testNow.Add(-5*time.Minute), testNow))
	assert.Equal(t, "now", Ago(testNow, testNow))
}

// =============================================================================
// HELP TESTS
// =============================================================================

func TestHelp_RendersAndCaches(t *testing.T) {
	h := NewHelp(styles.NewTheme("dark"))
	first := h.View(80)
	assert.True(t, strings.Contains(plain(first), "Conversation"))
	assert.Equal(t, first, h.View(80))
}
