// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/palaver-tui/internal/model"
	"github.com/jeranaias/palaver-tui/internal/ui/styles"
	"github.com/jeranaias/palaver-tui/internal/util"
)

// =============================================================================
// CHAT LIST COMPONENT
// =============================================================================

// ChatList renders the user's chats, most recent first, with a preview of
// the last message and an unread count.
type ChatList struct {
	Chats     []model.Chat
	Directory model.Directory
	Self      string
	Selected  int
	Width     int
	Now       time.Time
	theme     *styles.Theme
}

// NewChatList creates a chat list.
func NewChatList(theme *styles.Theme) *ChatList {
	return &ChatList{Width: 80, theme: theme}
}

// SetTheme switches the theme, keeping the current state.
func (l *ChatList) SetTheme(theme *styles.Theme) {
	l.theme = theme
}

// Current returns the selected chat.
func (l *ChatList) Current() (model.Chat, bool) {
	if l.Selected < 0 || l.Selected >= len(l.Chats) {
		return model.Chat{}, false
	}
	return l.Chats[l.Selected], true
}

// Move shifts the selection, clamped to the list.
func (l *ChatList) Move(delta int) {
	if len(l.Chats) == 0 {
		l.Selected = 0
		return
	}
	l.Selected += delta
	if l.Selected < 0 {
		l.Selected = 0
	}
	if l.Selected >= len(l.Chats) {
		l.Selected = len(l.Chats) - 1
	}
}

// View renders the list.
func (l *ChatList) View() string {
	if len(l.Chats) == 0 {
		return l.theme.Help.Render("  No chats yet")
	}
	rows := make([]string, 0, len(l.Chats))
	for i, c := range l.Chats {
		rows = append(rows, l.renderRow(c, i == l.Selected))
	}
	return strings.Join(rows, "\n")
}

func (l *ChatList) renderRow(c model.Chat, selected bool) string {
	width := l.Width - 2
	if width < 24 {
		width = 24
	}

	stamp := ""
	preview := "No messages yet"
	if c.LastMessage != nil {
		stamp = l.formatTime(c.LastMessage.Timestamp)
		switch {
		case c.LastMessage.SenderID == l.Self:
			preview = "You: " + c.LastMessage.Preview(120)
		case c.Kind == model.ChatGroup:
			preview = l.Directory.Name(c.LastMessage.SenderID) + ": " + c.LastMessage.Preview(120)
		default:
			preview = c.LastMessage.Preview(120)
		}
	}

	dot := ""
	if peer, ok := c.Peer(l.Self, l.Directory); ok && peer.Online {
		dot = " ●"
	}
	titleWidth := width - util.StringWidth(stamp) - util.StringWidth(dot) - 1
	title := util.PadRight(util.TruncateWidth(Sanitize(c.Title(l.Self, l.Directory)), titleWidth), titleWidth)
	first := l.theme.ListTitle.Render(title)
	if dot != "" {
		first += l.theme.Online.Render(dot)
	}
	first += " " + l.theme.ListTime.Render(stamp)

	badge := ""
	previewWidth := width
	if c.UnreadCount > 0 {
		count := strconv.Itoa(c.UnreadCount)
		badge = " " + l.theme.Badge.Render(count)
		previewWidth -= util.StringWidth(count) + 3
	}
	second := l.theme.ListPreview.Render(util.PadRight(util.TruncateWidth(Sanitize(preview), previewWidth), previewWidth)) + badge

	style := l.theme.ListItem
	if selected {
		style = l.theme.ListItemSelected
	}
	return style.Render(first + "\n" + second)
}

func (l *ChatList) formatTime(t time.Time) string {
	now := l.Now
	if now.IsZero() {
		now = time.Now()
	}
	y1, m1, d1 := t.Date()
	y2, m2, d2 := now.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return t.Format("15:04")
	}
	return t.Format("Jan 2")
}
