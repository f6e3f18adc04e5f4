// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/jeranaias/palaver-tui/internal/ui/styles"
	"github.com/jeranaias/palaver-tui/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar shown on every screen: the screen or chat title,
// a subtitle (presence, member count), and the unread notification badge.
type Header struct {
	Title    string
	Subtitle string
	User     string // signed-in username
	Unread   int    // unread notifications
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a new Header component with default values
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "palaver",
		Width: 80,
		theme: theme,
	}
}

// SetTheme switches the theme, keeping the current state.
func (h *Header) SetTheme(theme *styles.Theme) {
	h.theme = theme
}

// SetWidth updates the header width
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetTitle updates the title and subtitle
func (h *Header) SetTitle(title, subtitle string) {
	h.Title = title
	h.Subtitle = subtitle
}

// SetUnread updates the notification badge
func (h *Header) SetUnread(n int) {
	if n < 0 {
		n = 0
	}
	h.Unread = n
}

// View renders the header on a single line plus its bottom border.
func (h *Header) View() string {
	width := h.Width
	if width < 30 {
		width = 30
	}
	inner := width - h.theme.Header.GetHorizontalFrameSize()

	right := ""
	if h.User != "" {
		right = h.theme.HeaderMeta.Render("@" + h.User)
	}
	right += " " + h.bell()

	leftWidth := inner - lipgloss.Width(right) - 1
	if leftWidth < 4 {
		leftWidth = 4
	}
	title := util.TruncateWidth(Sanitize(h.Title), leftWidth)
	left := h.theme.HeaderTitle.Render(title)
	if h.Subtitle != "" {
		if room := leftWidth - util.StringWidth(title) - 3; room > 3 {
			left += h.theme.HeaderMeta.Render(" · " + util.TruncateWidth(Sanitize(h.Subtitle), room))
		}
	}

	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	line := left + lipgloss.NewStyle().Width(gap).Render("") + right
	return h.theme.Header.Width(width).Render(line)
}

func (h *Header) bell() string {
	if h.Unread == 0 {
		return h.theme.HeaderMeta.Render("[n]")
	}
	count := strconv.Itoa(h.Unread)
	if h.Unread > 99 {
		count = "99+"
	}
	return h.theme.Badge.Render("[n] " + count)
}
