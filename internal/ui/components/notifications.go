// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jeranaias/palaver-tui/internal/model"
	"github.com/jeranaias/palaver-tui/internal/ui/styles"
	"github.com/jeranaias/palaver-tui/internal/util"
)

// =============================================================================
// NOTIFICATION LIST COMPONENT
// =============================================================================

// NotificationList renders notifications newest first with relative times.
type NotificationList struct {
	Items []model.Notification
	Width int
	Now   time.Time
	theme *styles.Theme
}

// NewNotificationList creates an empty list.
func NewNotificationList(theme *styles.Theme) *NotificationList {
	return &NotificationList{Width: 80, theme: theme}
}

// SetTheme switches the theme, keeping the current state.
func (l *NotificationList) SetTheme(theme *styles.Theme) {
	l.theme = theme
}

// View renders the list.
func (l *NotificationList) View() string {
	if len(l.Items) == 0 {
		return l.theme.Help.Render("  No notifications")
	}
	now := l.Now
	if now.IsZero() {
		now = time.Now()
	}
	width := l.Width - 4
	if width < 20 {
		width = 20
	}

	rows := make([]string, 0, len(l.Items))
	for _, n := range l.Items {
		dot := "  "
		if !n.Read {
			dot = l.theme.UnreadDot.Render("●") + " "
		}
		when := Ago(n.Timestamp, now)
		titleWidth := width - util.StringWidth(when) - 3
		title := util.PadRight(util.TruncateWidth(Sanitize(n.Title), titleWidth), titleWidth)
		body := util.TruncateWidth(Sanitize(util.SingleLine(n.Body)), width-2)
		rows = append(rows,
			dot+l.theme.ListTitle.Render(title)+" "+l.theme.ListTime.Render(when)+"\n"+
				"  "+l.theme.ListPreview.Render(body))
	}
	return strings.Join(rows, "\n\n")
}

// Ago formats t relative to now, e.g. "5 minutes ago".
func Ago(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}
