// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jeranaias/palaver-tui/internal/model"
	"github.com/jeranaias/palaver-tui/internal/ui/styles"
	"github.com/jeranaias/palaver-tui/internal/util"
)

// =============================================================================
// STORY STRIP COMPONENT
// =============================================================================

// StoryStrip is the horizontal row of story avatars above the chat list.
// Slot 0 is always the user's own: "My Story" when they have active
// stories, otherwise "Add Story". Other authors follow in group order.
type StoryStrip struct {
	Groups    []model.StoryGroup
	Directory model.Directory
	Self      string
	Selected  int
	Focused   bool
	Width     int
	Now       time.Time
	theme     *styles.Theme
}

// NewStoryStrip creates an empty strip.
func NewStoryStrip(theme *styles.Theme) *StoryStrip {
	return &StoryStrip{Width: 80, theme: theme}
}

// SetTheme switches the theme, keeping the current state.
func (s *StoryStrip) SetTheme(theme *styles.Theme) {
	s.theme = theme
}

// Own returns the user's own group, if they have active stories.
func (s *StoryStrip) Own() (model.StoryGroup, bool) {
	if len(s.Groups) > 0 && s.Groups[0].UserID == s.Self {
		return s.Groups[0], true
	}
	return model.StoryGroup{}, false
}

// others returns the groups not authored by self.
func (s *StoryStrip) others() []model.StoryGroup {
	if _, ok := s.Own(); ok {
		return s.Groups[1:]
	}
	return s.Groups
}

// Len returns the number of slots, including the own slot.
func (s *StoryStrip) Len() int {
	return 1 + len(s.others())
}

// Move shifts the selection, clamped to the strip.
func (s *StoryStrip) Move(delta int) {
	s.Selected += delta
	if s.Selected < 0 {
		s.Selected = 0
	}
	if s.Selected >= s.Len() {
		s.Selected = s.Len() - 1
	}
}

// Target resolves the selected slot. add is true when the slot is the own
// slot and the user has no stories yet.
func (s *StoryStrip) Target() (group model.StoryGroup, add bool) {
	if s.Selected <= 0 {
		if own, ok := s.Own(); ok {
			return own, false
		}
		return model.StoryGroup{}, true
	}
	others := s.others()
	i := s.Selected - 1
	if i >= len(others) {
		return model.StoryGroup{}, true
	}
	return others[i], false
}

// View renders the strip on one line of avatars and one line of labels.
func (s *StoryStrip) View() string {
	now := s.Now
	if now.IsZero() {
		now = time.Now()
	}

	var cells []string
	own, hasOwn := s.Own()
	if hasOwn {
		cells = append(cells, s.cell(0, s.theme.StoryRingViewed.Render("◉"), "My Story", ago(own.Latest, now)))
	} else {
		cells = append(cells, s.cell(0, s.theme.StoryAdd.Render("+"), "Add Story", ""))
	}
	for i, g := range s.others() {
		ring := s.theme.StoryRingViewed.Render("○")
		if g.Unviewed {
			ring = s.theme.StoryRing.Render("◉")
		}
		name := s.Directory.Name(g.UserID)
		if u, ok := s.Directory.ByID(g.UserID); ok {
			name = u.Username
		}
		cells = append(cells, s.cell(i+1, ring, name, ago(g.Latest, now)))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	if lipgloss.Width(row) > s.Width && s.Width > 0 {
		return lipgloss.NewStyle().MaxWidth(s.Width).Render(row)
	}
	return row
}

func (s *StoryStrip) cell(i int, ring, label, age string) string {
	const cellWidth = 12
	label = util.TruncateWidth(Sanitize(label), cellWidth-2)
	lines := []string{ring, label}
	if age != "" {
		lines = append(lines, s.theme.ListTime.Render(age))
	} else {
		lines = append(lines, "")
	}
	style := lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Center)
	if s.Focused && i == s.Selected {
		style = style.Background(styles.SelectionBg)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// ago formats whole hours since t, "now" inside the first hour.
func ago(t, now time.Time) string {
	h := int(now.Sub(t) / time.Hour)
	if h <= 0 {
		return "now"
	}
	return strconv.Itoa(h) + "h"
}

// =============================================================================
// STORY PROGRESS COMPONENT
// =============================================================================

// StoryProgress renders the segmented progress bar across the top of the
// story viewer: one segment per story in the group, the current one filled
// to percent.
func StoryProgress(theme *styles.Theme, width, count, current int, percent float64) string {
	return theme.StoryProgress.Render(styles.RenderSegmentedBar(width, count, current, percent))
}
