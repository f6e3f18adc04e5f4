// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jeranaias/palaver-tui/internal/mention"
	"github.com/jeranaias/palaver-tui/internal/ui/styles"
	"github.com/jeranaias/palaver-tui/internal/util"
)

// =============================================================================
// SUGGESTION POPUP COMPONENT
// =============================================================================

// SuggestionPopup lists the directory entries matching the active mention
// query. Selection is owned by the caller (compose.State.Selected) so the
// popup is a pure view.
type SuggestionPopup struct {
	entries  []mention.Entry
	selected int
	width    int
	theme    *styles.Theme
}

// NewSuggestionPopup creates an empty popup.
func NewSuggestionPopup(theme *styles.Theme) *SuggestionPopup {
	return &SuggestionPopup{
		width: 40,
		theme: theme,
	}
}

// SetTheme switches the theme, keeping the current state.
func (p *SuggestionPopup) SetTheme(theme *styles.Theme) {
	p.theme = theme
}

// SetEntries sets the suggestions and the selected index. The index is
// clamped to the entry range.
func (p *SuggestionPopup) SetEntries(entries []mention.Entry, selected int) {
	p.entries = entries
	if selected < 0 || selected >= len(entries) {
		selected = 0
	}
	p.selected = selected
}

// Entries returns the current suggestions.
func (p *SuggestionPopup) Entries() []mention.Entry {
	return p.entries
}

// Selected returns the highlighted entry, if any.
func (p *SuggestionPopup) Selected() (mention.Entry, bool) {
	if p.selected < 0 || p.selected >= len(p.entries) {
		return mention.Entry{}, false
	}
	return p.entries[p.selected], true
}

// Visible reports whether there is anything to show.
func (p *SuggestionPopup) Visible() bool {
	return len(p.entries) > 0
}

// SetWidth sets the popup width.
func (p *SuggestionPopup) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	p.width = width
}

// View renders the popup, or "" when there are no suggestions.
func (p *SuggestionPopup) View() string {
	if len(p.entries) == 0 {
		return ""
	}

	inner := p.width - 4
	items := make([]string, 0, len(p.entries)+1)
	for i, e := range p.entries {
		items = append(items, p.renderItem(e, i == p.selected, inner))
	}
	items = append(items, p.theme.PopupHint.Render(
		util.TruncateWidth("tab/enter choose · ↑↓ move · esc close", inner)))

	return p.theme.Popup.
		Width(p.width - 2).
		Render(strings.Join(items, "\n"))
}

func (p *SuggestionPopup) renderItem(e mention.Entry, isSelected bool, width int) string {
	indicator := "  "
	if isSelected {
		indicator = "> "
	}

	name := e.DisplayName
	if name == "" {
		name = e.Username
	}
	presence := ""
	if e.Online {
		presence = " " + p.theme.Online.Render("●")
	}

	handle := "@" + e.Username
	nameWidth := width - util.StringWidth(indicator) - util.StringWidth(handle) - 3
	if nameWidth < 4 {
		nameWidth = 4
	}
	label := util.PadRight(util.TruncateWidth(name, nameWidth), nameWidth)

	if isSelected {
		return p.theme.PopupItemSelected.Render(indicator+label+" "+handle) + presence
	}
	return p.theme.PopupItem.Render(indicator+label) + " " + p.theme.PopupUsername.Render(handle) + presence
}

// Lines returns the rendered height, for layout.
func (p *SuggestionPopup) Lines() int {
	if len(p.entries) == 0 {
		return 0
	}
	return lipgloss.Height(p.View())
}
