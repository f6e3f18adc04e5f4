// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/palaver-tui/internal/compose"
	"github.com/jeranaias/palaver-tui/internal/mention"
	"github.com/jeranaias/palaver-tui/internal/model"
	"github.com/jeranaias/palaver-tui/internal/ui/components"
)

// =============================================================================
// STORY COMPOSER STATE
// =============================================================================

// composerState is the text story editor. Mentions are added either by
// typing @name, which opens the same suggestion popup as a conversation, or
// through the ctrl+t search, which appends the chosen username to the end of
// the text.
type composerState struct {
	input      textinput.Model
	compose    compose.State
	background int

	searching bool
	search    textinput.Model
	results   []mention.Entry
	selected  int

	err string
}

func newComposerState() composerState {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "Type your story…"
	in.CharLimit = 500

	search := textinput.New()
	search.Prompt = "@"
	search.Placeholder = "search users"
	search.CharLimit = 32

	return composerState{input: in, compose: compose.New(), search: search}
}

func (c composerState) update(msg tea.Msg) (composerState, tea.Cmd) {
	var cmd tea.Cmd
	if c.searching {
		c.search, cmd = c.search.Update(msg)
	} else {
		c.input, cmd = c.input.Update(msg)
	}
	return c, cmd
}

func (c composerState) backgroundColor() string {
	return model.StoryBackgrounds[c.background%len(model.StoryBackgrounds)]
}

// =============================================================================
// STORY COMPOSER SCREEN
// =============================================================================

func (m Model) openComposer() (tea.Model, tea.Cmd) {
	m.composer = newComposerState()
	m.popup.SetEntries(nil, 0)
	focus := m.composer.input.Focus()
	m.screen = ScreenStoryComposer
	m.header.SetTitle("palaver", "New Story")
	return m, focus
}

func (m Model) closeComposer() (tea.Model, tea.Cmd) {
	m.composer.input.Blur()
	m.composer.search.Blur()
	m.popup.SetEntries(nil, 0)
	m.screen = ScreenChats
	m.header.SetTitle("palaver", "Chats")
	return m, nil
}

func (m Model) handleComposerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := &m.composer
	if c.searching {
		return m.handleMentionSearchKey(msg)
	}

	if suggestions := m.popup.Entries(); len(suggestions) > 0 {
		switch msg.String() {
		case "up", "ctrl+p":
			c.compose = c.compose.Move(-1, len(suggestions))
			m.popup.SetEntries(suggestions, c.compose.Selected)
			return m, nil
		case "down", "ctrl+n":
			c.compose = c.compose.Move(1, len(suggestions))
			m.popup.SetEntries(suggestions, c.compose.Selected)
			return m, nil
		case "tab", "enter":
			if e, ok := m.popup.Selected(); ok {
				c.compose = c.compose.Choose(e.Username)
				c.input.SetValue(c.compose.Text)
				c.input.SetCursor(c.compose.Caret)
				m.popup.SetEntries(nil, 0)
				return m, nil
			}
		case "esc":
			c.compose = c.compose.Dismiss()
			m.popup.SetEntries(nil, 0)
			return m, nil
		}
	}

	switch msg.String() {
	case "esc":
		return m.closeComposer()
	case "ctrl+b":
		c.background = (c.background + 1) % len(model.StoryBackgrounds)
		return m, nil
	case "ctrl+t":
		c.searching = true
		c.compose = c.compose.Dismiss()
		m.popup.SetEntries(nil, 0)
		c.input.Blur()
		c.search.SetValue("")
		c.selected = 0
		c.results = m.searchUsers("")
		focus := c.search.Focus()
		return m, focus
	case "enter":
		return m.submitStory()
	}

	c.err = ""
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	c.compose = m.suggest(c.compose, c.input)
	return m, cmd
}

func (m Model) handleMentionSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := &m.composer
	switch msg.String() {
	case "esc":
		focus := m.endMentionSearch()
		return m, focus
	case "up", "ctrl+p":
		if c.selected > 0 {
			c.selected--
		}
		return m, nil
	case "down", "ctrl+n":
		if c.selected < len(c.results)-1 {
			c.selected++
		}
		return m, nil
	case "enter", "tab":
		if c.selected < len(c.results) {
			c.input.SetValue(mention.Append(c.input.Value(), c.results[c.selected].Username))
			c.input.CursorEnd()
			c.compose = m.suggest(c.compose, c.input)
		}
		focus := m.endMentionSearch()
		return m, focus
	}

	var cmd tea.Cmd
	c.search, cmd = c.search.Update(msg)
	c.results = m.searchUsers(c.search.Value())
	c.selected = 0
	return m, cmd
}

// endMentionSearch closes the search and returns focus to the story text.
func (m *Model) endMentionSearch() tea.Cmd {
	c := &m.composer
	c.searching = false
	c.results = nil
	c.search.Blur()
	return c.input.Focus()
}

func (m Model) searchUsers(query string) []mention.Entry {
	return mention.Top(mention.Suggest(query, m.directory.Entries(), m.self.ID), m.cfg.Chat.SuggestionLimit)
}

func (m Model) submitStory() (tea.Model, tea.Cmd) {
	content := strings.TrimSpace(m.composer.input.Value())
	if content == "" {
		m.composer.err = "Story cannot be empty"
		return m, nil
	}
	ttl := time.Duration(m.cfg.Stories.TTLHours) * time.Hour
	st := model.NewTextStory(m.self.ID, content, m.composer.backgroundColor(), mention.Extract(content), ttl)
	m.composer.input.Blur()
	return m, m.shareStory(st)
}

func (m Model) viewComposer() string {
	t := m.theme
	c := m.composer
	width := max(m.width, 20)

	cardHeight := m.height - 8
	popup := ""
	if m.popup.Visible() && !c.searching {
		popup = m.popup.View()
		cardHeight -= m.popup.Lines()
	}
	if c.searching {
		cardHeight -= len(c.results) + 2
	}
	if cardHeight < 3 {
		cardHeight = 3
	}

	text := c.input.Value()
	body := c.input.View()
	if !c.input.Focused() && text != "" {
		body = components.RenderMentions(t, text, mention.Extract(text))
	}
	card := t.StoryCard(c.backgroundColor(), width, cardHeight).Render(body)

	parts := []string{m.header.View(), card}
	if popup != "" {
		parts = append(parts, popup)
	}
	if tags := mention.Unique(mention.Extract(text)); len(tags) > 0 {
		for i, u := range tags {
			tags[i] = t.Mention.Render("@" + u)
		}
		parts = append(parts, t.StoryMeta.Render("Mentions: ")+strings.Join(tags, " "))
	}
	if c.searching {
		parts = append(parts, c.search.View())
		if len(c.results) == 0 {
			parts = append(parts, t.PopupHint.Render("no matches"))
		}
		for i, e := range c.results {
			line := "  " + components.Sanitize(e.DisplayName) + " " + t.PopupUsername.Render("@"+e.Username)
			if i == c.selected {
				line = t.PopupItemSelected.Render("> " + components.Sanitize(e.DisplayName) + " @" + e.Username)
			}
			parts = append(parts, line)
		}
	}
	if c.err != "" {
		parts = append(parts, t.Error.Render(c.err))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
