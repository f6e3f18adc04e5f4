// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/palaver-tui/internal/logging"
	"github.com/jeranaias/palaver-tui/internal/mention"
	"github.com/jeranaias/palaver-tui/internal/model"
	"github.com/jeranaias/palaver-tui/internal/playback"
	"github.com/jeranaias/palaver-tui/internal/ui/components"
)

// =============================================================================
// STORY VIEWER STATE
// =============================================================================

// viewerState walks the queued story groups one story at a time.
type viewerState struct {
	groups   []model.StoryGroup
	group    int
	index    int
	progress playback.Progress
}

func (v viewerState) current() (model.Story, bool) {
	if v.group < 0 || v.group >= len(v.groups) {
		return model.Story{}, false
	}
	g := v.groups[v.group]
	if v.index < 0 || v.index >= len(g.Stories) {
		return model.Story{}, false
	}
	return g.Stories[v.index], true
}

// next moves to the following story, crossing into the next group. ok is
// false when the queue is exhausted.
func (v viewerState) next() (viewerState, bool) {
	v.progress = playback.Progress{}
	if v.group >= len(v.groups) {
		return v, false
	}
	if v.index+1 < len(v.groups[v.group].Stories) {
		v.index++
		return v, true
	}
	if v.group+1 < len(v.groups) {
		v.group++
		v.index = 0
		return v, true
	}
	return v, false
}

// prev moves back one story, or restarts the first one.
func (v viewerState) prev() viewerState {
	v.progress = playback.Progress{}
	switch {
	case v.index > 0:
		v.index--
	case v.group > 0:
		v.group--
		v.index = len(v.groups[v.group].Stories) - 1
	}
	return v
}

// replace swaps in an updated copy of a queued story.
func (v *viewerState) replace(st model.Story) {
	for gi := range v.groups {
		stories := v.groups[gi].Stories
		for si := range stories {
			if stories[si].ID == st.ID {
				updated := append([]model.Story(nil), stories...)
				updated[si] = st
				v.groups[gi].Stories = updated
				return
			}
		}
	}
}

// =============================================================================
// STORY VIEWER SCREEN
// =============================================================================

// openStories plays group and, for other authors, every group after it in
// the strip. The user's own group plays alone.
func (m Model) openStories(group model.StoryGroup) (tea.Model, tea.Cmd) {
	queue := []model.StoryGroup{group}
	if group.UserID != m.self.ID {
		queue = queue[:0]
		found := false
		for _, g := range m.strip.Groups {
			if g.UserID == group.UserID {
				found = true
			}
			if found && g.UserID != m.self.ID {
				queue = append(queue, g)
			}
		}
		if len(queue) == 0 {
			queue = []model.StoryGroup{group}
		}
	}
	m.viewer = viewerState{groups: queue}
	m.screen = ScreenStoryViewer
	return m.startStory()
}

// startStory starts a fresh playback handle for the current story. The slot
// stops whatever handle was running, so ticks from an earlier story are
// never applied.
func (m Model) startStory() (tea.Model, tea.Cmd) {
	st, ok := m.viewer.current()
	if !ok {
		return m.closeViewer()
	}
	interval := time.Duration(m.cfg.Stories.TickMs) * time.Millisecond
	h := m.slot.Replace(playback.Start(m.ctx, interval))
	logging.Debug("play story", "story", st.ID, "handle", h.ID())

	cmds := []tea.Cmd{listen(h)}
	if st.UserID != m.self.ID && !st.ViewedBy(m.self.ID) {
		cmds = append(cmds, m.markStoryViewed(st.ID))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) closeViewer() (tea.Model, tea.Cmd) {
	m.slot.Stop()
	m.viewer = viewerState{}
	m.screen = ScreenChats
	return m, m.loadData()
}

func (m Model) handleStoryTick(msg storyTickMsg) (tea.Model, tea.Cmd) {
	if m.screen != ScreenStoryViewer || !m.slot.Owns(msg.HandleID) {
		return m, nil
	}
	progress, done := m.viewer.progress.Advance()
	if !done {
		m.viewer.progress = progress
		return m, listen(m.slot.Current())
	}
	next, ok := m.viewer.next()
	if !ok {
		return m.closeViewer()
	}
	m.viewer = next
	return m.startStory()
}

func (m Model) handleViewerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "backspace":
		return m.closeViewer()
	case "right", "l", " ":
		next, ok := m.viewer.next()
		if !ok {
			return m.closeViewer()
		}
		m.viewer = next
		return m.startStory()
	case "left", "h":
		m.viewer = m.viewer.prev()
		return m.startStory()
	}
	return m, nil
}

func (m Model) viewStory() string {
	st, ok := m.viewer.current()
	if !ok {
		return ""
	}
	t := m.theme
	g := m.viewer.groups[m.viewer.group]
	width := max(m.width, 20)

	bar := components.StoryProgress(t, width, len(g.Stories), m.viewer.index, float64(m.viewer.progress.Percent))

	author, _ := m.directory.ByID(st.UserID)
	name := author.DisplayName
	if st.UserID == m.self.ID {
		name = "My Story"
	}
	age := "now"
	if h := st.HoursAgo(m.now()); h > 0 {
		age = strconv.Itoa(h) + "h ago"
	}
	meta := t.StoryRing.Render(author.Initial()) + " " +
		t.HeaderTitle.Render(components.Sanitize(name)) + " " + t.StoryMeta.Render(age)

	var footer []string
	if names := mention.Unique(st.Mentions); len(names) > 0 {
		tags := make([]string, len(names))
		for i, u := range names {
			tags[i] = t.Mention.Render("@" + u)
		}
		footer = append(footer, t.StoryMeta.Render("Mentioned: ")+strings.Join(tags, t.StoryMeta.Render(", ")))
	}
	if st.UserID == m.self.ID {
		footer = append(footer, t.StoryMeta.Render("👁 "+st.ViewLabel()))
	}
	footer = append(footer, t.Help.Render("← prev • → next • esc close"))

	cardHeight := m.height - 3 - len(footer)
	if cardHeight < 3 {
		cardHeight = 3
	}
	var card string
	switch st.Kind {
	case model.StoryText, "":
		body := components.RenderMentions(t, st.Content, st.Mentions)
		card = t.StoryCard(st.Background, width, cardHeight).Render(body)
	default:
		label := "[" + string(st.Kind) + "]"
		if st.MediaURL != "" {
			label += " " + components.Sanitize(st.MediaURL)
		}
		if st.Content != "" {
			label += "\n\n" + t.StoryCaption.Render(components.Sanitize(st.Content))
		}
		card = lipgloss.Place(width, cardHeight, lipgloss.Center, lipgloss.Center, label)
	}

	return lipgloss.JoinVertical(lipgloss.Left, bar, meta, card, strings.Join(footer, "\n"))
}
