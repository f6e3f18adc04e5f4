// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// CHAT LIST SCREEN
// =============================================================================

func (m Model) handleChatsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()
	case "?":
		m.help = true
		return m, nil
	case "tab":
		m.stripFocused = !m.stripFocused
		m.strip.Focused = m.stripFocused
		return m, nil
	case "up", "k":
		if !m.stripFocused {
			m.chatList.Move(-1)
		}
		return m, nil
	case "down", "j":
		if !m.stripFocused {
			m.chatList.Move(1)
		}
		return m, nil
	case "left", "h":
		if m.stripFocused {
			m.strip.Move(-1)
		}
		return m, nil
	case "right", "l":
		if m.stripFocused {
			m.strip.Move(1)
		}
		return m, nil
	case "s":
		return m.openComposer()
	case "n":
		m.screen = ScreenNotifications
		m.header.SetTitle("palaver", "Notifications")
		return m, m.loadNotifications()
	case "r":
		return m, m.loadData()
	case "enter":
		if m.stripFocused {
			group, add := m.strip.Target()
			if add {
				return m.openComposer()
			}
			return m.openStories(group)
		}
		c, ok := m.chatList.Current()
		if !ok {
			return m, nil
		}
		return m.openConversation(c)
	}
	return m, nil
}

func (m Model) viewChats() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		m.strip.View(),
		"",
		m.chatList.View(),
	)
}
