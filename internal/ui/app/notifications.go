// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// NOTIFICATIONS SCREEN
// =============================================================================

// viewNotifications lists mention and message notifications, newest first.
// Opening the screen marks them read.
func (m Model) viewNotifications() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), "", m.notes.View())
}
