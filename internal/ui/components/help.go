// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/jeranaias/palaver-tui/internal/ui/styles"
)

// HelpMarkdown is the keyboard reference shown by the help overlay.
const HelpMarkdown = `# palaver

## Chats
| Key | Action |
|-----|--------|
| ↑/↓ | select chat |
| enter | open chat |
| tab | switch between stories and chats |
| s | add a story |
| n | notifications |
| ? | this help |
| q | quit |

## Conversation
| Key | Action |
|-----|--------|
| @ | start a mention; suggestions appear as you type |
| ↑/↓ | move through suggestions |
| tab/enter | insert the highlighted user |
| esc | close suggestions, then leave the chat |
| enter | send |

## Stories
| Key | Action |
|-----|--------|
| ←/→ | previous / next story |
| esc | close the viewer |
| ctrl+b | next background (composer) |
| ctrl+t | add a mention (composer) |
`

// =============================================================================
// HELP OVERLAY COMPONENT
// =============================================================================

// Help renders HelpMarkdown with glamour. The rendered text is cached per
// width.
type Help struct {
	theme    *styles.Theme
	width    int
	rendered string
}

// NewHelp creates the help overlay.
func NewHelp(theme *styles.Theme) *Help {
	return &Help{theme: theme}
}

// SetTheme switches the theme and drops the cached rendering.
func (h *Help) SetTheme(theme *styles.Theme) {
	h.theme = theme
	h.rendered = ""
}

// View renders the overlay for the given width. If glamour fails the raw
// markdown is shown.
func (h *Help) View(width int) string {
	if width < 40 {
		width = 40
	}
	if h.rendered != "" && h.width == width {
		return h.rendered
	}

	style := "dark"
	if h.theme != nil && !h.theme.IsDark {
		style = "light"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width-4),
	)
	out := HelpMarkdown
	if err == nil {
		if rendered, rerr := r.Render(HelpMarkdown); rerr == nil {
			out = strings.TrimRight(rendered, "\n")
		}
	}
	h.width = width
	h.rendered = out
	return out
}
