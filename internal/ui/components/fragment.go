// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"github.com/jeranaias/palaver-tui/internal/mention"
	"github.com/jeranaias/palaver-tui/internal/ui/styles"
)

// =============================================================================
// MENTION FRAGMENT RENDERING
// =============================================================================

// RenderFragment draws rendered text for the terminal. Mention segments get
// the theme's mention style; text segments are shown literally, with any
// terminal escape sequences or control characters removed so message
// content can never restyle the screen.
func RenderFragment(theme *styles.Theme, frag mention.Fragment) string {
	var b strings.Builder
	for _, seg := range frag {
		switch seg.Kind {
		case mention.Mention:
			b.WriteString(theme.Mention.Render(seg.Text))
		default:
			b.WriteString(Sanitize(seg.Text))
		}
	}
	return b.String()
}

// RenderMentions renders text, highlighting the given usernames whether or
// not they belong to a known user.
func RenderMentions(theme *styles.Theme, text string, mentions []string) string {
	return RenderFragment(theme, mention.Render(text, mentions))
}

// Sanitize strips ANSI sequences and control characters other than newline
// and tab.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	if strings.IndexFunc(s, isUnsafe) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isUnsafe(r) {
			return -1
		}
		return r
	}, s)
}

func isUnsafe(r rune) bool {
	return r != '\n' && r != '\t' && unicode.IsControl(r)
}
