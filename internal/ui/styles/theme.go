// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	Name         string
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderMeta  lipgloss.Style
	Badge       lipgloss.Style

	// ==========================================================================
	// CHAT LIST STYLES
	// ==========================================================================

	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style
	ListTitle        lipgloss.Style
	ListPreview      lipgloss.Style
	ListTime         lipgloss.Style
	Online           lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	OwnBubble  lipgloss.Style
	PeerBubble lipgloss.Style
	Sender     lipgloss.Style
	Timestamp  lipgloss.Style
	StatusSent lipgloss.Style
	StatusRead lipgloss.Style
	Mention    lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style

	// ==========================================================================
	// SUGGESTION POPUP STYLES
	// ==========================================================================

	Popup             lipgloss.Style
	PopupItem         lipgloss.Style
	PopupItemSelected lipgloss.Style
	PopupUsername     lipgloss.Style
	PopupHint         lipgloss.Style

	// ==========================================================================
	// STORY STYLES
	// ==========================================================================

	StoryRing       lipgloss.Style
	StoryRingViewed lipgloss.Style
	StoryAdd        lipgloss.Style
	StoryProgress   lipgloss.Style
	StoryCaption    lipgloss.Style
	StoryMeta       lipgloss.Style

	// ==========================================================================
	// FORM AND MISC STYLES
	// ==========================================================================

	Box         lipgloss.Style
	Tab         lipgloss.Style
	TabActive   lipgloss.Style
	Label       lipgloss.Style
	Help        lipgloss.Style
	Error       lipgloss.Style
	Notice      lipgloss.Style
	UnreadDot   lipgloss.Style
	StatusBar   lipgloss.Style
	ShortcutKey lipgloss.Style
}

// NewTheme creates a theme. name is "dark", "light" or "auto"; auto asks the
// terminal for its background.
func NewTheme(name string) *Theme {
	colorProfile := termenv.ColorProfile()

	name = strings.ToLower(name)
	var isDark bool
	switch name {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	default:
		name = "auto"
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		Name:         name,
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal)

	t.HeaderMeta = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.Badge = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Rose).
		Bold(true).
		Padding(0, 1)

	// Chat list
	t.ListItem = lipgloss.NewStyle().
		Padding(0, 1)

	t.ListItemSelected = lipgloss.NewStyle().
		Background(SelectionBg).
		Padding(0, 1)

	t.ListTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.ListPreview = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.ListTime = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Online = lipgloss.NewStyle().
		Foreground(Emerald)

	// Message bubbles
	t.OwnBubble = lipgloss.NewStyle().
		Foreground(OwnBubbleFg).
		Background(OwnBubbleBg).
		Padding(0, 1).
		MarginLeft(4)

	t.PeerBubble = lipgloss.NewStyle().
		Foreground(PeerBubbleFg).
		Background(PeerBubbleBg).
		Padding(0, 1).
		MarginRight(4)

	t.Sender = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.StatusSent = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.StatusRead = lipgloss.NewStyle().
		Foreground(Cyan)

	t.Mention = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	// Suggestion popup
	t.Popup = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(0, 1)

	t.PopupItem = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.PopupItemSelected = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Cyan).
		Bold(true)

	t.PopupUsername = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.PopupHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Stories
	t.StoryRing = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.StoryRingViewed = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.StoryAdd = lipgloss.NewStyle().
		Foreground(Teal)

	t.StoryProgress = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.StoryCaption = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Align(lipgloss.Center)

	t.StoryMeta = lipgloss.NewStyle().
		Foreground(TextSecondary)

	// Forms and misc
	t.Box = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(1, 2)

	t.Tab = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.TabActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Teal).
		Bold(true).
		Padding(0, 1)

	t.Label = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.Help = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Error = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.Notice = lipgloss.NewStyle().
		Foreground(Amber)

	t.UnreadDot = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)
}

// StoryCard returns the style for a text story drawn on background bg
// (a "#RRGGBB" colour).
func (t *Theme) StoryCard(bg string, width, height int) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(bg)).
		Foreground(lipgloss.Color("#FFFFFF")).
		Bold(true).
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
