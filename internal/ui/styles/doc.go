// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the palaver TUI.

All colors use Lip Gloss AdaptiveColor so the same palette works on light and
dark terminals. The theme can be forced with the ui.theme setting.

# Color System (colors.go)

  - Teal - Brand color, own bubbles, the input prompt
  - Cyan - Mentions and the selected suggestion
  - Purple - Story rings and sender names
  - Emerald - Online presence
  - Rose - Errors and unread badges

# Theme (theme.go)

Theme groups the lipgloss styles for each screen: header, chat list, bubbles,
the mention suggestion popup, stories and forms.

	theme := styles.NewTheme(cfg.UI.Theme)
	fmt.Println(theme.Mention.Render("@john_doe"))

# Animations (animations.go)

RenderProgressBar and RenderSegmentedBar draw the story viewer's progress.
*/
package styles
