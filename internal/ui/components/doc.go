// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the palaver TUI.

Components are plain structs with a View method; they hold no Bubble Tea
state of their own and are rebuilt from the app model on every render.

# Core Components

  - Header (header.go) - Title bar with presence and the notification badge.
  - ChatList (chatlist.go) - Chats with last-message preview and unread count.
  - MessageBubble (bubble.go) - One message with mentions highlighted.
  - SuggestionPopup (popup.go) - Mention suggestions under the composer.
  - StoryStrip (stories.go) - "My Story"/"Add Story" plus other authors.
  - NotificationList (notifications.go) - Mentions and messages, newest first.
  - Help (help.go) - Keyboard reference rendered with glamour.

# Rendering Mentions

RenderFragment draws a mention.Fragment: mention segments get the theme's
mention style, text segments are sanitized of escape sequences.

	theme := styles.NewTheme("auto")
	out := components.RenderMentions(theme, msg.Content, msg.Mentions)
*/
package components
