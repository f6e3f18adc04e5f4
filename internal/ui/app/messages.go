// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"time"

	"github.com/jeranaias/palaver-tui/internal/config"
	"github.com/jeranaias/palaver-tui/internal/model"
	"github.com/jeranaias/palaver-tui/internal/playback"
)

// =============================================================================
// STORE MESSAGES
// =============================================================================

// dataLoadedMsg carries a fresh read of everything the chat list shows.
type dataLoadedMsg struct {
	Directory model.Directory
	Chats     []model.Chat
	Stories   []model.Story
	Unread    int
}

// messagesLoadedMsg carries one chat's messages.
type messagesLoadedMsg struct {
	ChatID   string
	Messages []model.Message
}

// messageSentMsg reports a stored message and the notifications it raised.
type messageSentMsg struct {
	Message model.Message
	Notes   []model.Notification
}

// deliveredMsg fires after the simulated delivery delay.
type deliveredMsg struct {
	MessageID string
	ChatID    string
}

// spinnerTickMsg advances the spinner shown on undelivered messages.
type spinnerTickMsg struct{}

// storyViewedMsg carries the story after recording a view.
type storyViewedMsg struct {
	Story model.Story
}

// storySharedMsg reports a newly posted story.
type storySharedMsg struct {
	Story model.Story
	Notes []model.Notification
}

// notificationsLoadedMsg carries the notification list.
type notificationsLoadedMsg struct {
	Items []model.Notification
}

// purgeTickMsg asks for expired stories to be removed.
type purgeTickMsg time.Time

// errMsg surfaces a failed store operation in the status bar.
type errMsg struct {
	Op  string
	Err error
}

func (e errMsg) Error() string { return e.Op + ": " + e.Err.Error() }

// =============================================================================
// PLAYBACK MESSAGES
// =============================================================================

// storyTickMsg is one tick from the story viewer's playback handle.
type storyTickMsg playback.Tick

// storyStoppedMsg reports that a playback handle's channel closed.
type storyStoppedMsg struct {
	HandleID uint64
}

// =============================================================================
// EXTERNAL MESSAGES
// =============================================================================

// ConfigReloadedMsg is sent by the config watcher when the file changes.
type ConfigReloadedMsg struct {
	Config *config.Config
}
