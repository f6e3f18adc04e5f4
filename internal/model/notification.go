// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind is what raised a notification.
type NotificationKind string

const (
	NotifyMessage      NotificationKind = "message"
	NotifyMention      NotificationKind = "mention"
	NotifyStoryMention NotificationKind = "story_mention"
)

// Notification is an alert for one user.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	Read      bool             `json:"read"`
	Timestamp time.Time        `json:"timestamp"`
	// RefID is the message or story that raised the notification.
	RefID string `json:"ref_id,omitempty"`
}

// NewNotification creates an unread notification stamped now.
func NewNotification(userID string, kind NotificationKind, title, body, refID string) Notification {
	return Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		Body:      body,
		Timestamp: time.Now(),
		RefID:     refID,
	}
}

// MentionNotifications builds one notification per distinct directory user
// named in mentions, skipping the author.
func MentionNotifications(dir Directory, authorID string, kind NotificationKind, mentions []string, body, refID string) []Notification {
	author := dir.Name(authorID)
	title := author + " mentioned you"
	if kind == NotifyStoryMention {
		title = author + " mentioned you in a story"
	}

	seen := make(map[string]bool)
	var out []Notification
	for _, name := range dir.Resolve(mentions) {
		u, _ := dir.ByUsername(name)
		if u.ID == authorID || seen[u.ID] {
			continue
		}
		seen[u.ID] = true
		out = append(out, NewNotification(u.ID, kind, title, body, refID))
	}
	return out
}
