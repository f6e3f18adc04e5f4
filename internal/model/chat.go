// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// ChatKind distinguishes one-to-one chats from groups.
type ChatKind string

const (
	ChatDirect ChatKind = "direct"
	ChatGroup  ChatKind = "group"
)

// Chat is a conversation between two or more users.
type Chat struct {
	ID           string   `json:"id"`
	Kind         ChatKind `json:"kind"`
	Name         string   `json:"name,omitempty"`
	Participants []string `json:"participants"`
	LastMessage  *Message `json:"last_message,omitempty"`
	UnreadCount  int      `json:"unread_count"`
}

// Title returns the group name, or for a direct chat the display name of
// the participant who is not self.
func (c Chat) Title(self string, dir Directory) string {
	if c.Kind == ChatGroup && c.Name != "" {
		return c.Name
	}
	for _, id := range c.Participants {
		if id != self {
			return dir.Name(id)
		}
	}
	if c.Name != "" {
		return c.Name
	}
	return "Unknown Chat"
}

// Peer returns the other participant of a direct chat.
func (c Chat) Peer(self string, dir Directory) (User, bool) {
	if c.Kind != ChatDirect {
		return User{}, false
	}
	for _, id := range c.Participants {
		if id != self {
			return dir.ByID(id)
		}
	}
	return User{}, false
}

// Includes reports whether userID takes part in the chat.
func (c Chat) Includes(userID string) bool {
	for _, id := range c.Participants {
		if id == userID {
			return true
		}
	}
	return false
}
