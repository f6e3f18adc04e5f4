// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the domain types for users, chats, messages,
// stories and notifications.
//
// # Key Types
//
//   - User: A person in the directory; the mention target
//   - Directory: Ordered list of users with lookup helpers
//   - Chat: A direct or group conversation
//   - Message: One chat message with its delivery status and mentions
//   - Story: An ephemeral 24-hour post with viewers and mentions
//   - Notification: Alert raised for a new message or a mention
//
// # Usage
//
// Build an outgoing message from a composer draft:
//
//	msg := model.NewTextMessage(chat.ID, self.ID, draft.Content, draft.Mentions)
//
// Find which mentions name real users, e.g. to raise notifications:
//
//	for _, name := range dir.Resolve(msg.Mentions) { ... }
package model
