// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/jeranaias/palaver-tui/internal/util"
)

// =============================================================================
// MESSAGE KIND
// =============================================================================

// MessageKind is the content type of a message.
type MessageKind string

const (
	MessageText  MessageKind = "text"
	MessageImage MessageKind = "image"
	MessageVideo MessageKind = "video"
	MessageFile  MessageKind = "file"
	MessageVoice MessageKind = "voice"
)

// Label returns a placeholder shown for non-text content.
func (k MessageKind) Label() string {
	switch k {
	case MessageImage:
		return "[image]"
	case MessageVideo:
		return "[video]"
	case MessageFile:
		return "[file]"
	case MessageVoice:
		return "[voice message]"
	default:
		return ""
	}
}

// =============================================================================
// MESSAGE STATUS
// =============================================================================

// MessageStatus is the delivery state of a sent message.
type MessageStatus string

const (
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusRead      MessageStatus = "read"
)

// Glyph returns the tick marks shown next to an outgoing message.
func (s MessageStatus) Glyph() string {
	switch s {
	case StatusDelivered, StatusRead:
		return "✓✓"
	case StatusSent:
		return "✓"
	default:
		return ""
	}
}

// Rank orders statuses from sent to read; unknown statuses rank lowest.
func (s MessageStatus) Rank() int {
	switch s {
	case StatusSent:
		return 1
	case StatusDelivered:
		return 2
	case StatusRead:
		return 3
	default:
		return 0
	}
}

// Valid reports whether s is a known status.
func (s MessageStatus) Valid() bool {
	switch s {
	case StatusSent, StatusDelivered, StatusRead:
		return true
	}
	return false
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is one message in a chat.
type Message struct {
	ID        string        `json:"id"`
	ChatID    string        `json:"chat_id"`
	SenderID  string        `json:"sender_id"`
	Content   string        `json:"content"`
	Kind      MessageKind   `json:"kind"`
	Status    MessageStatus `json:"status"`
	Timestamp time.Time     `json:"timestamp"`

	// Mentions is copied from the composer at submission and never changes.
	Mentions []string `json:"mentions,omitempty"`

	ReplyTo  string `json:"reply_to,omitempty"`
	MediaURL string `json:"media_url,omitempty"`
	FileName string `json:"file_name,omitempty"`
}

// NewTextMessage creates an outgoing text message in the sent state.
func NewTextMessage(chatID, senderID, content string, mentions []string) Message {
	return Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		SenderID:  senderID,
		Content:   content,
		Kind:      MessageText,
		Status:    StatusSent,
		Timestamp: time.Now(),
		Mentions:  append([]string(nil), mentions...),
	}
}

// Preview returns a single-line summary for the chat list.
func (m Message) Preview(maxLen int) string {
	text := m.Content
	if m.Kind != MessageText && m.Kind != "" {
		text = m.Kind.Label()
		if m.FileName != "" {
			text += " " + m.FileName
		}
	}
	return util.TruncateRunes(util.SingleLine(text), maxLen)
}

// WithStatus returns a copy of m with the given status.
func (m Message) WithStatus(s MessageStatus) Message {
	m.Status = s
	return m
}
