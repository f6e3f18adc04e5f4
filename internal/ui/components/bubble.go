// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jeranaias/palaver-tui/internal/model"
	"github.com/jeranaias/palaver-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one message. Own messages sit on the right with a
// delivery glyph; peer messages sit on the left, with the sender's name in
// group chats.
type MessageBubble struct {
	Message       model.Message
	Sender        string // display name, shown when ShowSender is set
	Own           bool
	ShowSender    bool
	ShowTimestamp bool
	Width         int
	// Animate draws spinner frame Frame next to an own message that is
	// sent but not delivered.
	Animate bool
	Frame   int
	theme   *styles.Theme
}

// NewMessageBubble creates a bubble for msg.
func NewMessageBubble(msg model.Message, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Message:       msg,
		ShowTimestamp: true,
		Width:         80,
		theme:         theme,
	}
}

// View renders the bubble aligned within Width.
func (b *MessageBubble) View() string {
	width := b.Width
	if width < 20 {
		width = 20
	}
	maxBubble := width * 3 / 4

	var lines []string
	if b.ShowSender && !b.Own && b.Sender != "" {
		lines = append(lines, b.theme.Sender.Render(Sanitize(b.Sender)))
	}
	lines = append(lines, b.body())
	if meta := b.meta(); meta != "" {
		lines = append(lines, meta)
	}
	content := strings.Join(lines, "\n")

	style := b.theme.PeerBubble
	align := lipgloss.Left
	if b.Own {
		style = b.theme.OwnBubble
		align = lipgloss.Right
	}
	if lipgloss.Width(content)+style.GetHorizontalFrameSize() > maxBubble {
		style = style.Width(maxBubble - style.GetHorizontalMargins())
	}
	return lipgloss.PlaceHorizontal(width, align, style.Render(content))
}

func (b *MessageBubble) body() string {
	msg := b.Message
	if msg.Kind != "" && msg.Kind != model.MessageText {
		label := msg.Kind.Label()
		if msg.FileName != "" {
			label += " " + Sanitize(msg.FileName)
		}
		if msg.Content == "" {
			return label
		}
		return label + " " + RenderMentions(b.theme, msg.Content, msg.Mentions)
	}
	return RenderMentions(b.theme, msg.Content, msg.Mentions)
}

func (b *MessageBubble) meta() string {
	var parts []string
	if b.ShowTimestamp && !b.Message.Timestamp.IsZero() {
		parts = append(parts, b.theme.Timestamp.Render(b.Message.Timestamp.Format("15:04")))
	}
	if b.Own {
		if glyph := b.Message.Status.Glyph(); glyph != "" {
			if b.Message.Status == model.StatusRead {
				parts = append(parts, b.theme.StatusRead.Render(glyph))
			} else {
				parts = append(parts, b.theme.StatusSent.Render(glyph))
			}
		}
		if b.Animate && b.Message.Status == model.StatusSent {
			frames := styles.DotsSpinner.Frames
			parts = append(parts, b.theme.StatusSent.Render(frames[b.Frame%len(frames)]))
		}
	}
	return strings.Join(parts, " ")
}
