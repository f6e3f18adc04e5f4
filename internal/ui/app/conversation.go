// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/palaver-tui/internal/compose"
	"github.com/jeranaias/palaver-tui/internal/config"
	"github.com/jeranaias/palaver-tui/internal/logging"
	"github.com/jeranaias/palaver-tui/internal/model"
	"github.com/jeranaias/palaver-tui/internal/ui/components"
	"github.com/jeranaias/palaver-tui/internal/ui/styles"
)

// =============================================================================
// CONVERSATION STATE
// =============================================================================

// conversationState is the open chat: its messages, the scrollback and the
// composer. The composer's mention tracking lives in compose.State; the
// textinput only edits text and reports the caret.
type conversationState struct {
	chat     model.Chat
	messages []model.Message
	input    textinput.Model
	viewport viewport.Model
	compose  compose.State
	width    int

	// spinning is set while a spinner tick is scheduled; frame is the
	// spinner frame drawn on own messages that are still only sent.
	spinning bool
	frame    int
}

func newConversationState() conversationState {
	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = "Message… (@ to mention)"
	in.CharLimit = 2000
	return conversationState{
		input:    in,
		viewport: viewport.New(80, 18),
		compose:  compose.New(),
		width:    80,
	}
}

func (c *conversationState) resize(width, height int) {
	c.width = width
	c.viewport.Width = width
	c.viewport.Height = height
	c.input.Width = width - 4
}

// refresh re-renders the scrollback and keeps it pinned to the bottom.
func (c *conversationState) refresh(theme *styles.Theme, self string, dir model.Directory, cfg *config.Config) {
	if len(c.messages) == 0 {
		c.viewport.SetContent(theme.Help.Render("No messages yet. Say hello!"))
		return
	}
	group := c.chat.Kind == model.ChatGroup
	views := make([]string, 0, len(c.messages))
	for _, msg := range c.messages {
		b := components.NewMessageBubble(msg, theme)
		b.Own = msg.SenderID == self
		b.ShowSender = group
		b.Sender = dir.Name(msg.SenderID)
		b.ShowTimestamp = cfg.Chat.ShowTimestamps
		b.Width = c.width
		b.Animate = c.spinning
		b.Frame = c.frame
		views = append(views, b.View())
	}
	sep := "\n\n"
	if cfg.UI.CompactMode {
		sep = "\n"
	}
	c.viewport.SetContent(strings.Join(views, sep))
	c.viewport.GotoBottom()
}

// =============================================================================
// CONVERSATION SCREEN
// =============================================================================

func (m Model) openConversation(c model.Chat) (tea.Model, tea.Cmd) {
	m.screen = ScreenConversation
	m.conversation.chat = c
	m.conversation.messages = nil
	m.conversation.compose = compose.New()
	m.conversation.input.SetValue("")
	m.conversation.resize(m.width, m.conversationHeight())
	m.conversation.refresh(m.theme, m.self.ID, m.directory, m.cfg)
	m.popup.SetEntries(nil, 0)
	m.header.SetTitle(m.chatTitle(c))
	focus := m.conversation.input.Focus()
	logging.Debug("open chat", "chat", c.ID)
	return m, tea.Batch(focus, m.openChat(c.ID))
}

func (m Model) closeConversation() (tea.Model, tea.Cmd) {
	m.conversation.input.Blur()
	m.popup.SetEntries(nil, 0)
	m.screen = ScreenChats
	m.header.SetTitle("palaver", "Chats")
	return m, m.loadData()
}

func (m Model) handleMessagesLoaded(msg messagesLoadedMsg) (tea.Model, tea.Cmd) {
	if m.screen != ScreenConversation || m.conversation.chat.ID != msg.ChatID {
		return m, nil
	}
	m.conversation.messages = msg.Messages
	m.conversation.refresh(m.theme, m.self.ID, m.directory, m.cfg)
	return m, nil
}

func (m Model) handleMessageSent(msg messageSentMsg) (tea.Model, tea.Cmd) {
	logging.Info("message sent",
		"chat", msg.Message.ChatID,
		"mentions", len(msg.Message.Mentions),
		"notified", len(msg.Notes))
	cmds := []tea.Cmd{m.deliverAfter(msg.Message), m.loadData()}
	if m.screen == ScreenConversation && m.conversation.chat.ID == msg.Message.ChatID {
		cmds = append(cmds, m.loadMessages(msg.Message.ChatID))
	}
	if m.cfg.Chat.DeliveryDelayMs > 0 && !m.conversation.spinning {
		m.conversation.spinning = true
		cmds = append(cmds, spinnerTick())
	}
	return m, tea.Batch(cmds...)
}

// handleSpinnerTick animates undelivered messages until none are left or the
// conversation is closed.
func (m Model) handleSpinnerTick() (tea.Model, tea.Cmd) {
	conv := &m.conversation
	if m.screen != ScreenConversation || !conv.hasPending(m.self.ID) {
		conv.spinning = false
		conv.frame = 0
		conv.refresh(m.theme, m.self.ID, m.directory, m.cfg)
		return m, nil
	}
	conv.frame++
	conv.refresh(m.theme, m.self.ID, m.directory, m.cfg)
	return m, spinnerTick()
}

// hasPending reports whether self has a message that is not yet delivered.
func (c *conversationState) hasPending(self string) bool {
	for _, msg := range c.messages {
		if msg.SenderID == self && msg.Status == model.StatusSent {
			return true
		}
	}
	return false
}

func (m Model) handleConversationKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	conv := &m.conversation
	suggestions := m.popup.Entries()

	if len(suggestions) > 0 {
		switch msg.String() {
		case "up", "ctrl+p":
			conv.compose = conv.compose.Move(-1, len(suggestions))
			m.popup.SetEntries(suggestions, conv.compose.Selected)
			return m, nil
		case "down", "ctrl+n":
			conv.compose = conv.compose.Move(1, len(suggestions))
			m.popup.SetEntries(suggestions, conv.compose.Selected)
			return m, nil
		case "tab", "enter":
			if e, ok := m.popup.Selected(); ok {
				return m.chooseMention(e.Username)
			}
		case "esc":
			conv.compose = conv.compose.Dismiss()
			m.popup.SetEntries(nil, 0)
			return m, nil
		}
	}

	switch msg.String() {
	case "esc":
		return m.closeConversation()
	case "enter":
		return m.submitMessage()
	case "pgup":
		conv.viewport.HalfViewUp()
		return m, nil
	case "pgdown":
		conv.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	conv.input, cmd = conv.input.Update(msg)
	m.syncCompose()
	return m, cmd
}

// syncCompose feeds the input's text and caret into the composer state and
// refreshes the suggestion popup.
func (m *Model) syncCompose() {
	m.conversation.compose = m.suggest(m.conversation.compose, m.conversation.input)
}

// suggest applies an edit of in to state and shows the matching users in the
// popup. The popup is left alone when neither text nor caret moved.
func (m *Model) suggest(state compose.State, in textinput.Model) compose.State {
	text, caret := in.Value(), in.Position()
	if text == state.Text && caret == state.Caret {
		return state
	}
	state = state.Edit(text, caret)
	m.popup.SetEntries(
		state.Suggestions(m.directory.Entries(), m.self.ID, m.cfg.Chat.SuggestionLimit),
		state.Selected,
	)
	return state
}

func (m Model) chooseMention(username string) (tea.Model, tea.Cmd) {
	conv := &m.conversation
	conv.compose = conv.compose.Choose(username)
	conv.input.SetValue(conv.compose.Text)
	conv.input.SetCursor(conv.compose.Caret)
	m.popup.SetEntries(nil, 0)
	return m, nil
}

func (m Model) submitMessage() (tea.Model, tea.Cmd) {
	conv := &m.conversation
	draft, next, ok := conv.compose.Edit(conv.input.Value(), conv.input.Position()).Submit()
	if !ok {
		return m, nil
	}
	conv.compose = next
	conv.input.SetValue("")
	m.popup.SetEntries(nil, 0)

	msg := model.NewTextMessage(conv.chat.ID, m.self.ID, draft.Content, draft.Mentions)
	msg.Timestamp = m.now()
	conv.messages = append(append([]model.Message(nil), conv.messages...), msg)
	conv.refresh(m.theme, m.self.ID, m.directory, m.cfg)
	return m, m.sendMessage(msg)
}

func (m Model) viewConversation() string {
	conv := m.conversation
	vp := conv.viewport
	popup := ""
	if m.popup.Visible() {
		popup = m.popup.View()
		vp.Height -= m.popup.Lines()
		if vp.Height < 1 {
			vp.Height = 1
		}
		vp.GotoBottom()
	}

	parts := []string{m.header.View(), vp.View()}
	if popup != "" {
		parts = append(parts, popup)
	}
	parts = append(parts, m.theme.InputContainer.Width(max(m.width-2, 10)).Render(conv.input.View()))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
