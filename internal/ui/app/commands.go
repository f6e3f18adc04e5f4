// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jeranaias/palaver-tui/internal/logging"
	"github.com/jeranaias/palaver-tui/internal/model"
	"github.com/jeranaias/palaver-tui/internal/playback"
	"github.com/jeranaias/palaver-tui/internal/ui/styles"
)

// =============================================================================
// STORE COMMANDS
// =============================================================================

// loadData reads the directory, the user's chats, active stories and the
// unread notification count.
func (m Model) loadData() tea.Cmd {
	ctx, store, self, now := m.ctx, m.store, m.self.ID, m.now()
	return func() tea.Msg {
		dir, err := store.Users(ctx)
		if err != nil {
			return errMsg{Op: "load users", Err: err}
		}
		var chats []model.Chat
		var unread int
		if self != "" {
			if chats, err = store.Chats(ctx, self); err != nil {
				return errMsg{Op: "load chats", Err: err}
			}
			if unread, err = store.UnreadNotifications(ctx, self); err != nil {
				return errMsg{Op: "load notifications", Err: err}
			}
		}
		stories, err := store.ActiveStories(ctx, now)
		if err != nil {
			return errMsg{Op: "load stories", Err: err}
		}
		return dataLoadedMsg{Directory: dir, Chats: chats, Stories: stories, Unread: unread}
	}
}

func (m Model) loadMessages(chatID string) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		msgs, err := store.Messages(ctx, chatID)
		if err != nil {
			return errMsg{Op: "load messages", Err: err}
		}
		return messagesLoadedMsg{ChatID: chatID, Messages: msgs}
	}
}

// openChat clears the chat's unread count, then loads its messages.
func (m Model) openChat(chatID string) tea.Cmd {
	ctx, store := m.ctx, m.store
	load := m.loadMessages(chatID)
	return func() tea.Msg {
		if err := store.MarkChatRead(ctx, chatID); err != nil {
			return errMsg{Op: "mark chat read", Err: err}
		}
		return load()
	}
}

func (m Model) sendMessage(msg model.Message) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		notes, err := store.AppendMessage(ctx, msg)
		if err != nil {
			return errMsg{Op: "send message", Err: err}
		}
		return messageSentMsg{Message: msg, Notes: notes}
	}
}

// spinnerTick schedules the next frame of the delivery spinner.
func spinnerTick() tea.Cmd {
	return tea.Tick(styles.DotsSpinner.Duration(), func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

// deliverAfter marks a message delivered once the configured delay passes.
func (m Model) deliverAfter(msg model.Message) tea.Cmd {
	delay := time.Duration(m.cfg.Chat.DeliveryDelayMs) * time.Millisecond
	ctx, store := m.ctx, m.store
	return tea.Tick(delay, func(time.Time) tea.Msg {
		if err := store.SetMessageStatus(ctx, msg.ID, model.StatusDelivered); err != nil {
			return errMsg{Op: "deliver message", Err: err}
		}
		return deliveredMsg{MessageID: msg.ID, ChatID: msg.ChatID}
	})
}

func (m Model) markStoryViewed(storyID string) tea.Cmd {
	ctx, store, self := m.ctx, m.store, m.self.ID
	return func() tea.Msg {
		st, err := store.MarkStoryViewed(ctx, storyID, self)
		if err != nil {
			return errMsg{Op: "mark story viewed", Err: err}
		}
		return storyViewedMsg{Story: st}
	}
}

func (m Model) shareStory(st model.Story) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		notes, err := store.AddStory(ctx, st)
		if err != nil {
			return errMsg{Op: "share story", Err: err}
		}
		return storySharedMsg{Story: st, Notes: notes}
	}
}

func (m Model) loadNotifications() tea.Cmd {
	ctx, store, self := m.ctx, m.store, m.self.ID
	return func() tea.Msg {
		items, err := store.Notifications(ctx, self)
		if err != nil {
			return errMsg{Op: "load notifications", Err: err}
		}
		if err := store.MarkNotificationsRead(ctx, self); err != nil {
			return errMsg{Op: "mark notifications read", Err: err}
		}
		return notificationsLoadedMsg{Items: items}
	}
}

// purgeExpired removes expired stories, then reloads the chat list data.
func (m Model) purgeExpired(now time.Time) tea.Cmd {
	ctx, store := m.ctx, m.store
	reload := m.loadData()
	return func() tea.Msg {
		n, err := store.PurgeExpired(ctx, now)
		if err != nil {
			return errMsg{Op: "purge stories", Err: err}
		}
		if n > 0 {
			logging.Info("purged expired stories", "count", n)
		}
		return reload()
	}
}

// schedulePurge ticks once a minute on the wall clock.
func schedulePurge() tea.Cmd {
	return tea.Every(time.Minute, func(t time.Time) tea.Msg {
		return purgeTickMsg(t)
	})
}

// =============================================================================
// PLAYBACK COMMANDS
// =============================================================================

// listen waits for the next tick from h. A closed channel reports
// storyStoppedMsg, which ends the listen chain.
func listen(h *playback.Handle) tea.Cmd {
	if h == nil {
		return nil
	}
	return func() tea.Msg {
		t, ok := <-h.C()
		if !ok {
			return storyStoppedMsg{HandleID: h.ID()}
		}
		return storyTickMsg(t)
	}
}
