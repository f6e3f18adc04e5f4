// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"fmt"

	"github.com/jeranaias/palaver-tui/internal/model"
	"github.com/jeranaias/palaver-tui/internal/util"
)

// notificationBodyLen caps the preview stored with a notification.
const notificationBodyLen = 80

// Notifications returns userID's notifications, newest first.
func (s *Store) Notifications(ctx context.Context, userID string) ([]model.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, kind, title, body, read, ts, ref_id
		 FROM notifications WHERE user_id = ? ORDER BY ts DESC, rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var out []model.Notification
	for rows.Next() {
		var (
			n    model.Notification
			kind string
			read int
			ts   int64
		)
		if err := rows.Scan(&n.ID, &n.UserID, &kind, &n.Title, &n.Body, &read, &ts, &n.RefID); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.Kind = model.NotificationKind(kind)
		n.Read = read != 0
		n.Timestamp = fromUnixNano(ts)
		out = append(out, n)
	}
	return out, rows.Err()
}

// UnreadNotifications counts userID's unread notifications.
func (s *Store) UnreadNotifications(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND read = 0`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return n, nil
}

// MarkNotificationsRead marks all of userID's notifications read.
func (s *Store) MarkNotificationsRead(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET read = 1 WHERE user_id = ? AND read = 0`, userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func insertNotifications(ctx context.Context, q querier, notes []model.Notification) error {
	for _, n := range notes {
		_, err := q.ExecContext(ctx,
			`INSERT INTO notifications (id, user_id, kind, title, body, read, ts, ref_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			n.ID, n.UserID, string(n.Kind), n.Title, n.Body, boolInt(n.Read), unixNano(n.Timestamp), n.RefID)
		if err != nil {
			return fmt.Errorf("failed to insert notification: %w", err)
		}
	}
	return nil
}

// messageNotifications raises mention notifications for participants of
// chat named in msg, stamped with the message time.
func messageNotifications(dir model.Directory, chat model.Chat, msg model.Message) []model.Notification {
	body := util.TruncateRunes(util.SingleLine(msg.Content), notificationBodyLen)
	all := model.MentionNotifications(dir, msg.SenderID, model.NotifyMention, msg.Mentions, body, msg.ID)

	out := all[:0]
	for _, n := range all {
		if !chat.Includes(n.UserID) {
			continue
		}
		if !msg.Timestamp.IsZero() {
			n.Timestamp = msg.Timestamp
		}
		out = append(out, n)
	}
	return out
}

// storyNotifications raises story_mention notifications for st.
func storyNotifications(dir model.Directory, st model.Story) []model.Notification {
	body := util.TruncateRunes(util.SingleLine(st.Content), notificationBodyLen)
	notes := model.MentionNotifications(dir, st.UserID, model.NotifyStoryMention, st.Mentions, body, st.ID)
	for i := range notes {
		if !st.CreatedAt.IsZero() {
			notes[i].Timestamp = st.CreatedAt
		}
	}
	return notes
}
