// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jeranaias/palaver-tui/internal/fixtures"
	"github.com/jeranaias/palaver-tui/internal/model"
	jsoniter "github.com/json-iterator/go"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidStatus = errors.New("invalid message status")
	ErrInvalidStory  = errors.New("invalid story")
)

// =============================================================================
// STORE
// =============================================================================

// Store is an in-memory SQLite database.
type Store struct {
	db *sql.DB
}

// querier is implemented by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Open creates an empty in-memory database with the schema applied.
func Open(ctx context.Context) (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory database belongs to its connection, so keep exactly one
	// open for the life of the store.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	pragmas := []string{
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to record schema version: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database. All data is lost.
func (s *Store) Close() error {
	return s.db.Close()
}

// withTx runs fn in a transaction, committing when fn returns nil.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// =============================================================================
// SEEDING
// =============================================================================

// Seed loads a fixture data set. Mentions already present in the data raise
// notifications just as new messages and stories do.
func (s *Store) Seed(ctx context.Context, data fixtures.Data) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, u := range data.Users {
			if err := insertUser(ctx, tx, u); err != nil {
				return err
			}
		}
		for _, c := range data.Chats {
			if err := insertChat(ctx, tx, c); err != nil {
				return err
			}
		}

		chats := make(map[string]model.Chat, len(data.Chats))
		for _, c := range data.Chats {
			chats[c.ID] = c
		}
		for _, m := range data.Messages {
			if err := insertMessage(ctx, tx, m); err != nil {
				return err
			}
			notes := messageNotifications(data.Users, chats[m.ChatID], m)
			if err := insertNotifications(ctx, tx, notes); err != nil {
				return err
			}
		}

		for _, st := range data.Stories {
			if err := insertStory(ctx, tx, st); err != nil {
				return err
			}
			notes := storyNotifications(data.Users, st)
			if err := insertNotifications(ctx, tx, notes); err != nil {
				return err
			}
		}
		return nil
	})
}

// =============================================================================
// USERS
// =============================================================================

// Users returns the directory in insertion order.
func (s *Store) Users(ctx context.Context) (model.Directory, error) {
	return loadUsers(ctx, s.db)
}

func insertUser(ctx context.Context, q querier, u model.User) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO users (id, username, display_name, phone, email, bio, online, last_seen)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.DisplayName, u.Phone, u.Email, u.Bio, boolInt(u.Online), unixNano(u.LastSeen))
	if err != nil {
		return fmt.Errorf("failed to insert user %s: %w", u.Username, err)
	}
	return nil
}

func loadUsers(ctx context.Context, q querier) (model.Directory, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, username, display_name, phone, email, bio, online, last_seen
		 FROM users ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var dir model.Directory
	for rows.Next() {
		var (
			u        model.User
			online   int
			lastSeen int64
		)
		if err := rows.Scan(&u.ID, &u.Username, &u.DisplayName, &u.Phone, &u.Email, &u.Bio, &online, &lastSeen); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		u.Online = online != 0
		u.LastSeen = fromUnixNano(lastSeen)
		dir = append(dir, u)
	}
	return dir, rows.Err()
}

// =============================================================================
// CHATS
// =============================================================================

// Chats returns the chats userID takes part in, most recently active first,
// each with its participants and last message.
func (s *Store) Chats(ctx context.Context, userID string) ([]model.Chat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.kind, c.name, c.unread_count
		 FROM chats c
		 JOIN chat_participants p ON p.chat_id = c.id AND p.user_id = ?
		 ORDER BY COALESCE((SELECT MAX(ts) FROM messages m WHERE m.chat_id = c.id), 0) DESC, c.rowid`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}

	var chats []model.Chat
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		chats = append(chats, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The single connection is free again; fill in the details.
	for i := range chats {
		if err := fillChat(ctx, s.db, &chats[i]); err != nil {
			return nil, err
		}
	}
	return chats, nil
}

// Chat returns one chat by id.
func (s *Store) Chat(ctx context.Context, id string) (model.Chat, error) {
	return loadChat(ctx, s.db, id)
}

// MarkChatRead clears the chat's unread counter.
func (s *Store) MarkChatRead(ctx context.Context, chatID string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE chats SET unread_count = 0 WHERE id = ?`, chatID)
	if err != nil {
		return fmt.Errorf("failed to mark chat read: %w", err)
	}
	return requireRow(res, "chat", chatID)
}

func insertChat(ctx context.Context, q querier, c model.Chat) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO chats (id, kind, name, unread_count) VALUES (?, ?, ?, ?)`,
		c.ID, string(c.Kind), c.Name, c.UnreadCount)
	if err != nil {
		return fmt.Errorf("failed to insert chat %s: %w", c.ID, err)
	}
	for i, uid := range c.Participants {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO chat_participants (chat_id, user_id, position) VALUES (?, ?, ?)`,
			c.ID, uid, i); err != nil {
			return fmt.Errorf("failed to add participant %s to chat %s: %w", uid, c.ID, err)
		}
	}
	return nil
}

func scanChat(sc scanner) (model.Chat, error) {
	var (
		c    model.Chat
		kind string
	)
	if err := sc.Scan(&c.ID, &kind, &c.Name, &c.UnreadCount); err != nil {
		return c, err
	}
	c.Kind = model.ChatKind(kind)
	return c, nil
}

func loadChat(ctx context.Context, q querier, id string) (model.Chat, error) {
	row := q.QueryRowContext(ctx, `SELECT id, kind, name, unread_count FROM chats WHERE id = ?`, id)
	c, err := scanChat(row)
	if errors.Is(err, sql.ErrNoRows) {
		return c, fmt.Errorf("chat %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return c, fmt.Errorf("failed to load chat %s: %w", id, err)
	}
	if err := fillChat(ctx, q, &c); err != nil {
		return c, err
	}
	return c, nil
}

// fillChat loads participants and the last message. It must not be called
// while another result set is open.
func fillChat(ctx context.Context, q querier, c *model.Chat) error {
	rows, err := q.QueryContext(ctx,
		`SELECT user_id FROM chat_participants WHERE chat_id = ? ORDER BY position`, c.ID)
	if err != nil {
		return fmt.Errorf("failed to query participants: %w", err)
	}
	c.Participants = c.Participants[:0]
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			rows.Close()
			return err
		}
		c.Participants = append(c.Participants, uid)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	row := q.QueryRowContext(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE chat_id = ? ORDER BY ts DESC, rowid DESC LIMIT 1`, c.ID)
	last, err := scanMessage(row)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		c.LastMessage = nil
	case err != nil:
		return fmt.Errorf("failed to load last message: %w", err)
	default:
		c.LastMessage = &last
	}
	return nil
}

// =============================================================================
// MESSAGES
// =============================================================================

const messageColumns = `id, chat_id, sender_id, content, kind, status, ts, mentions, reply_to, media_url, file_name`

// Messages returns a chat's messages, oldest first.
func (s *Store) Messages(ctx context.Context, chatID string) ([]model.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE chat_id = ? ORDER BY ts, rowid`, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// AppendMessage stores msg and raises a mention notification for every
// other chat participant it names. The new notifications are returned.
func (s *Store) AppendMessage(ctx context.Context, msg model.Message) ([]model.Notification, error) {
	if msg.Status == "" {
		msg.Status = model.StatusSent
	}
	if !msg.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, msg.Status)
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	var notes []model.Notification
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		chat, err := loadChat(ctx, tx, msg.ChatID)
		if err != nil {
			return err
		}
		if err := insertMessage(ctx, tx, msg); err != nil {
			return err
		}
		dir, err := loadUsers(ctx, tx)
		if err != nil {
			return err
		}
		notes = messageNotifications(dir, chat, msg)
		return insertNotifications(ctx, tx, notes)
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// SetMessageStatus moves a message forward to status. Moving backwards, for
// example from read to delivered, is ignored.
func (s *Store) SetMessageStatus(ctx context.Context, id string, status model.MessageStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var current string
		err := tx.QueryRowContext(ctx, `SELECT status FROM messages WHERE id = ?`, id).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("message %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to load message status: %w", err)
		}
		if model.MessageStatus(current).Rank() >= status.Rank() {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `UPDATE messages SET status = ? WHERE id = ?`, string(status), id); err != nil {
			return fmt.Errorf("failed to update message status: %w", err)
		}
		return nil
	})
}

func insertMessage(ctx context.Context, q querier, m model.Message) error {
	mentions, err := encodeList(m.Mentions)
	if err != nil {
		return err
	}
	kind := m.Kind
	if kind == "" {
		kind = model.MessageText
	}
	_, err = q.ExecContext(ctx,
		`INSERT INTO messages (`+messageColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ChatID, m.SenderID, m.Content, string(kind), string(m.Status),
		unixNano(m.Timestamp), mentions, m.ReplyTo, m.MediaURL, m.FileName)
	if err != nil {
		return fmt.Errorf("failed to insert message %s: %w", m.ID, err)
	}
	return nil
}

func scanMessage(sc scanner) (model.Message, error) {
	var (
		m        model.Message
		kind     string
		status   string
		ts       int64
		mentions string
	)
	err := sc.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Content, &kind, &status,
		&ts, &mentions, &m.ReplyTo, &m.MediaURL, &m.FileName)
	if err != nil {
		return m, err
	}
	m.Kind = model.MessageKind(kind)
	m.Status = model.MessageStatus(status)
	m.Timestamp = fromUnixNano(ts)
	m.Mentions, err = decodeList(mentions)
	return m, err
}

// =============================================================================
// HELPERS
// =============================================================================

func encodeList(list []string) (string, error) {
	if len(list) == 0 {
		return "[]", nil
	}
	s, err := json.MarshalToString(list)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return s, nil
}

func decodeList(s string) ([]string, error) {
	if s == "" || s == "[]" {
		return nil, nil
	}
	var list []string
	if err := json.UnmarshalFromString(s, &list); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}
	return list, nil
}

func requireRow(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}
