// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/palaver-tui/internal/model"
)

const storyColumns = `id, user_id, kind, content, media_url, background, created_at, expires_at, mentions`

// ActiveStories returns the stories that have not expired at now, oldest
// first, with their viewers.
func (s *Store) ActiveStories(ctx context.Context, now time.Time) ([]model.Story, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+storyColumns+` FROM stories WHERE expires_at > ? ORDER BY created_at, rowid`,
		now.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to query stories: %w", err)
	}

	var stories []model.Story
	for rows.Next() {
		st, err := scanStory(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan story: %w", err)
		}
		stories = append(stories, st)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	viewers, err := loadViewers(ctx, s.db)
	if err != nil {
		return nil, err
	}
	for i := range stories {
		stories[i].Viewers = nonNil(viewers[stories[i].ID])
	}
	return stories, nil
}

// Story returns one story by id, expired or not.
func (s *Store) Story(ctx context.Context, id string) (model.Story, error) {
	return loadStory(ctx, s.db, id)
}

// AddStory validates and stores a new story and raises a story_mention
// notification for every directory user it names other than the author.
func (s *Store) AddStory(ctx context.Context, st model.Story) ([]model.Notification, error) {
	if err := validateStory(st); err != nil {
		return nil, err
	}

	var notes []model.Notification
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := insertStory(ctx, tx, st); err != nil {
			return err
		}
		dir, err := loadUsers(ctx, tx)
		if err != nil {
			return err
		}
		notes = storyNotifications(dir, st)
		return insertNotifications(ctx, tx, notes)
	})
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// MarkStoryViewed records userID as a viewer once and returns the updated
// story. Authors viewing their own story are not counted.
func (s *Store) MarkStoryViewed(ctx context.Context, storyID, userID string) (model.Story, error) {
	var st model.Story
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		st, err = loadStory(ctx, tx, storyID)
		if err != nil {
			return err
		}
		if userID == st.UserID || st.ViewedBy(userID) {
			return nil
		}
		_, err = tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO story_viewers (story_id, user_id, seq)
			 VALUES (?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM story_viewers WHERE story_id = ?))`,
			storyID, userID, storyID)
		if err != nil {
			return fmt.Errorf("failed to record viewer: %w", err)
		}
		st = st.WithViewer(userID)
		return nil
	})
	return st, err
}

// PurgeExpired deletes stories that expired at or before now and reports
// how many were removed.
func (s *Store) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM stories WHERE expires_at <= ?`, now.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to purge stories: %w", err)
	}
	return res.RowsAffected()
}

func validateStory(st model.Story) error {
	switch st.Kind {
	case model.StoryText:
		if strings.TrimSpace(st.Content) == "" {
			return fmt.Errorf("%w: text story needs content", ErrInvalidStory)
		}
	case model.StoryImage, model.StoryVideo:
		if st.MediaURL == "" {
			return fmt.Errorf("%w: %s story needs media", ErrInvalidStory, st.Kind)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidStory, st.Kind)
	}
	if st.ID == "" || st.UserID == "" {
		return fmt.Errorf("%w: missing id or author", ErrInvalidStory)
	}
	if !st.ExpiresAt.After(st.CreatedAt) {
		return fmt.Errorf("%w: expires before it was created", ErrInvalidStory)
	}
	return nil
}

func insertStory(ctx context.Context, q querier, st model.Story) error {
	mentions, err := encodeList(st.Mentions)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx,
		`INSERT INTO stories (`+storyColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.ID, st.UserID, string(st.Kind), st.Content, st.MediaURL, st.Background,
		unixNano(st.CreatedAt), unixNano(st.ExpiresAt), mentions)
	if err != nil {
		return fmt.Errorf("failed to insert story %s: %w", st.ID, err)
	}
	for i, uid := range st.Viewers {
		if _, err := q.ExecContext(ctx,
			`INSERT OR IGNORE INTO story_viewers (story_id, user_id, seq) VALUES (?, ?, ?)`,
			st.ID, uid, i+1); err != nil {
			return fmt.Errorf("failed to insert story viewer: %w", err)
		}
	}
	return nil
}

func scanStory(sc scanner) (model.Story, error) {
	var (
		st        model.Story
		kind      string
		createdAt int64
		expiresAt int64
		mentions  string
	)
	err := sc.Scan(&st.ID, &st.UserID, &kind, &st.Content, &st.MediaURL, &st.Background,
		&createdAt, &expiresAt, &mentions)
	if err != nil {
		return st, err
	}
	st.Kind = model.StoryKind(kind)
	st.CreatedAt = fromUnixNano(createdAt)
	st.ExpiresAt = fromUnixNano(expiresAt)
	st.Mentions, err = decodeList(mentions)
	return st, err
}

func loadStory(ctx context.Context, q querier, id string) (model.Story, error) {
	row := q.QueryRowContext(ctx, `SELECT `+storyColumns+` FROM stories WHERE id = ?`, id)
	st, err := scanStory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return st, fmt.Errorf("story %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return st, fmt.Errorf("failed to load story %s: %w", id, err)
	}

	rows, err := q.QueryContext(ctx,
		`SELECT user_id FROM story_viewers WHERE story_id = ? ORDER BY seq`, id)
	if err != nil {
		return st, fmt.Errorf("failed to query viewers: %w", err)
	}
	defer rows.Close()

	st.Viewers = []string{}
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return st, err
		}
		st.Viewers = append(st.Viewers, uid)
	}
	return st, rows.Err()
}

// loadViewers returns every story's viewers in viewing order.
func loadViewers(ctx context.Context, q querier) (map[string][]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT story_id, user_id FROM story_viewers ORDER BY story_id, seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query viewers: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var sid, uid string
		if err := rows.Scan(&sid, &uid); err != nil {
			return nil, err
		}
		out[sid] = append(out[sid], uid)
	}
	return out, rows.Err()
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
