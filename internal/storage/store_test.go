// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jeranaias/palaver-tui/internal/fixtures"
	"github.com/jeranaias/palaver-tui/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeededStore(t *testing.T) (*Store, time.Time) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	s, err := Open(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Seed(ctx, fixtures.Demo(now)))
	return s, now
}

// =============================================================================
// SEED AND USERS
// =============================================================================

func TestSeed_Users(t *testing.T) {
	s, _ := newSeededStore(t)

	dir, err := s.Users(context.Background())
	require.NoError(t, err)
	require.Len(t, dir, 3)
	assert.Equal(t, []string{"john_doe", "jane_smith", "mike_wilson"},
		[]string{dir[0].Username, dir[1].Username, dir[2].Username})
	assert.True(t, dir[0].Online)
	assert.False(t, dir[1].LastSeen.IsZero())
}

func TestOpen_RecordsSchemaVersion(t *testing.T) {
	s, _ := newSeededStore(t)
	var version int
	require.NoError(t, s.db.QueryRowContext(context.Background(), "PRAGMA user_version").Scan(&version))
	assert.Equal(t, SchemaVersion, version)
}

func TestSeed_UsernameUniqueIgnoringCase(t *testing.T) {
	s, _ := newSeededStore(t)
	err := s.Seed(context.Background(), fixtures.Data{
		Users: model.Directory{{ID: "9", Username: "JOHN_DOE", DisplayName: "Dup"}},
	})
	assert.Error(t, err)

	dir, err := s.Users(context.Background())
	require.NoError(t, err)
	assert.Len(t, dir, 3)
}

func TestSeed_RaisesMentionNotifications(t *testing.T) {
	s, _ := newSeededStore(t)
	ctx := context.Background()

	notes, err := s.Notifications(ctx, "1")
	require.NoError(t, err)
	require.Len(t, notes, 2)

	kinds := map[model.NotificationKind]bool{}
	for _, n := range notes {
		kinds[n.Kind] = true
	}
	assert.True(t, kinds[model.NotifyMention])
	assert.True(t, kinds[model.NotifyStoryMention])

	count, err := s.UnreadNotifications(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, s.MarkNotificationsRead(ctx, "1"))
	count, err = s.UnreadNotifications(ctx, "1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

// =============================================================================
// CHATS AND MESSAGES
// =============================================================================

func TestChats_OrderAndLastMessage(t *testing.T) {
	s, _ := newSeededStore(t)

	chats, err := s.Chats(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, chats, 2)

	// Chat 1 had activity 3 minutes ago, chat 2 an hour ago.
	assert.Equal(t, "1", chats[0].ID)
	assert.Equal(t, []string{"1", "2"}, chats[0].Participants)
	require.NotNil(t, chats[0].LastMessage)
	assert.Equal(t, "2", chats[0].LastMessage.ID)
	assert.Equal(t, 2, chats[0].UnreadCount)

	assert.Equal(t, "Team Chat", chats[1].Name)
	assert.Equal(t, []string{"john_doe"}, chats[1].LastMessage.Mentions)
}

func TestChats_OnlyParticipants(t *testing.T) {
	s, _ := newSeededStore(t)
	chats, err := s.Chats(context.Background(), "3")
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, "2", chats[0].ID)
}

func TestChat_NotFound(t *testing.T) {
	s, _ := newSeededStore(t)
	_, err := s.Chat(context.Background(), "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.ErrorIs(t, s.MarkChatRead(context.Background(), "nope"), ErrNotFound)
}

func TestMessages_ScopedToChat(t *testing.T) {
	s, _ := newSeededStore(t)
	ctx := context.Background()

	msgs, err := s.Messages(ctx, "1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "1", msgs[0].ID)
	assert.Equal(t, "2", msgs[1].ID)

	msgs, err = s.Messages(ctx, "2")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
}

func TestAppendMessage(t *testing.T) {
	s, _ := newSeededStore(t)
	ctx := context.Background()

	msg := model.NewTextMessage("2", "1", "ping @jane_smith and @mike_wilson @ghost @john_doe",
		[]string{"jane_smith", "mike_wilson", "ghost", "john_doe"})
	notes, err := s.AppendMessage(ctx, msg)
	require.NoError(t, err)

	// The author is never notified and unknown names are skipped.
	require.Len(t, notes, 2)
	assert.Equal(t, "2", notes[0].UserID)
	assert.Equal(t, "3", notes[1].UserID)
	assert.Equal(t, msg.ID, notes[0].RefID)

	chat, err := s.Chat(ctx, "2")
	require.NoError(t, err)
	require.NotNil(t, chat.LastMessage)
	assert.Equal(t, msg.ID, chat.LastMessage.ID)
	assert.Equal(t, msg.Mentions, chat.LastMessage.Mentions)
	assert.Equal(t, model.StatusSent, chat.LastMessage.Status)
}

func TestAppendMessage_OnlyNotifiesParticipants(t *testing.T) {
	s, _ := newSeededStore(t)

	msg := model.NewTextMessage("1", "1", "@mike_wilson you around?", []string{"mike_wilson"})
	notes, err := s.AppendMessage(context.Background(), msg)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestAppendMessage_UnknownChat(t *testing.T) {
	s, _ := newSeededStore(t)
	_, err := s.AppendMessage(context.Background(), model.NewTextMessage("missing", "1", "hi", nil))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetMessageStatus(t *testing.T) {
	s, _ := newSeededStore(t)
	ctx := context.Background()

	msg := model.NewTextMessage("1", "1", "hello", nil)
	_, err := s.AppendMessage(ctx, msg)
	require.NoError(t, err)

	require.NoError(t, s.SetMessageStatus(ctx, msg.ID, model.StatusRead))
	// Going backwards is ignored.
	require.NoError(t, s.SetMessageStatus(ctx, msg.ID, model.StatusDelivered))

	chat, err := s.Chat(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusRead, chat.LastMessage.Status)

	assert.ErrorIs(t, s.SetMessageStatus(ctx, "missing", model.StatusRead), ErrNotFound)
	assert.ErrorIs(t, s.SetMessageStatus(ctx, msg.ID, "bogus"), ErrInvalidStatus)
}

func TestMarkChatRead(t *testing.T) {
	s, _ := newSeededStore(t)
	ctx := context.Background()

	require.NoError(t, s.MarkChatRead(ctx, "1"))
	chat, err := s.Chat(ctx, "1")
	require.NoError(t, err)
	assert.Zero(t, chat.UnreadCount)
}

// =============================================================================
// STORIES
// =============================================================================

func TestActiveStories(t *testing.T) {
	s, now := newSeededStore(t)
	ctx := context.Background()

	stories, err := s.ActiveStories(ctx, now)
	require.NoError(t, err)
	require.Len(t, stories, 2)
	assert.Equal(t, "1", stories[0].ID)
	assert.Equal(t, []string{"3"}, stories[0].Viewers)
	assert.Equal(t, []string{"john_doe"}, stories[0].Mentions)
	assert.Equal(t, []string{"1", "2"}, stories[1].Viewers)

	// Story 1 expires 22 hours from now.
	later, err := s.ActiveStories(ctx, now.Add(22*time.Hour+time.Minute))
	require.NoError(t, err)
	require.Len(t, later, 1)
	assert.Equal(t, "2", later[0].ID)
}

func TestAddStory(t *testing.T) {
	s, now := newSeededStore(t)
	ctx := context.Background()

	st := model.NewTextStory("2", "morning @john_doe @jane_smith", model.StoryBackgrounds[3],
		[]string{"john_doe", "jane_smith"}, model.StoryTTL)
	notes, err := s.AddStory(ctx, st)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "1", notes[0].UserID)
	assert.Equal(t, model.NotifyStoryMention, notes[0].Kind)

	stories, err := s.ActiveStories(ctx, now)
	require.NoError(t, err)
	assert.Len(t, stories, 3)
}

func TestAddStory_Validation(t *testing.T) {
	s, _ := newSeededStore(t)
	ctx := context.Background()

	blank := model.NewTextStory("1", "   ", "", nil, 0)
	_, err := s.AddStory(ctx, blank)
	assert.ErrorIs(t, err, ErrInvalidStory)

	image := model.NewTextStory("1", "", "", nil, 0)
	image.Kind = model.StoryImage
	_, err = s.AddStory(ctx, image)
	assert.ErrorIs(t, err, ErrInvalidStory)

	image.MediaURL = "cat.png"
	_, err = s.AddStory(ctx, image)
	assert.NoError(t, err)
}

func TestMarkStoryViewed_Idempotent(t *testing.T) {
	s, _ := newSeededStore(t)
	ctx := context.Background()

	st, err := s.MarkStoryViewed(ctx, "1", "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "1"}, st.Viewers)

	st, err = s.MarkStoryViewed(ctx, "1", "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "1"}, st.Viewers)

	stored, err := s.Story(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "1"}, stored.Viewers)
}

func TestMarkStoryViewed_AuthorNotCounted(t *testing.T) {
	s, _ := newSeededStore(t)
	st, err := s.MarkStoryViewed(context.Background(), "1", "2")
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, st.Viewers)

	_, err = s.MarkStoryViewed(context.Background(), "missing", "1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPurgeExpired(t *testing.T) {
	s, now := newSeededStore(t)
	ctx := context.Background()

	n, err := s.PurgeExpired(ctx, now.Add(22*time.Hour+time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = s.Story(ctx, "1")
	assert.ErrorIs(t, err, ErrNotFound)
}
