// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fixtures

import (
	"time"

	"github.com/jeranaias/palaver-tui/internal/model"
)

// DefaultUserID is the user every login resolves to.
const DefaultUserID = "1"

// Data is a complete seed for the store.
type Data struct {
	Users    model.Directory
	Chats    []model.Chat
	Messages []model.Message
	Stories  []model.Story
}

// Demo returns the demo data set with timestamps relative to now.
func Demo(now time.Time) Data {
	ago := func(d time.Duration) time.Time { return now.Add(-d) }

	users := model.Directory{
		{
			ID:          "1",
			Username:    "john_doe",
			DisplayName: "John Doe",
			Email:       "john@example.com",
			Phone:       "+1234567890",
			Bio:         "Software Developer",
			Online:      true,
		},
		{
			ID:          "2",
			Username:    "jane_smith",
			DisplayName: "Jane Smith",
			Email:       "jane@example.com",
			Phone:       "+1234567891",
			Bio:         "Designer",
			LastSeen:    ago(30 * time.Minute),
		},
		{
			ID:          "3",
			Username:    "mike_wilson",
			DisplayName: "Mike Wilson",
			Email:       "mike@example.com",
			Phone:       "+1234567892",
			Bio:         "Product Manager",
			Online:      true,
		},
	}

	chats := []model.Chat{
		{ID: "1", Kind: model.ChatDirect, Participants: []string{"1", "2"}, UnreadCount: 2},
		{ID: "2", Kind: model.ChatGroup, Name: "Team Chat", Participants: []string{"1", "2", "3"}},
	}

	messages := []model.Message{
		{
			ID:        "1",
			ChatID:    "1",
			SenderID:  "2",
			Content:   "Hey! How are you doing?",
			Kind:      model.MessageText,
			Status:    model.StatusDelivered,
			Timestamp: ago(5 * time.Minute),
		},
		{
			ID:        "2",
			ChatID:    "1",
			SenderID:  "1",
			Content:   "I'm doing great! Thanks for asking 😊",
			Kind:      model.MessageText,
			Status:    model.StatusRead,
			Timestamp: ago(3 * time.Minute),
		},
		{
			ID:        "3",
			ChatID:    "2",
			SenderID:  "3",
			Content:   "Great work on the project @john_doe!",
			Kind:      model.MessageText,
			Status:    model.StatusRead,
			Timestamp: ago(time.Hour),
			Mentions:  []string{"john_doe"},
		},
	}

	stories := []model.Story{
		{
			ID:         "1",
			UserID:     "2",
			Kind:       model.StoryText,
			Content:    "Having a great day! @john_doe check this out",
			Background: model.StoryBackgrounds[0],
			CreatedAt:  ago(2 * time.Hour),
			ExpiresAt:  now.Add(22 * time.Hour),
			Viewers:    []string{"3"},
			Mentions:   []string{"john_doe"},
		},
		{
			ID:        "2",
			UserID:    "3",
			Kind:      model.StoryImage,
			Content:   "Beautiful sunset today!",
			MediaURL:  "sunset.jpg",
			CreatedAt: ago(time.Hour),
			ExpiresAt: now.Add(23 * time.Hour),
			Viewers:   []string{"1", "2"},
		},
	}

	return Data{Users: users, Chats: chats, Messages: messages, Stories: stories}
}
