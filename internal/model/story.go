// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// StoryTTL is how long a story stays visible.
const StoryTTL = 24 * time.Hour

// StoryKind is the content type of a story.
type StoryKind string

const (
	StoryText  StoryKind = "text"
	StoryImage StoryKind = "image"
	StoryVideo StoryKind = "video"
)

// StoryBackgrounds are the background colours offered for text stories.
var StoryBackgrounds = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7",
	"#DDA0DD", "#98D8C8", "#F7DC6F", "#BB8FCE", "#85C1E9",
}

// =============================================================================
// STORY TYPE
// =============================================================================

// Story is an ephemeral post shown to every user until it expires.
type Story struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Kind       StoryKind `json:"kind"`
	Content    string    `json:"content"`
	MediaURL   string    `json:"media_url,omitempty"`
	Background string    `json:"background,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	Viewers    []string  `json:"viewers"`
	Mentions   []string  `json:"mentions,omitempty"`
}

// NewTextStory creates a text story that expires after ttl.
func NewTextStory(userID, content, background string, mentions []string, ttl time.Duration) Story {
	now := time.Now()
	if ttl <= 0 {
		ttl = StoryTTL
	}
	return Story{
		ID:         uuid.NewString(),
		UserID:     userID,
		Kind:       StoryText,
		Content:    content,
		Background: background,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
		Viewers:    []string{},
		Mentions:   append([]string(nil), mentions...),
	}
}

// Expired reports whether the story is past its expiry at now.
func (s Story) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// ViewedBy reports whether userID has seen the story.
func (s Story) ViewedBy(userID string) bool {
	for _, v := range s.Viewers {
		if v == userID {
			return true
		}
	}
	return false
}

// WithViewer returns a copy of s with userID recorded as a viewer once.
func (s Story) WithViewer(userID string) Story {
	if s.ViewedBy(userID) {
		return s
	}
	s.Viewers = append(append([]string(nil), s.Viewers...), userID)
	return s
}

// ViewLabel returns "1 view" or "N views".
func (s Story) ViewLabel() string {
	if len(s.Viewers) == 1 {
		return "1 view"
	}
	return strconv.Itoa(len(s.Viewers)) + " views"
}

// HoursAgo returns whole hours since the story was posted.
func (s Story) HoursAgo(now time.Time) int {
	h := int(now.Sub(s.CreatedAt) / time.Hour)
	if h < 0 {
		return 0
	}
	return h
}

// =============================================================================
// STORY GROUPS
// =============================================================================

// StoryGroup is every active story by one author, oldest first.
type StoryGroup struct {
	UserID  string
	Stories []Story
	// Latest is when the newest story was posted.
	Latest time.Time
	// Views sums the viewers of all stories in the group.
	Views int
	// Unviewed is true when self has not seen at least one story.
	Unviewed bool
}

// GroupStories groups stories by author. Self's group comes first, the rest
// are ordered newest first.
func GroupStories(stories []Story, self string) []StoryGroup {
	index := make(map[string]int)
	var groups []StoryGroup
	for _, s := range stories {
		i, ok := index[s.UserID]
		if !ok {
			i = len(groups)
			index[s.UserID] = i
			groups = append(groups, StoryGroup{UserID: s.UserID})
		}
		g := &groups[i]
		g.Stories = append(g.Stories, s)
		g.Views += len(s.Viewers)
		if s.CreatedAt.After(g.Latest) {
			g.Latest = s.CreatedAt
		}
		if s.UserID != self && !s.ViewedBy(self) {
			g.Unviewed = true
		}
	}

	for i := range groups {
		sort.SliceStable(groups[i].Stories, func(a, b int) bool {
			return groups[i].Stories[a].CreatedAt.Before(groups[i].Stories[b].CreatedAt)
		})
	}
	sort.SliceStable(groups, func(a, b int) bool {
		if (groups[a].UserID == self) != (groups[b].UserID == self) {
			return groups[a].UserID == self
		}
		return groups[a].Latest.After(groups[b].Latest)
	})
	return groups
}
