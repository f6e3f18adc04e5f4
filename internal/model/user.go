// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/jeranaias/palaver-tui/internal/mention"
)

// =============================================================================
// USER TYPE
// =============================================================================

// User is a directory entry.
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Online      bool      `json:"online"`
	LastSeen    time.Time `json:"last_seen,omitempty"`
}

// Entry returns the mention directory entry for u.
func (u User) Entry() mention.Entry {
	return mention.Entry{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Online:      u.Online,
	}
}

// Initial returns the first letter of the display name, used as an avatar.
func (u User) Initial() string {
	for _, r := range u.DisplayName {
		return strings.ToUpper(string(r))
	}
	for _, r := range u.Username {
		return strings.ToUpper(string(r))
	}
	return "?"
}

// =============================================================================
// DIRECTORY
// =============================================================================

// Directory is the ordered list of known users.
type Directory []User

// ByID returns the user with the given id.
func (d Directory) ByID(id string) (User, bool) {
	for _, u := range d {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// ByUsername returns the user with the given username, ignoring case.
func (d Directory) ByUsername(username string) (User, bool) {
	for _, u := range d {
		if strings.EqualFold(u.Username, username) {
			return u, true
		}
	}
	return User{}, false
}

// Entries returns the directory in mention form, preserving order.
func (d Directory) Entries() []mention.Entry {
	out := make([]mention.Entry, 0, len(d))
	for _, u := range d {
		out = append(out, u.Entry())
	}
	return out
}

// Resolve keeps the mentions that name a directory user exactly.
// Order and duplicates are preserved.
func (d Directory) Resolve(mentions []string) []string {
	known := make(map[string]struct{}, len(d))
	for _, u := range d {
		known[u.Username] = struct{}{}
	}
	out := make([]string, 0, len(mentions))
	for _, m := range mentions {
		if _, ok := known[m]; ok {
			out = append(out, m)
		}
	}
	return out
}

// Name returns the display name for id, or "Unknown".
func (d Directory) Name(id string) string {
	if u, ok := d.ByID(id); ok {
		return u.DisplayName
	}
	return "Unknown"
}
