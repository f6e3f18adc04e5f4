// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fixtures

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jeranaias/palaver-tui/internal/mention"
	"github.com/jeranaias/palaver-tui/internal/model"
	"golang.org/x/text/unicode/norm"
)

// ExtraUsers generates n directory users that do not collide with existing.
// A zero seed picks a random one. Generated usernames always satisfy the
// mention token grammar.
func ExtraUsers(n int, seed uint64, existing model.Directory) model.Directory {
	if n <= 0 {
		return nil
	}
	f := gofakeit.New(seed)

	taken := make(map[string]bool, len(existing)+n)
	nextID := 1
	for _, u := range existing {
		taken[strings.ToLower(u.Username)] = true
		if id, err := strconv.Atoi(u.ID); err == nil && id >= nextID {
			nextID = id + 1
		}
	}

	out := make(model.Directory, 0, n)
	for len(out) < n {
		username := SanitizeUsername(f.Username())
		if username == "" || taken[strings.ToLower(username)] {
			continue
		}
		taken[strings.ToLower(username)] = true

		u := model.User{
			ID:          strconv.Itoa(nextID),
			Username:    username,
			DisplayName: f.Name(),
			Email:       f.Email(),
			Phone:       f.Phone(),
			Bio:         f.JobTitle(),
			Online:      f.Bool(),
		}
		if !u.Online {
			u.LastSeen = time.Now().Add(-time.Duration(f.IntRange(1, 600)) * time.Minute)
		}
		out = append(out, u)
		nextID++
	}
	return out
}

// SanitizeUsername folds s to ASCII word characters, dropping accents and
// anything else outside [A-Za-z0-9_]. The result may be empty.
func SanitizeUsername(s string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(s) {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining accent left over from decomposition
		case r == ' ' || r == '-' || r == '.':
			b.WriteByte('_')
		case r < unicode.MaxASCII && mention.ValidUsername(string(r)):
			b.WriteRune(unicode.ToLower(r))
		}
	}
	out := strings.Trim(b.String(), "_")
	if !mention.ValidUsername(out) {
		return ""
	}
	return out
}
