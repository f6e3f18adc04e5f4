// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"strings"

	"golang.org/x/text/cases"
)

// Suggest returns the directory entries whose username contains query,
// ignoring case, in directory order. The entry whose ID equals exclude is
// never returned. The result is not truncated; see Top.
func Suggest(query string, directory []Entry, exclude string) []Entry {
	fold := cases.Fold()
	needle := fold.String(query)

	out := make([]Entry, 0, len(directory))
	for _, e := range directory {
		if e.ID == exclude {
			continue
		}
		if strings.Contains(fold.String(e.Username), needle) {
			out = append(out, e)
		}
	}
	return out
}

// Top returns at most the first n entries.
func Top(entries []Entry, n int) []Entry {
	if n < 0 {
		n = 0
	}
	if len(entries) <= n {
		return entries
	}
	return entries[:n]
}
