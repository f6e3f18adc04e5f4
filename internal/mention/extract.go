// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"regexp"
	"unicode/utf8"
)

// =============================================================================
// PATTERNS
// =============================================================================

var (
	// tokenPattern matches a complete mention anywhere in the text.
	tokenPattern = regexp.MustCompile(`@(\w+)`)

	// queryPattern matches a possibly empty mention at the end of a prefix.
	queryPattern = regexp.MustCompile(`@(\w*)$`)
)

// =============================================================================
// EXTRACTION
// =============================================================================

// Extract returns the username of every mention token in text, left to right.
// Duplicates are kept and nothing is checked against a directory.
func Extract(text string) []string {
	matches := tokenPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return []string{}
	}
	mentions := make([]string, 0, len(matches))
	for _, m := range matches {
		mentions = append(mentions, m[1])
	}
	return mentions
}

// Unique returns mentions with duplicates removed, keeping first appearance.
func Unique(mentions []string) []string {
	seen := make(map[string]struct{}, len(mentions))
	out := make([]string, 0, len(mentions))
	for _, m := range mentions {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// =============================================================================
// ACTIVE QUERY
// =============================================================================

// ActiveQuery reports whether the author is typing a mention at caret, and the
// partial username typed so far. The caret is a rune offset and is clamped to
// the text. An "@" directly before the caret is an active, empty query.
func ActiveQuery(text string, caret int) (string, bool) {
	prefix, _ := splitAt(text, caret)
	m := queryPattern.FindStringSubmatch(prefix)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// splitAt splits text at a rune offset, clamping out-of-range offsets.
func splitAt(text string, caret int) (string, string) {
	if caret <= 0 {
		return "", text
	}
	if caret >= utf8.RuneCountInString(text) {
		return text, ""
	}
	i := 0
	for byteIdx := range text {
		if i == caret {
			return text[:byteIdx], text[byteIdx:]
		}
		i++
	}
	return text, ""
}
