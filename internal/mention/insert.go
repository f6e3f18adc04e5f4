// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import "unicode/utf8"

// Insert replaces the partial mention before caret with "@username " and
// returns the new text and the caret just past the inserted space. Text after
// the caret is kept as is. With no partial mention the token is inserted at
// the caret.
//
// The username is not checked against any directory, so the inserted token
// may not resolve when rendered.
func Insert(text string, caret int, username string) (string, int) {
	before, after := splitAt(text, caret)
	if loc := queryPattern.FindStringIndex(before); loc != nil {
		before = before[:loc[0]]
	}
	head := before + "@" + username + " "
	return head + after, utf8.RuneCountInString(head)
}

// Append adds "@username " to the end of text, separated by a space when
// text does not already end in whitespace.
func Append(text, username string) string {
	if text != "" && !endsWithSpace(text) {
		text += " "
	}
	return text + "@" + username + " "
}

func endsWithSpace(s string) bool {
	switch s[len(s)-1] {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
