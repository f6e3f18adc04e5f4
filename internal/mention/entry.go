// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

// DefaultSuggestionLimit is how many suggestions the composer shows at once.
const DefaultSuggestionLimit = 5

// Entry is a directory user that can be mentioned.
type Entry struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Online      bool   `json:"online"`
}

// ValidUsername reports whether s matches the mention token grammar.
// A username outside the grammar can be stored but never mentioned.
func ValidUsername(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isWordByte(s[i]) {
			return false
		}
	}
	return true
}

// isWordByte matches the ASCII word class used by the token grammar.
func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
