// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mention implements @username detection, suggestion, insertion and
// rendering for composed messages and stories.
//
// Every function is pure: it takes the composed text (and, where needed, the
// caret offset or the user directory) and returns a new value. Nothing is
// cached between calls, so the functions are safe to invoke on every
// keystroke and every render pass.
//
// # Token Grammar
//
// A mention token is "@" followed by one or more word characters
// ([A-Za-z0-9_]). Matching during extraction and rendering is case-sensitive;
// suggestion filtering is case-insensitive.
//
// # Key Types
//
//   - Entry: A directory user that can be mentioned
//   - Segment: One piece of rendered text, plain or a resolved mention
//   - Fragment: The ordered segments produced by Render
//
// # Usage
//
// Composition time:
//
//	if q, ok := mention.ActiveQuery(text, caret); ok {
//	    shown := mention.Top(mention.Suggest(q, directory, self.ID), mention.DefaultSuggestionLimit)
//	    ...
//	    text, caret = mention.Insert(text, caret, shown[0].Username)
//	}
//
// Submission and display:
//
//	mentions := mention.Extract(text)
//	frag := mention.Render(text, mentions)
//	for _, seg := range frag { ... }
package mention
