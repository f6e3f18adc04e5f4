// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package compose

import (
	"strings"

	"github.com/jeranaias/palaver-tui/internal/mention"
)

// State is the composer's text, caret and mention query at one point in time.
type State struct {
	// Text is the composed text as typed.
	Text string
	// Caret is the rune offset of the cursor within Text.
	Caret int
	// Query is the partial username before the caret when Active is set.
	Query string
	// Active is true while the author is typing a mention.
	Active bool
	// Selected indexes the highlighted suggestion.
	Selected int
}

// Draft is what a submitted composition hands to the message store.
type Draft struct {
	Content  string
	Mentions []string
}

// New returns an empty composer state.
func New() State {
	return State{}
}

// Edit records a text or caret change and re-detects the active query.
func (s State) Edit(text string, caret int) State {
	q, ok := mention.ActiveQuery(text, caret)
	next := State{Text: text, Caret: caret, Query: q, Active: ok}
	if ok && s.Active && q == s.Query {
		next.Selected = s.Selected
	}
	return next
}

// Dismiss hides the suggestions until the next edit.
func (s State) Dismiss() State {
	s.Active = false
	s.Query = ""
	s.Selected = 0
	return s
}

// Move shifts the highlighted suggestion by delta, wrapping within n entries.
func (s State) Move(delta, n int) State {
	if n <= 0 {
		s.Selected = 0
		return s
	}
	s.Selected = ((s.Selected+delta)%n + n) % n
	return s
}

// Suggestions returns at most limit directory entries for the active query.
// It returns nil when no mention is being typed.
func (s State) Suggestions(directory []mention.Entry, self string, limit int) []mention.Entry {
	if !s.Active {
		return nil
	}
	return mention.Top(mention.Suggest(s.Query, directory, self), limit)
}

// Choose inserts username in place of the active query.
func (s State) Choose(username string) State {
	text, caret := mention.Insert(s.Text, s.Caret, username)
	return State{Text: text, Caret: caret}
}

// Submit turns the text into a Draft and returns a cleared state. ok is false
// when the text is blank, in which case the state is returned unchanged.
func (s State) Submit() (Draft, State, bool) {
	content := strings.TrimSpace(s.Text)
	if content == "" {
		return Draft{}, s, false
	}
	return Draft{Content: content, Mentions: mention.Extract(content)}, New(), true
}
