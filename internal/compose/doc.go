// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package compose holds the message composer state as an immutable value.
//
// Each input event produces a new State from the previous one; nothing is
// mutated in place. The Bubble Tea conversation view keeps the latest State
// and re-renders the suggestion popup from it.
//
// # Usage
//
//	st := compose.New()
//	st = st.Edit(input.Value(), input.Position())
//	if st.Active {
//	    shown := st.Suggestions(directory, self.ID, 5)
//	    st = st.Choose(shown[st.Selected].Username)
//	}
//	draft, st, ok := st.Submit()
package compose
