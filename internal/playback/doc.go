// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package playback drives the story progress bar.
//
// A Handle owns one ticking goroutine. Stop cancels it and waits for the
// goroutine to exit, so once Stop returns no further tick is delivered. A
// Slot holds the handle of the story currently on screen; replacing or
// clearing the slot always stops the previous handle.
//
// # Key Types
//
//   - Handle: A running ticker with an explicit, idempotent Stop
//   - Slot: Mutex-guarded owner of the current Handle, safe to share across
//     Bubble Tea model copies
//   - Progress: Percent through the current story, advanced once per tick
//
// # Usage
//
//	slot := playback.NewSlot()
//	h := slot.Replace(playback.Start(ctx, playback.DefaultInterval))
//	defer slot.Stop()
//	for range h.C() {
//	    p, done := p.Advance()
//	    ...
//	}
package playback
