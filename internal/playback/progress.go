// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package playback

// Complete is the percent at which a story finishes.
const Complete = 100

// Progress is how far through the current story playback is.
type Progress struct {
	Percent int
}

// Advance moves one step forward. When the story completes it reports done
// and the returned progress starts the next story from zero.
func (p Progress) Advance() (Progress, bool) {
	if p.Percent+1 >= Complete {
		return Progress{}, true
	}
	return Progress{Percent: p.Percent + 1}, false
}
