// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"time"
)

// =============================================================================
// SPINNER ANIMATIONS
// =============================================================================

// SpinnerConfig holds the configuration for a spinner animation.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// Duration returns the duration for each frame.
func (s SpinnerConfig) Duration() time.Duration {
	if s.FPS <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(s.FPS)
}

// DotsSpinner is shown next to a message that has not been delivered yet.
var DotsSpinner = SpinnerConfig{
	Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    6,
}

// =============================================================================
// PROGRESS INDICATORS
// =============================================================================

// Progress bar characters for the story viewer.
var (
	ProgressFull    = "━"
	ProgressEmpty   = "─"
	ProgressPartial = []string{"╸"}
)

// RenderProgressBar creates a progress bar string.
// width: total width of the bar in characters
// percent: 0-100 percentage complete
func RenderProgressBar(width int, percent float64) string {
	if width <= 0 {
		return ""
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filledWidth := float64(width) * percent / 100
	fullBlocks := int(filledWidth)
	partialIndex := int((filledWidth - float64(fullBlocks)) * float64(len(ProgressPartial)+1))

	var sb strings.Builder
	sb.Grow(width * 3)

	for i := 0; i < fullBlocks && i < width; i++ {
		sb.WriteString(ProgressFull)
	}

	if fullBlocks < width && partialIndex > 0 {
		sb.WriteString(ProgressPartial[partialIndex-1])
		fullBlocks++
	}

	for i := fullBlocks; i < width; i++ {
		sb.WriteString(ProgressEmpty)
	}

	return sb.String()
}

// RenderSegmentedBar renders one bar per story in a group, the way story
// viewers show position: stories before current are full, after are empty.
func RenderSegmentedBar(width, count, current int, percent float64) string {
	if count <= 0 || width <= 0 {
		return ""
	}
	gap := 1
	seg := (width - gap*(count-1)) / count
	if seg < 1 {
		seg = 1
	}
	parts := make([]string, count)
	for i := range parts {
		switch {
		case i < current:
			parts[i] = RenderProgressBar(seg, 100)
		case i == current:
			parts[i] = RenderProgressBar(seg, percent)
		default:
			parts[i] = RenderProgressBar(seg, 0)
		}
	}
	return strings.Join(parts, strings.Repeat(" ", gap))
}
