// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across palaver.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//   - TruncateWidth, StringWidth, PadRight: display-width aware helpers
//   - SingleLine: collapse whitespace for one-line previews
//
// # Usage
//
//	preview := util.TruncateWidth(util.SingleLine(msg.Content), 40)
package util
