// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the palaver command line.
//
// With no subcommand palaver starts the full-screen client. The other
// commands expose the same mention engine and demo store to scripts and
// to a plain line-oriented chat for terminals without alt-screen support.
//
// # Key Types
//
//   - JSONResponse: envelope printed by every command run with --json
//   - Execute: entry point called from main
//
// # Commands
//
//   - (none), tui: full-screen Bubble Tea client
//   - chat: line-oriented chat with @ completion
//   - mentions extract|render|suggest|insert: run the mention engine on text
//   - users: list the demo directory, including generated users
//   - config path|show|get|set|validate: inspect and edit the config file
//   - version: print build information
//
// # Usage
//
//	palaver mentions extract "hey @jane_smith and @mike_wilson"
//	palaver mentions suggest jo --json
//	palaver config set chat.suggestion_limit 8
package cli
