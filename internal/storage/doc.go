// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage holds palaver's users, chats, messages, stories and
// notifications in an in-memory SQLite database.
//
// The database lives only as long as the process. Open applies the schema;
// Seed loads fixture data. All methods take a context and are safe for use
// from concurrent Bubble Tea commands.
//
// # Key Types
//
//   - Store: The database handle and every query palaver needs
//   - ErrNotFound: Returned when a chat, message or story id is unknown
//
// # Usage
//
//	store, err := storage.Open(ctx)
//	if err != nil { ... }
//	defer store.Close()
//
//	if err := store.Seed(ctx, fixtures.Demo(time.Now())); err != nil { ... }
//	notes, err := store.AppendMessage(ctx, msg)
package storage
