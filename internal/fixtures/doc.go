// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package fixtures provides the demo data palaver starts with.
//
// Demo returns three users, two chats, their messages and two active
// stories, with timestamps relative to the supplied time. ExtraUsers adds
// generated directory entries for exercising mention suggestions against a
// larger directory.
//
// # Usage
//
//	data := fixtures.Demo(time.Now())
//	data.Users = append(data.Users, fixtures.ExtraUsers(20, 42, data.Users)...)
//	err := store.Seed(ctx, data)
package fixtures
