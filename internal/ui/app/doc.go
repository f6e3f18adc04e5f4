// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app implements the palaver terminal client as a Bubble Tea model.
//
// The model walks through a login form, the chat list with its story strip,
// conversations with @mention autocomplete, the story viewer and the story
// composer. All persistent state lives in a storage.Store; the model holds
// the latest snapshot and reloads it after every write.
//
// # Key Types
//
//   - Model: root tea.Model, created with New
//   - Options: store, config, theme and clock for New
//   - Screen: the view currently on top
//   - ConfigReloadedMsg: sent by the config watcher to apply a new config
//
// # Usage
//
//	m := app.New(app.Options{Store: store, Config: cfg})
//	p := tea.NewProgram(m, tea.WithAltScreen())
//	_, err := p.Run()
//
// The story viewer's timer is owned by a playback.Slot shared by every copy
// of the model. Quitting, closing the viewer or moving to another story
// stops the running handle, and ticks from a stopped handle are dropped.
package app
