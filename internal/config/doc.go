// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for palaver.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ChatConfig: Mention suggestions and delivery simulation
//   - StoriesConfig: Story playback tick and lifetime
//   - Watcher: Reloads the config file when it changes
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (PALAVER_*)
//   - ~/.palaver/config.toml (or $PALAVER_CONFIG)
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	limit := cfg.Chat.SuggestionLimit
package config
