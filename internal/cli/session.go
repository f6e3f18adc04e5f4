// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jeranaias/palaver-tui/internal/config"
	"github.com/jeranaias/palaver-tui/internal/fixtures"
	"github.com/jeranaias/palaver-tui/internal/logging"
	"github.com/jeranaias/palaver-tui/internal/model"
	"github.com/jeranaias/palaver-tui/internal/storage"
)

// demoData returns the fixture set plus cfg.Demo.ExtraUsers generated users.
func demoData(cfg *config.Config) fixtures.Data {
	data := fixtures.Demo(time.Now())
	if n := cfg.Demo.ExtraUsers; n > 0 {
		data.Users = append(data.Users, fixtures.ExtraUsers(n, cfg.Demo.Seed, data.Users)...)
	}
	return data
}

// demoDirectory returns the directory the suggest and users commands read.
func demoDirectory(cfg *config.Config) model.Directory {
	return demoData(cfg).Users
}

// openStore opens a fresh in-memory store seeded with the demo data.
func openStore(ctx context.Context, cfg *config.Config) (*storage.Store, error) {
	store, err := storage.Open(ctx)
	if err != nil {
		return nil, err
	}
	data := demoData(cfg)
	if err := store.Seed(ctx, data); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to seed demo data: %w", err)
	}
	logging.Debug("store seeded", "users", len(data.Users), "chats", len(data.Chats), "stories", len(data.Stories))
	return store, nil
}

// signIn resolves the configured login to a directory user.
func signIn(dir model.Directory, cfg *config.Config) (model.User, error) {
	if u, ok := dir.ByUsername(cfg.User.DefaultLogin); ok {
		return u, nil
	}
	if u, ok := dir.ByID(fixtures.DefaultUserID); ok {
		return u, nil
	}
	return model.User{}, fmt.Errorf("no user %q in the directory", cfg.User.DefaultLogin)
}
