// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config path at an empty temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("PALAVER_CONFIG", path)
	for _, key := range []string{"PALAVER_USER", "PALAVER_THEME", "PALAVER_LOG_LEVEL", "PALAVER_EXTRA_USERS", "PALAVER_SKIP_LOGIN"} {
		t.Setenv(key, "")
	}
	return path
}

// TestConfig_ConcurrentAccess tests that Global(), SetGlobal(), and ReloadGlobal()
// can be safely called concurrently without race conditions.
// Run with: go test -race -v ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			c := Default()
			c.Version = "test"
			SetGlobal(c)
		}()

		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}
	wg.Wait()
}

func TestConfig_ConcurrentMixedOperations(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()

	var wg sync.WaitGroup
	for i := 0; i < 90; i++ {
		wg.Add(1)
		switch i % 3 {
		case 0:
			go func() {
				defer wg.Done()
				if Global() == nil {
					t.Error("Global() returned nil")
				}
			}()
		case 1:
			go func() {
				defer wg.Done()
				c := Default()
				c.Version = "concurrent-test"
				SetGlobal(c)
			}()
		case 2:
			go func() {
				defer wg.Done()
				_ = ReloadGlobal()
			}()
		}
	}
	wg.Wait()
}

func TestConfig_GlobalInitialization(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()

	cfg := Global()
	require.NotNil(t, cfg)
	assert.Equal(t, "john_doe", cfg.User.DefaultLogin)
	assert.Equal(t, 5, cfg.Chat.SuggestionLimit)
}

func TestConfig_SetGlobalOverwrites(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()
	_ = Global()

	custom := Default()
	custom.User.DefaultLogin = "jane_smith"
	SetGlobal(custom)

	assert.Equal(t, "jane_smith", Global().User.DefaultLogin)
}

func TestConfig_Default(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 5, cfg.Chat.SuggestionLimit)
	assert.Equal(t, 1000, cfg.Chat.DeliveryDelayMs)
	assert.Equal(t, 50, cfg.Stories.TickMs)
	assert.Equal(t, 24, cfg.Stories.TTLHours)
	assert.Equal(t, "auto", cfg.UI.Theme)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"valid default", func(*Config) {}, ""},
		{"suggestion limit zero", func(c *Config) { c.Chat.SuggestionLimit = 0 }, "chat.suggestion_limit"},
		{"suggestion limit too large", func(c *Config) { c.Chat.SuggestionLimit = 50 }, "chat.suggestion_limit"},
		{"negative delay", func(c *Config) { c.Chat.DeliveryDelayMs = -1 }, "chat.delivery_delay_ms"},
		{"tick too fast", func(c *Config) { c.Stories.TickMs = 1 }, "stories.tick_ms"},
		{"ttl too long", func(c *Config) { c.Stories.TTLHours = 1000 }, "stories.ttl_hours"},
		{"too many extra users", func(c *Config) { c.Demo.ExtraUsers = 10000 }, "demo.extra_users"},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"theme case-insensitive", func(c *Config) { c.UI.Theme = "DARK" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs), "expected ValidateErrors, got %v", err)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestValidateErrors_Error(t *testing.T) {
	assert.Equal(t, "no validation errors", ValidateErrors{}.Error())
	errs := ValidateErrors{
		{Field: "a", Message: "bad"},
		{Field: "b", Message: "worse"},
	}
	assert.Equal(t, "a: bad; b: worse", errs.Error())
}

func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	v, err := cfg.Get("chat.suggestion_limit")
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	require.NoError(t, cfg.Set("chat.suggestion_limit", "8"))
	assert.Equal(t, 8, cfg.Chat.SuggestionLimit)

	require.NoError(t, cfg.Set("ui.compact_mode", "true"))
	assert.True(t, cfg.UI.CompactMode)

	require.NoError(t, cfg.Set("demo.seed", "42"))
	assert.Equal(t, uint64(42), cfg.Demo.Seed)

	require.NoError(t, cfg.Set("user.default-login", "mike_wilson"))
	assert.Equal(t, "mike_wilson", cfg.User.DefaultLogin)

	require.NoError(t, cfg.Set("stories.ttl_hours", 12))
	assert.Equal(t, 12, cfg.Stories.TTLHours)

	_, err = cfg.Get("chat.nope")
	assert.Error(t, err)
	_, err = cfg.Get("")
	assert.Error(t, err)
	assert.Error(t, cfg.Set("chat.suggestion_limit.deeper", "1"))
	assert.Error(t, cfg.Set("chat.suggestion_limit", "many"))
}

func TestNormalizeFieldName(t *testing.T) {
	tests := map[string]string{
		"suggestion_limit": "SuggestionLimit",
		"default-login":    "DefaultLogin",
		"ui":               "Ui",
		"max_size_mb":      "MaxSizeMb",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeFieldName(in), in)
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("PALAVER_USER", "jane_smith")
	t.Setenv("PALAVER_THEME", "light")
	t.Setenv("PALAVER_LOG_LEVEL", "debug")
	t.Setenv("PALAVER_EXTRA_USERS", "12")
	t.Setenv("PALAVER_SKIP_LOGIN", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "jane_smith", cfg.User.DefaultLogin)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 12, cfg.Demo.ExtraUsers)
	assert.True(t, cfg.User.SkipLogin)
}

func TestConfig_SaveAndLoad(t *testing.T) {
	path := isolate(t)

	cfg := Default()
	cfg.Chat.SuggestionLimit = 3
	cfg.Demo.ExtraUsers = 7
	cfg.Demo.Seed = 99
	require.NoError(t, Save(cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Chat.SuggestionLimit)
	assert.Equal(t, 7, loaded.Demo.ExtraUsers)
	assert.Equal(t, uint64(99), loaded.Demo.Seed)
}

func TestParse_FillsDefaults(t *testing.T) {
	cfg, err := Parse("[chat]\nsuggestion_limit = 2\n")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Chat.SuggestionLimit)
	assert.Equal(t, 50, cfg.Stories.TickMs)
	assert.Equal(t, "john_doe", cfg.User.DefaultLogin)

	_, err = Parse("[ui]\ntheme = \"neon\"\n")
	assert.Error(t, err)

	_, err = Parse("not = [valid")
	assert.Error(t, err)
}

func TestLoadFromPath_Missing(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := isolate(t)
	require.NoError(t, SaveTOML(Default(), path))

	got := make(chan *Config, 4)
	w, err := NewWatcher(path, 50*time.Millisecond, func(cfg *Config, err error) {
		if err == nil {
			got <- cfg
		}
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Close()

	updated := Default()
	updated.Chat.SuggestionLimit = 9
	require.NoError(t, SaveTOML(updated, path))

	select {
	case cfg := <-got:
		assert.Equal(t, 9, cfg.Chat.SuggestionLimit)
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not report the change")
	}
}

func TestWatcher_CloseWithoutStart(t *testing.T) {
	path := isolate(t)
	w, err := NewWatcher(path, 0, nil)
	require.NoError(t, err)
	assert.NoError(t, w.Close())
}

// =============================================================================
// FILE WRITES
// =============================================================================

func TestSaveTOML_CreatesPrivateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".palaver")
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveTOML(Default(), path))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())

	info, err = os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSaveTOML_TightensExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[chat]\n"), 0644))

	cfg := Default()
	cfg.Chat.SuggestionLimit = 2
	require.NoError(t, SaveTOML(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Chat.SuggestionLimit)
}

func TestSaveTOML_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveTOML(Default(), path))
	require.NoError(t, SaveTOML(Default(), path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "config.toml", entries[0].Name())
}

func TestSaveTOML_ErrorsAreScoped(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))

	err := SaveTOML(Default(), filepath.Join(blocker, "config.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: ")

	entries, rerr := os.ReadDir(filepath.Dir(blocker))
	require.NoError(t, rerr)
	assert.Len(t, entries, 1)
}
