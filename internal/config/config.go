// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for palaver.
//
// Configuration file location:
//   - ~/.palaver/config.toml (or the path in PALAVER_CONFIG)
//   - Built-in defaults when the file does not exist
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/palaver-tui/internal/mention"
	"github.com/jeranaias/palaver-tui/internal/playback"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete palaver configuration.
type Config struct {
	// Version is the config file format version.
	Version string `toml:"version"`

	User    UserConfig    `toml:"user"`
	Chat    ChatConfig    `toml:"chat"`
	Stories StoriesConfig `toml:"stories"`
	Demo    DemoConfig    `toml:"demo"`
	UI      UIConfig      `toml:"ui"`
	Log     LogConfig     `toml:"log"`
}

// UserConfig controls who the demo logs in as.
type UserConfig struct {
	// DefaultLogin is the username every login resolves to.
	DefaultLogin string `toml:"default_login"`
	// SkipLogin opens the chat list without showing the login form.
	SkipLogin bool `toml:"skip_login"`
}

// ChatConfig controls the conversation view.
type ChatConfig struct {
	// SuggestionLimit is how many mention suggestions are shown.
	SuggestionLimit int `toml:"suggestion_limit"`
	// DeliveryDelayMs is how long a sent message waits before "delivered".
	DeliveryDelayMs int `toml:"delivery_delay_ms"`
	// ShowTimestamps shows message times in the conversation.
	ShowTimestamps bool `toml:"show_timestamps"`
}

// StoriesConfig controls story playback and lifetime.
type StoriesConfig struct {
	// TickMs is the progress bar tick; 100 ticks play one story.
	TickMs int `toml:"tick_ms"`
	// TTLHours is how long a new story stays visible.
	TTLHours int `toml:"ttl_hours"`
}

// DemoConfig controls the generated demo directory.
type DemoConfig struct {
	// ExtraUsers adds generated users to the directory.
	ExtraUsers int `toml:"extra_users"`
	// Seed makes generated users reproducible; 0 picks a random seed.
	Seed uint64 `toml:"seed"`
}

// UIConfig controls presentation.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// CompactMode drops blank lines between messages.
	CompactMode bool `toml:"compact_mode"`
}

// LogConfig controls the rotating log file.
type LogConfig struct {
	// File is the log path; empty means ~/.palaver/logs/palaver.log.
	File string `toml:"file"`
	// Level is one of debug, info, warn, error.
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		User: UserConfig{
			DefaultLogin: "john_doe",
		},
		Chat: ChatConfig{
			SuggestionLimit: mention.DefaultSuggestionLimit,
			DeliveryDelayMs: 1000,
			ShowTimestamps:  true,
		},
		Stories: StoriesConfig{
			TickMs:   int(playback.DefaultInterval / time.Millisecond),
			TTLHours: 24,
		},
		UI: UIConfig{
			Theme: "auto",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the palaver configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".palaver"), nil
}

// ConfigPath returns the config file path, honouring PALAVER_CONFIG.
func ConfigPath() (string, error) {
	if p := os.Getenv("PALAVER_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the default config file, falling back to defaults when it does
// not exist. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		return cfg, err
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		return cfg, cfg.Validate()
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific TOML file.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	fillDefaults(cfg)
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Parse decodes TOML text, filling in defaults.
func Parse(data string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	fillDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}
	if cfg.User.DefaultLogin == "" {
		cfg.User.DefaultLogin = defaults.User.DefaultLogin
	}

	// Chat
	if cfg.Chat.SuggestionLimit == 0 {
		cfg.Chat.SuggestionLimit = defaults.Chat.SuggestionLimit
	}
	if cfg.Chat.DeliveryDelayMs == 0 {
		cfg.Chat.DeliveryDelayMs = defaults.Chat.DeliveryDelayMs
	}

	// Stories
	if cfg.Stories.TickMs == 0 {
		cfg.Stories.TickMs = defaults.Stories.TickMs
	}
	if cfg.Stories.TTLHours == 0 {
		cfg.Stories.TTLHours = defaults.Stories.TTLHours
	}

	// UI
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}

	// Log
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Log.MaxSizeMB == 0 {
		cfg.Log.MaxSizeMB = defaults.Log.MaxSizeMB
	}
	if cfg.Log.MaxBackups == 0 {
		cfg.Log.MaxBackups = defaults.Log.MaxBackups
	}
	if cfg.Log.MaxAgeDays == 0 {
		cfg.Log.MaxAgeDays = defaults.Log.MaxAgeDays
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration to the default path.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to a TOML file atomically. The file is
// always mode 0600 and a missing parent directory is created with 0700.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# palaver configuration file\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return writeFile(path, buf.Bytes())
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Chat.SuggestionLimit < 1 || c.Chat.SuggestionLimit > 20 {
		errs = append(errs, ValidationError{
			Field:   "chat.suggestion_limit",
			Message: fmt.Sprintf("must be between 1 and 20, got %d", c.Chat.SuggestionLimit),
		})
	}
	if c.Chat.DeliveryDelayMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "chat.delivery_delay_ms",
			Message: "must not be negative",
		})
	}
	if c.Stories.TickMs < 10 || c.Stories.TickMs > 1000 {
		errs = append(errs, ValidationError{
			Field:   "stories.tick_ms",
			Message: fmt.Sprintf("must be between 10 and 1000, got %d", c.Stories.TickMs),
		})
	}
	if c.Stories.TTLHours < 1 || c.Stories.TTLHours > 168 {
		errs = append(errs, ValidationError{
			Field:   "stories.ttl_hours",
			Message: fmt.Sprintf("must be between 1 and 168, got %d", c.Stories.TTLHours),
		})
	}
	if c.Demo.ExtraUsers < 0 || c.Demo.ExtraUsers > 500 {
		errs = append(errs, ValidationError{
			Field:   "demo.extra_users",
			Message: fmt.Sprintf("must be between 0 and 500, got %d", c.Demo.ExtraUsers),
		})
	}

	validThemes := map[string]bool{"auto": true, "dark": true, "light": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//
//   - PALAVER_USER: overrides user.default_login
//   - PALAVER_THEME: overrides ui.theme
//   - PALAVER_LOG_LEVEL: overrides log.level
//   - PALAVER_EXTRA_USERS: overrides demo.extra_users
//   - PALAVER_SKIP_LOGIN: overrides user.skip_login
func (c *Config) ApplyEnvOverrides() {
	if user := os.Getenv("PALAVER_USER"); user != "" {
		c.User.DefaultLogin = user
	}
	if theme := os.Getenv("PALAVER_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if level := os.Getenv("PALAVER_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if extra := os.Getenv("PALAVER_EXTRA_USERS"); extra != "" {
		if n, err := strconv.Atoi(extra); err == nil {
			c.Demo.ExtraUsers = n
		}
	}
	if skip := os.Getenv("PALAVER_SKIP_LOGIN"); skip != "" {
		c.User.SkipLogin = skip == "1" || strings.ToLower(skip) == "true"
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "chat.suggestion_limit").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")
	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Uint64:
			uintVal, err := strconv.ParseUint(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid unsigned value: %v", err)
			}
			field.SetUint(uintVal)
			return nil
		case reflect.Bool:
			boolVal := strVal == "1" || strings.ToLower(strVal) == "true" || strings.ToLower(strVal) == "yes"
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			if cfg == nil {
				cfg = Default()
			}
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}
