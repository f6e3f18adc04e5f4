// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jeranaias/palaver-tui/internal/config"
	"github.com/jeranaias/palaver-tui/internal/logging"
)

// Version information, set from main.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// GLOBAL OPTIONS
// =============================================================================

// options holds the persistent flags and the config they resolve to.
type options struct {
	configPath string
	verbose    bool
	jsonMode   bool
	noColor    bool

	// logWriter replaces the log file, for tests.
	logWriter io.Writer

	cfg *config.Config
}

// setup loads the config and starts logging. It runs before every command.
func (o *options) setup() error {
	configureColor(o.noColor)

	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	config.SetGlobal(cfg)
	o.cfg = cfg

	return logging.Init(logging.Options{
		File:       cfg.Log.File,
		Level:      cfg.Log.Level,
		Verbose:    o.verbose,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Writer:     o.logWriter,
	})
}

// loadConfig reads --config when given, else the default location. A
// missing file yields the defaults.
func (o *options) loadConfig() (*config.Config, error) {
	if o.configPath == "" {
		return config.Load()
	}
	if _, err := os.Stat(o.configPath); errors.Is(err, os.ErrNotExist) {
		cfg := config.Default()
		cfg.ApplyEnvOverrides()
		return cfg, cfg.Validate()
	}
	return config.LoadFromPath(o.configPath)
}

// configFile returns the path config commands read and write.
func (o *options) configFile() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	return config.ConfigPath()
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

func newRootCmd(o *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "palaver",
		Short: "Terminal chat with @mentions and stories",
		Long: `palaver is a terminal chat client with @mention autocomplete,
mention notifications and 24-hour stories, running against a seeded
in-memory demo store.

Run without a command to start the full-screen client.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), o)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&o.configPath, "config", "", "Path to config file (default: ~/.palaver/config.toml)")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "Log at debug level")
	flags.BoolVar(&o.jsonMode, "json", false, "Print results as JSON")
	flags.BoolVar(&o.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newTUICmd(o),
		newChatCmd(o),
		newMentionsCmd(o),
		newUsersCmd(o),
		newConfigCmd(o),
		newVersionCmd(o),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&options{}).ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
