// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/jeranaias/palaver-tui/internal/config"
	"github.com/jeranaias/palaver-tui/internal/logging"
)

// =============================================================================
// CONFIG COMMAND
// =============================================================================

func newConfigCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				out := cmd.OutOrStdout()
				return outputJSON(out, o.jsonMode, "config path", func() (any, error) {
					path, err := o.configFile()
					if err != nil {
						return nil, err
					}
					if !o.jsonMode {
						fmt.Fprintln(out, path)
					}
					return map[string]string{"path": path}, nil
				})
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				out := cmd.OutOrStdout()
				return outputJSON(out, o.jsonMode, "config show", func() (any, error) {
					if !o.jsonMode {
						if err := toml.NewEncoder(out).Encode(o.cfg); err != nil {
							return nil, err
						}
					}
					return o.cfg, nil
				})
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print one value, e.g. chat.suggestion_limit",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				out := cmd.OutOrStdout()
				return outputJSON(out, o.jsonMode, "config get", func() (any, error) {
					v, err := o.cfg.Get(args[0])
					if err != nil {
						return nil, err
					}
					if !o.jsonMode {
						fmt.Fprintln(out, v)
					}
					return map[string]any{"key": args[0], "value": v}, nil
				})
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Change one value in the config file",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				out := cmd.OutOrStdout()
				return outputJSON(out, o.jsonMode, "config set", func() (any, error) {
					return setConfigValue(o, args[0], args[1], out)
				})
			},
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Check the config file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				out := cmd.OutOrStdout()
				return outputJSON(out, o.jsonMode, "config validate", func() (any, error) {
					path, err := o.configFile()
					if err != nil {
						return nil, err
					}
					if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
						if !o.jsonMode {
							fmt.Fprintf(out, "%s does not exist; using defaults\n", path)
						}
						return map[string]any{"path": path, "valid": true, "exists": false}, nil
					}
					if _, err := config.LoadFromPath(path); err != nil {
						return nil, err
					}
					if !o.jsonMode {
						fmt.Fprintf(out, "%s is valid\n", path)
					}
					return map[string]any{"path": path, "valid": true, "exists": true}, nil
				})
			},
		},
	)
	return cmd
}

// setConfigValue edits the file on disk rather than the effective config,
// so environment overrides are not written back.
func setConfigValue(o *options, key, value string, out io.Writer) (any, error) {
	path, err := o.configFile()
	if err != nil {
		return nil, err
	}

	cfg := config.Default()
	if _, err := os.Stat(path); err == nil {
		if cfg, err = loadFileOnly(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.Set(key, value); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := config.SaveTOML(cfg, path); err != nil {
		return nil, err
	}

	v, _ := cfg.Get(key)
	logging.Info("config updated", "key", key, "path", path)
	if !o.jsonMode {
		fmt.Fprintf(out, "%s = %v\n", key, v)
	}
	return map[string]any{"key": key, "value": v, "path": path}, nil
}

// loadFileOnly decodes path without environment overrides.
func loadFileOnly(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return config.Parse(string(data))
}
