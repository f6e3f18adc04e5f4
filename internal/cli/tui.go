// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/palaver-tui/internal/config"
	"github.com/jeranaias/palaver-tui/internal/logging"
	"github.com/jeranaias/palaver-tui/internal/ui/app"
	"github.com/jeranaias/palaver-tui/internal/ui/styles"
)

func newTUICmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the full-screen client (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), o)
		},
	}
}

// runTUI runs the Bubble Tea client until the user quits. Edits to the
// config file are applied while it runs.
func runTUI(ctx context.Context, o *options) error {
	if !IsTTY() || !IsStdoutTTY() {
		return errors.New("the full-screen client needs an interactive terminal; try 'palaver chat'")
	}

	store, err := openStore(ctx, o.cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	m := app.New(app.Options{
		Store:   store,
		Config:  o.cfg,
		Theme:   styles.NewTheme(o.cfg.UI.Theme),
		Context: ctx,
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if path, err := o.configFile(); err == nil {
		w, err := config.NewWatcher(path, config.DefaultWatchDebounce, func(cfg *config.Config, err error) {
			if err != nil {
				logging.Warn("config reload failed", "path", path, "err", err)
				return
			}
			config.SetGlobal(cfg)
			p.Send(app.ConfigReloadedMsg{Config: cfg})
		})
		if err != nil {
			logging.Warn("config watcher unavailable", "path", path, "err", err)
		} else {
			w.Start(ctx)
			defer w.Close()
		}
	}

	logging.Info("starting client", "version", Version, "theme", o.cfg.UI.Theme)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("client exited: %w", err)
	}
	return nil
}
