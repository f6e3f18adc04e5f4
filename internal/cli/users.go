// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jeranaias/palaver-tui/internal/ui/components"
	"github.com/jeranaias/palaver-tui/internal/util"
)

func newUsersCmd(o *options) *cobra.Command {
	var extra int
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List the demo directory",
		Long: `List the users mentions can resolve to. --extra adds generated users
on top of demo.extra_users; demo.seed makes them reproducible.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return outputJSON(out, o.jsonMode, "users", func() (any, error) {
				cfg := *o.cfg
				cfg.Demo.ExtraUsers += extra
				dir := demoDirectory(&cfg)
				if !o.jsonMode {
					// ID, username and status take about 40 columns.
					nameWidth := max(TerminalWidth()-40, 12)
					tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
					fmt.Fprintln(tw, "ID\tUSERNAME\tNAME\tSTATUS")
					for _, u := range dir {
						status := "offline"
						if u.Online {
							status = "online"
						}
						fmt.Fprintf(tw, "%s\t@%s\t%s\t%s\n", u.ID, u.Username,
							util.TruncateWidth(components.Sanitize(u.DisplayName), nameWidth), status)
					}
					tw.Flush()
				}
				return dir, nil
			})
		},
	}
	cmd.Flags().IntVar(&extra, "extra", 0, "Generate this many additional users")
	return cmd
}
