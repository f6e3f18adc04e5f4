// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

type versionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func newVersionCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return outputJSON(out, o.jsonMode, "version", func() (any, error) {
				info := versionInfo{
					Version:   Version,
					GitCommit: GitCommit,
					BuildDate: BuildDate,
					GoVersion: runtime.Version(),
					Platform:  runtime.GOOS + "/" + runtime.GOARCH,
				}
				if !o.jsonMode {
					fmt.Fprintf(out, "palaver %s (commit %s, built %s, %s %s)\n",
						info.Version, info.GitCommit, info.BuildDate, info.GoVersion, info.Platform)
				}
				return info, nil
			})
		},
	}
}
