// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/palaver-tui/internal/mention"
)

// =============================================================================
// MENTIONS COMMAND
// =============================================================================

func newMentionsCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mentions",
		Aliases: []string{"m"},
		Short:   "Run the mention engine on text",
	}
	cmd.AddCommand(
		newMentionsExtractCmd(o),
		newMentionsRenderCmd(o),
		newMentionsSuggestCmd(o),
		newMentionsInsertCmd(o),
	)
	return cmd
}

type extractResult struct {
	Mentions []string `json:"mentions"`
	Unique   []string `json:"unique"`
}

func newMentionsExtractCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <text>...",
		Short: "List the @mentions in text, in order, with duplicates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			out := cmd.OutOrStdout()
			return outputJSON(out, o.jsonMode, "mentions extract", func() (any, error) {
				found := mention.Extract(text)
				res := extractResult{Mentions: found, Unique: mention.Unique(found)}
				if res.Mentions == nil {
					res.Mentions = []string{}
				}
				if res.Unique == nil {
					res.Unique = []string{}
				}
				if !o.jsonMode {
					for _, m := range found {
						fmt.Fprintln(out, m)
					}
				}
				return res, nil
			})
		},
	}
}

type renderResult struct {
	Text     string           `json:"text"`
	Segments mention.Fragment `json:"segments"`
}

func newMentionsRenderCmd(o *options) *cobra.Command {
	var resolve []string
	cmd := &cobra.Command{
		Use:   "render <text>...",
		Short: "Split text into plain and mention segments",
		Long: `Render splits text into plain and mention segments. By default every
mention extracted from the text is highlighted, the way a sent message
is shown; --resolve highlights only the listed usernames.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			out := cmd.OutOrStdout()
			return outputJSON(out, o.jsonMode, "mentions render", func() (any, error) {
				resolved := resolve
				if !cmd.Flags().Changed("resolve") {
					resolved = mention.Extract(text)
				}
				frag := mention.Render(text, resolved)
				if !o.jsonMode {
					fmt.Fprintln(out, colorMentions(text, resolved))
				}
				return renderResult{Text: frag.String(), Segments: frag}, nil
			})
		},
	}
	cmd.Flags().StringSliceVar(&resolve, "resolve", nil, "Usernames to highlight (default: every extracted mention)")
	return cmd
}

func newMentionsSuggestCmd(o *options) *cobra.Command {
	var (
		limit int
		self  string
	)
	cmd := &cobra.Command{
		Use:   "suggest [query]",
		Short: "Suggest users whose username contains query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = strings.TrimPrefix(args[0], "@")
			}
			out := cmd.OutOrStdout()
			return outputJSON(out, o.jsonMode, "mentions suggest", func() (any, error) {
				dir := demoDirectory(o.cfg)
				if self == "" {
					self = o.cfg.User.DefaultLogin
				}
				exclude := ""
				if u, ok := dir.ByUsername(self); ok {
					exclude = u.ID
				}
				n := limit
				if n <= 0 {
					n = o.cfg.Chat.SuggestionLimit
				}
				entries := mention.Top(mention.Suggest(query, dir.Entries(), exclude), n)
				if !o.jsonMode {
					if len(entries) == 0 {
						fmt.Fprintf(out, "no matches for @%s\n", query)
					}
					for _, e := range entries {
						fmt.Fprintf(out, "%s  %s\n", mentionColor.Sprint("@"+e.Username), e.DisplayName)
					}
				}
				return entries, nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum suggestions (default: chat.suggestion_limit)")
	cmd.Flags().StringVar(&self, "self", "", "Username to leave out (default: user.default_login)")
	return cmd
}

type insertResult struct {
	Text  string `json:"text"`
	Caret int    `json:"caret"`
}

func newMentionsInsertCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "insert <text> <caret> <username>",
		Short: "Complete the mention before caret with username",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			caret, err := strconv.Atoi(args[1])
			if err != nil || caret < 0 {
				return fmt.Errorf("invalid caret %q", args[1])
			}
			username := strings.TrimPrefix(args[2], "@")
			if !mention.ValidUsername(username) {
				return fmt.Errorf("invalid username %q", args[2])
			}
			out := cmd.OutOrStdout()
			return outputJSON(out, o.jsonMode, "mentions insert", func() (any, error) {
				text, pos := mention.Insert(args[0], caret, username)
				if !o.jsonMode {
					fmt.Fprintf(out, "%s\ncaret: %d\n", text, pos)
				}
				return insertResult{Text: text, Caret: pos}, nil
			})
		},
	}
}
