package main

import (
	"github.com/spf13/cobra"

	"github.com/dmzDAWG/workspaces/internal/config"
	"github.com/dmzDAWG/workspaces/internal/history"
	"github.com/dmzDAWG/workspaces/internal/log"
	"github.com/dmzDAWG/workspaces/internal/output"
	"github.com/dmzDAWG/workspaces/internal/ui/static"
	"github.com/dmzDAWG/workspaces/internal/workspace"
)

func newListCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List workspaces",
		Aliases: []string{"ls"},
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `List workspaces with the repositories that have a worktree in each,
most used first. Workspaces without any worktree are marked (empty); see
"ws cleanup".`,
		Example: `  ws list
  ws list --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			out := output.FromContext(ctx)

			if err := validateFormat(format, formatTable, formatJSON, formatYAML); err != nil {
				return err
			}

			entries, err := workspace.NewCatalog(cfg.WorkspacesPath()).List()
			if err != nil {
				return err
			}
			entries = rankEntries(cfg, entries)
			log.FromContext(ctx).Debug("listing workspaces", "count", len(entries))

			if format != formatTable {
				return encode(out.Writer(), format, entries)
			}
			if len(entries) == 0 {
				log.FromContext(ctx).Printf("No workspaces in %s\n", cfg.WorkspacesPath())
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, static.WorkspaceRow(e))
			}
			out.Print(static.RenderTable(static.WorkspaceHeaders, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, json or yaml")
	cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{formatTable, formatJSON, formatYAML}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// rankEntries orders entries by visit history.
func rankEntries(cfg config.Config, entries []workspace.Entry) []workspace.Entry {
	h, err := history.Load(cfg.HistoryPath())
	if err != nil {
		return entries
	}
	byName := make(map[string]workspace.Entry, len(entries))
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		byName[e.Name] = e
		names = append(names, e.Name)
	}
	ranked := make([]workspace.Entry, 0, len(entries))
	for _, n := range h.Rank(names) {
		ranked = append(ranked, byName[n])
	}
	return ranked
}
