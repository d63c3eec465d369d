package main

import (
	"github.com/spf13/cobra"

	"github.com/dmzDAWG/workspaces/internal/config"
	"github.com/dmzDAWG/workspaces/internal/log"
	"github.com/dmzDAWG/workspaces/internal/output"
	"github.com/dmzDAWG/workspaces/internal/ui/static"
	"github.com/dmzDAWG/workspaces/internal/workspace"
)

func newStatusCmd() *cobra.Command {
	var (
		format string
		repos  []string
	)

	cmd := &cobra.Command{
		Use:               "status [workspace]",
		Short:             "Show repository status",
		Aliases:           []string{"st"},
		GroupID:           GroupUtility,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeWorkspaceNames,
		Long: `Show branch and working tree state.

Without a workspace, every source repository is shown: which branch is
checked out and whether it is clean, the conditions "ws create" needs.
With a workspace, each of its worktrees is shown with how far it is ahead
of and behind the remote trunk as last fetched.`,
		Example: `  ws status               # source repositories
  ws status login-page    # worktrees of a workspace
  ws status -f json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			out := output.FromContext(ctx)

			if err := validateFormat(format, formatTable, formatJSON, formatYAML); err != nil {
				return err
			}

			var statuses []workspace.RepoStatus
			if len(args) > 0 {
				entry, err := resolveWorkspace(ctx, cfg, args[0], matchFuzzy)
				if err != nil {
					return err
				}
				if statuses, err = workspace.WorkspaceStatus(ctx, cfg, entry.Name); err != nil {
					return err
				}
			} else {
				selected, err := selectRepositories(cfg, repos)
				if err != nil {
					return err
				}
				statuses = workspace.RegistryStatus(ctx, cfg, selected)
			}

			if format != formatTable {
				return encode(out.Writer(), format, statuses)
			}
			if len(statuses) == 0 {
				log.FromContext(ctx).Println("No repositories")
				return nil
			}
			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				rows = append(rows, static.StatusRow(s))
			}
			out.Print(static.RenderTable(static.StatusHeaders, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, json or yaml")
	cmd.Flags().StringSliceVarP(&repos, "repository", "r", nil, "Only these repositories (repeatable)")
	cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{formatTable, formatJSON, formatYAML}, cobra.ShellCompDirectiveNoFileComp))
	cmd.RegisterFlagCompletionFunc("repository", completeRepoNames)

	return cmd
}
