package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmzDAWG/workspaces/internal/config"
	"github.com/dmzDAWG/workspaces/internal/history"
	"github.com/dmzDAWG/workspaces/internal/log"
	"github.com/dmzDAWG/workspaces/internal/ui/prompt"
	"github.com/dmzDAWG/workspaces/internal/workspace"
)

func newRemoveCmd() *cobra.Command {
	var (
		deleteLocal  bool
		deleteRemote bool
		yes          bool
	)

	cmd := &cobra.Command{
		Use:               "remove [workspace]",
		Short:             "Remove a workspace",
		Aliases:           []string{"rm"},
		GroupID:           GroupCore,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeWorkspaceNames,
		Long: `Remove every worktree of a workspace, then the workspace directory.

Branches are kept unless --delete-local or --delete-remote is given (or
enabled under [remove] in the config). Merged local branches are deleted
normally, unmerged ones are force-deleted with a note. A failed remote
deletion only warns.

The name must match a workspace exactly. Without one, the workspace
containing the current directory is removed; elsewhere a terminal prompt
asks which, and a script gets an error.

Uncommitted changes in the worktrees are discarded. On a terminal ws asks
for confirmation first; --yes skips the question.`,
		Example: `  ws remove login-page
  ws remove login-page --delete-local --delete-remote -y`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			l := log.FromContext(ctx)

			if !cmd.Flags().Changed("delete-local") {
				deleteLocal = cfg.Remove.DeleteLocal
			}
			if !cmd.Flags().Changed("delete-remote") {
				deleteRemote = cfg.Remove.DeleteRemote
			}

			var supplied string
			if len(args) > 0 {
				supplied = args[0]
			}
			entry, err := resolveWorkspace(ctx, cfg, supplied, matchExact)
			if err != nil {
				return err
			}

			if !yes && isInteractive() {
				res, err := prompt.Confirm(removePrompt(entry, deleteLocal, deleteRemote))
				if err != nil {
					return err
				}
				if res.Cancelled || !res.Confirmed {
					l.Println("Cancelled")
					return nil
				}
			}

			pctx, stop := withProgress(ctx, "removing "+entry.Name)
			report, err := workspace.NewRemover(cfg).Remove(pctx, entry.Name, workspace.RemoveOptions{
				DeleteLocal:  deleteLocal,
				DeleteRemote: deleteRemote,
			})
			stop()
			printLedger(ctx, report.Ledger)
			if err != nil {
				return err
			}

			if err := history.Remove(cfg.HistoryPath(), entry.Name); err != nil {
				l.Debug("forget workspace", "error", err)
			}
			if report.Relocated {
				l.Printf("Working directory was inside %s; now in %s\n", entry.Name, cfg.Root)
			}
			if err := allFailed("remove", report.Ledger); err != nil {
				return err
			}
			l.Printf("Removed %s\n", report.Root)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&deleteLocal, "delete-local", "d", false, "Also delete the local branches (default from remove.delete_local)")
	cmd.Flags().BoolVarP(&deleteRemote, "delete-remote", "D", false, "Also delete the remote branches (default from remove.delete_remote)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func removePrompt(e workspace.Entry, deleteLocal, deleteRemote bool) string {
	what := "worktrees"
	switch {
	case deleteLocal && deleteRemote:
		what = "worktrees, local and remote branches"
	case deleteLocal:
		what = "worktrees and local branches"
	case deleteRemote:
		what = "worktrees and remote branches"
	}
	return fmt.Sprintf("Remove %s (%d repositories: %s)?", e.Name, len(e.Repos), what)
}
