package main

import (
	"github.com/spf13/cobra"

	"github.com/dmzDAWG/workspaces/internal/config"
	"github.com/dmzDAWG/workspaces/internal/log"
	"github.com/dmzDAWG/workspaces/internal/output"
	"github.com/dmzDAWG/workspaces/internal/workspace"
)

func newCheckoutCmd() *cobra.Command {
	var (
		repos []string
		open  bool
		hf    hookFlags
	)

	cmd := &cobra.Command{
		Use:               "checkout <branch>",
		Short:             "Build a workspace around an existing branch",
		Aliases:           []string{"co"},
		GroupID:           GroupCore,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeBranches,
		Long: `Build a workspace around a branch that already exists, for example
one a colleague pushed.

The workspace is named after the last component of the branch. Each
repository that has the branch locally or on the remote gets a worktree;
the others are skipped. Source repositories are not touched, so no
cleanliness check runs.`,
		Example: `  ws checkout feature/login-page
  ws checkout bug/null-session -r api`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			l := log.FromContext(ctx)

			ws, err := workspace.ForBranch(cfg, args[0])
			if err != nil {
				return usageError{err}
			}
			selected, err := selectRepositories(cfg, repos)
			if err != nil {
				return err
			}
			hr, err := hf.prepare(cfg, config.TriggerCheckout)
			if err != nil {
				return err
			}

			l.Debug("attaching workspace", "name", ws.Name, "branch", ws.Branch)

			pctx, stop := withProgress(ctx, "checking out "+ws.Branch)
			ledger, err := workspace.NewOrchestrator(cfg).Attach(pctx, ws, selected)
			stop()
			if err != nil {
				return err
			}
			printLedger(ctx, ledger)
			if !ledger.AnySucceeded() {
				if len(ledger.Failed()) == 0 {
					return usageError{errNoBranch(ws.Branch)}
				}
				return allFailed("checkout", ledger)
			}

			hr.run(ctx, cfg, ws.Name, ledger)
			finishWorkspace(cmd, cfg, ws.Name, ws.Root, open)
			output.FromContext(ctx).Println(ws.Root)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&repos, "repository", "r", nil, "Only these repositories (repeatable)")
	cmd.Flags().BoolVarP(&open, "open", "o", false, "Open the workspace in the IDE")
	hf.register(cmd)
	cmd.RegisterFlagCompletionFunc("repository", completeRepoNames)

	return cmd
}

type errNoBranch string

func (e errNoBranch) Error() string {
	return "branch " + string(e) + " not found in any repository"
}
