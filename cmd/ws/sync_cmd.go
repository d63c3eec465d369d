package main

import (
	"github.com/spf13/cobra"

	"github.com/dmzDAWG/workspaces/internal/config"
	"github.com/dmzDAWG/workspaces/internal/log"
	"github.com/dmzDAWG/workspaces/internal/workspace"
)

func newSyncCmd() *cobra.Command {
	var (
		strategy string
		push     bool
		hf       hookFlags
	)

	cmd := &cobra.Command{
		Use:               "sync [workspace]",
		Short:             "Bring a workspace up to date with trunk",
		GroupID:           GroupCore,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeWorkspaceNames,
		Long: `Fetch trunk and rebase every worktree of the workspace onto it, or
merge it with --strategy merge.

Repositories are synced independently. A conflict leaves that repository
mid-rebase (or mid-merge) for you to resolve; the others carry on.
Exit code 4 means at least one repository needs attention.

With --push, synced branches are pushed; after a rebase this uses
--force-with-lease.

The name must match a workspace exactly; without one, the workspace
containing the current directory is synced.`,
		Example: `  ws sync                       # workspace you are in
  ws sync login --strategy merge
  ws sync login --push`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			l := log.FromContext(ctx)

			if !cmd.Flags().Changed("strategy") {
				strategy = cfg.Sync.Strategy
			}
			if err := config.ValidateStrategy(strategy); err != nil {
				return usageError{err}
			}
			if !cmd.Flags().Changed("push") {
				push = cfg.Sync.Push
			}

			hr, err := hf.prepare(cfg, config.TriggerSync)
			if err != nil {
				return err
			}

			var supplied string
			if len(args) > 0 {
				supplied = args[0]
			}
			entry, err := resolveWorkspace(ctx, cfg, supplied, matchExact)
			if err != nil {
				return err
			}
			if entry.Empty() {
				l.Printf("%s has no worktrees\n", entry.Name)
				return nil
			}

			l.Debug("syncing workspace", "name", entry.Name, "strategy", strategy, "push", push)

			pctx, stop := withProgress(ctx, "syncing "+entry.Name)
			ledger, err := workspace.NewSyncer(cfg).Sync(pctx, entry.Name, strategy, push)
			stop()
			if err != nil {
				return err
			}
			printLedger(ctx, ledger)
			hr.run(ctx, cfg, entry.Name, ledger)

			if !ledger.AllSucceeded() {
				return &partialError{op: "sync", repos: ledger.FailedRepos()}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&strategy, "strategy", "s", config.StrategyRebase, "rebase or merge (default from sync.strategy)")
	cmd.Flags().BoolVarP(&push, "push", "p", false, "Push after syncing (default from sync.push)")
	hf.register(cmd)
	cmd.RegisterFlagCompletionFunc("strategy", cobra.FixedCompletions(config.ValidStrategies, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}
