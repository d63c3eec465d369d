package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dmzDAWG/workspaces/internal/batch"
	"github.com/dmzDAWG/workspaces/internal/config"
	"github.com/dmzDAWG/workspaces/internal/git"
	"github.com/dmzDAWG/workspaces/internal/hooks"
	"github.com/dmzDAWG/workspaces/internal/log"
	"github.com/dmzDAWG/workspaces/internal/ui/styles"
	"github.com/dmzDAWG/workspaces/internal/workspace"
)

// hookFlags are the --hook, --no-hook and --arg flags shared by the
// commands that trigger hooks.
type hookFlags struct {
	names []string
	skip  bool
	args  []string
}

func (h *hookFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&h.names, "hook", nil, "Run these hooks instead of the configured ones (repeatable)")
	cmd.Flags().BoolVar(&h.skip, "no-hook", false, "Do not run hooks")
	cmd.Flags().StringArrayVarP(&h.args, "arg", "a", nil, "Hook placeholder value key=value (repeatable)")
	cmd.MarkFlagsMutuallyExclusive("hook", "no-hook")
	cmd.RegisterFlagCompletionFunc("hook", completeHookNames)
}

// hookRun is a validated set of hooks ready to run after a batch.
type hookRun struct {
	trigger string
	matches []hooks.Match
	env     map[string]string
}

// prepare selects the hooks for trigger and parses --arg, so bad input is
// rejected before any repository is touched.
func (h *hookFlags) prepare(cfg config.Config, trigger string) (hookRun, error) {
	matches, err := hooks.Select(cfg.Hooks, trigger, h.names, h.skip)
	if err != nil {
		return hookRun{}, usageError{err}
	}
	env, err := hooks.ParseArgs(h.args)
	if err != nil {
		return hookRun{}, usageError{err}
	}
	return hookRun{trigger: trigger, matches: matches, env: env}, nil
}

// run executes the hooks in every worktree that succeeded. Failures are
// printed as warnings.
func (r hookRun) run(ctx context.Context, cfg config.Config, ws string, ledger workspace.Ledger) {
	if len(r.matches) == 0 {
		return
	}

	var targets []workspace.Outcome
	for _, o := range ledger {
		if o.Succeeded() {
			targets = append(targets, o)
		}
	}

	l := log.FromContext(ctx)
	l.Debug("running hooks", "trigger", r.trigger, "hooks", len(r.matches), "repos", len(targets))

	errs := batch.Run(ctx, cfg.Parallel, targets, func(ctx context.Context, o workspace.Outcome) error {
		source, _ := git.GetMainRepoPath(o.Path)
		return hooks.Run(ctx, r.matches, hooks.Context{
			Workspace: ws,
			Path:      o.Path,
			Branch:    o.Branch,
			Repo:      o.Repo,
			Source:    source,
			Trigger:   r.trigger,
			Env:       r.env,
		})
	})
	for i, err := range errs {
		if err != nil {
			l.Printf("%s %s: %v\n", styles.Mark(styles.MarkWarning), targets[i].Repo, err)
		}
	}
}

// completeHookNames completes --hook with the configured hook names.
func completeHookNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, ok := completionConfig(cmd)
	if !ok {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names := make([]string, 0, len(cfg.Hooks))
	for name := range cfg.Hooks {
		names = append(names, name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
