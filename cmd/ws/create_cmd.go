package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmzDAWG/workspaces/internal/config"
	"github.com/dmzDAWG/workspaces/internal/docs"
	"github.com/dmzDAWG/workspaces/internal/history"
	"github.com/dmzDAWG/workspaces/internal/ide"
	"github.com/dmzDAWG/workspaces/internal/log"
	"github.com/dmzDAWG/workspaces/internal/output"
	"github.com/dmzDAWG/workspaces/internal/ui/prompt"
	"github.com/dmzDAWG/workspaces/internal/workspace"
)

func newCreateCmd() *cobra.Command {
	var (
		bug    bool
		repos  []string
		open   bool
		noPush bool
		noDocs bool
		hf     hookFlags
	)

	cmd := &cobra.Command{
		Use:     "create [name]",
		Short:   "Create a workspace",
		Aliases: []string{"new"},
		GroupID: GroupCore,
		Args:    cobra.MaximumNArgs(1),
		Long: `Create a workspace with one worktree per repository.

Every repository must be clean and able to fast-forward its trunk before
anything is created. Each worktree is then cut from the freshly pulled trunk
on branch feature/<name> (bug/<name> with --bug) and, unless --no-push,
published with upstream tracking.

The name is sanitized: "Fix login page" becomes "Fix-login-page".
Without a name, ws asks for one.`,
		Example: `  ws create login-page              # feature/login-page in every repo
  ws create --bug "null session"    # bug/null-session
  ws create api-v2 -r api -r web    # only the api and web repos
  ws create spike --no-push --open  # keep branches local, open the IDE
  ws create x --hook deps -a profile=fast`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			raw, err := workspaceNameArg(args)
			if err != nil {
				return err
			}

			kind := workspace.KindFeature
			if bug {
				kind = workspace.KindBug
			}
			ws, err := workspace.New(cfg, raw, kind)
			if err != nil {
				return usageError{err}
			}

			selected, err := selectRepositories(cfg, repos)
			if err != nil {
				return err
			}
			hr, err := hf.prepare(cfg, config.TriggerCreate)
			if err != nil {
				return err
			}

			l.Debug("creating workspace", "name", ws.Name, "branch", ws.Branch, "repos", len(selected))

			o := workspace.NewOrchestrator(cfg)
			if noPush {
				o.Push = false
			}

			pctx, stop := withProgress(ctx, "creating "+ws.Name)
			ledger, err := o.Create(pctx, ws, selected)
			stop()
			if err != nil {
				return err
			}
			printLedger(ctx, ledger)
			if err := allFailed("create", ledger); err != nil {
				return err
			}

			if !noDocs {
				renderDocs(cmd, cfg, ws, ledger)
			}
			hr.run(ctx, cfg, ws.Name, ledger)

			finishWorkspace(cmd, cfg, ws.Name, ws.Root, open)
			out.Println(ws.Root)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&bug, "bug", "b", false, "Create a bug workspace (bug/<name>)")
	cmd.Flags().StringSliceVarP(&repos, "repository", "r", nil, "Only these repositories (repeatable)")
	cmd.Flags().BoolVarP(&open, "open", "o", false, "Open the workspace in the IDE")
	cmd.Flags().BoolVar(&noPush, "no-push", false, "Keep new branches local")
	cmd.Flags().BoolVar(&noDocs, "no-docs", false, "Skip generating spec documents")

	hf.register(cmd)
	cmd.RegisterFlagCompletionFunc("repository", completeRepoNames)

	return cmd
}

// workspaceNameArg returns the name argument, prompting when it is missing.
func workspaceNameArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if !isInteractive() {
		return "", usageError{errors.New("workspace name required")}
	}
	res, err := prompt.TextInput("Workspace name", "login-page", func(s string) error {
		_, err := workspace.SanitizeName(s)
		return err
	})
	if err != nil {
		return "", err
	}
	if res.Cancelled {
		return "", errCancelled
	}
	return res.Value, nil
}

// renderDocs writes the SPEC.md/BUG.md templates for the workspace kind. Failures
// only warn: the worktrees are already in place.
func renderDocs(cmd *cobra.Command, cfg config.Config, ws workspace.Workspace, ledger workspace.Ledger) {
	l := log.FromContext(cmd.Context())

	var repos []string
	for _, o := range ledger {
		if o.Succeeded() {
			repos = append(repos, o.Repo)
		}
	}

	r := &docs.Renderer{TemplatesDir: cfg.TemplatesPath(), Now: time.Now}
	files, err := r.Render(string(ws.Kind), docs.Data{
		Workspace: ws.Name,
		Branch:    ws.Branch,
		Root:      ws.Root,
		Repos:     repos,
	})
	switch {
	case errors.Is(err, docs.ErrTemplateNotFound):
		l.Debug("no document templates", "kind", ws.Kind)
	case err != nil:
		l.Printf("Warning: spec documents: %v\n", err)
	}
	for _, f := range files {
		l.Debug("wrote document", "path", f)
	}
}

// finishWorkspace records the visit and optionally opens the IDE.
// Neither step can fail the command.
func finishWorkspace(cmd *cobra.Command, cfg config.Config, name, path string, open bool) {
	ctx := cmd.Context()
	l := log.FromContext(ctx)

	if err := history.RecordAccess(cfg.HistoryPath(), name, path); err != nil {
		l.Debug("record history", "error", err)
	}
	if !open {
		return
	}
	if err := ide.New(cfg.IDE.Command).Launch(ctx, path); err != nil {
		if errors.Is(err, ide.ErrNotAvailable) {
			l.Printf("Warning: %v; set ide.command in the config\n", err)
			return
		}
		l.Printf("Warning: open IDE: %v\n", err)
	}
}
