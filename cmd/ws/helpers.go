package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/mattn/go-isatty"

	"github.com/dmzDAWG/workspaces/internal/batch"
	"github.com/dmzDAWG/workspaces/internal/choice"
	"github.com/dmzDAWG/workspaces/internal/config"
	"github.com/dmzDAWG/workspaces/internal/git"
	"github.com/dmzDAWG/workspaces/internal/history"
	"github.com/dmzDAWG/workspaces/internal/log"
	"github.com/dmzDAWG/workspaces/internal/registry"
	"github.com/dmzDAWG/workspaces/internal/ui/progress"
	"github.com/dmzDAWG/workspaces/internal/ui/prompt"
	"github.com/dmzDAWG/workspaces/internal/ui/styles"
	"github.com/dmzDAWG/workspaces/internal/workspace"
)

// isInteractive reports whether prompts and progress bars may be shown.
func isInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stderr.Fd())
}

// withProgress shows a progress bar fed by batch.Run while ctx is in use.
// The returned stop function must be called before printing results.
func withProgress(ctx context.Context, label string) (context.Context, func()) {
	l := log.FromContext(ctx)
	if l.IsQuiet() || l.IsVerbose() || !isInteractive() {
		return ctx, func() {}
	}
	bar := progress.New(os.Stderr, label)
	bar.Start()
	return batch.WithProgress(ctx, bar.Set), bar.Stop
}

// selectRepositories lists the registry, narrowed to names when given.
func selectRepositories(cfg config.Config, names []string) ([]registry.Repository, error) {
	repos, err := registry.ListRepositories(cfg.ReposPath())
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return repos, nil
	}
	selected, err := registry.Select(repos, names)
	if err != nil {
		return nil, usageError{err}
	}
	return selected, nil
}

// matchMode controls how a typed workspace name is matched.
type matchMode int

const (
	// matchFuzzy takes a unique fuzzy hit; for commands that only read or
	// navigate.
	matchFuzzy matchMode = iota
	// matchExact never picks a workspace the user did not name. Anything
	// else is not found, or offered in a prompt on a terminal.
	matchExact
)

var errNameRequired = errors.New("workspace name required outside a workspace directory")

// resolveWorkspace turns what the user typed into a workspace.
//
// Nothing typed inside a workspace directory picks that workspace.
// Otherwise the name is matched exactly, then (matchFuzzy only) fuzzily,
// and a terminal prompt settles anything ambiguous. No match is
// ErrWorkspaceNotFound.
func resolveWorkspace(ctx context.Context, cfg config.Config, supplied string, mode matchMode) (workspace.Entry, error) {
	catalog := workspace.NewCatalog(cfg.WorkspacesPath())

	if supplied == "" {
		if name := currentWorkspace(cfg); name != "" {
			return catalog.Get(name)
		}
	}

	names, err := catalog.Names()
	if err != nil {
		return workspace.Entry{}, err
	}
	if h, err := history.Load(cfg.HistoryPath()); err == nil {
		names = h.Rank(names)
	}

	if mode == matchExact {
		return resolveExact(ctx, cfg, catalog, names, supplied)
	}

	d := choice.Resolve(choice.KindWorkspace, names, supplied)
	switch d.Outcome {
	case choice.Selected:
		if d.Value != supplied && supplied != "" {
			log.FromContext(ctx).Debug("fuzzy match", "supplied", supplied, "workspace", d.Value)
		}
		return catalog.Get(d.Value)
	case choice.NoMatch:
		return workspace.Entry{}, notFound(cfg, supplied)
	}

	if !isInteractive() {
		return workspace.Entry{}, usageError{d.Err()}
	}
	return promptWorkspace(catalog, d.Candidates)
}

func resolveExact(ctx context.Context, cfg config.Config, catalog *workspace.Catalog, names []string, supplied string) (workspace.Entry, error) {
	if supplied != "" && slices.Contains(names, supplied) {
		return catalog.Get(supplied)
	}
	if !isInteractive() {
		if supplied == "" {
			return workspace.Entry{}, usageError{errNameRequired}
		}
		return workspace.Entry{}, notFound(cfg, supplied)
	}

	d := choice.Resolve(choice.KindWorkspace, names, supplied)
	switch d.Outcome {
	case choice.NoMatch:
		return workspace.Entry{}, notFound(cfg, supplied)
	case choice.Selected:
		log.FromContext(ctx).Debug("confirming inexact match", "supplied", supplied, "workspace", d.Value)
		return promptWorkspace(catalog, []string{d.Value})
	}
	return promptWorkspace(catalog, d.Candidates)
}

func notFound(cfg config.Config, supplied string) error {
	if supplied == "" {
		return fmt.Errorf("%w: no workspaces in %s", workspace.ErrWorkspaceNotFound, cfg.WorkspacesPath())
	}
	return fmt.Errorf("%w: %s", workspace.ErrWorkspaceNotFound, supplied)
}

func promptWorkspace(catalog *workspace.Catalog, candidates []string) (workspace.Entry, error) {
	res, err := prompt.Select("Workspace", candidates)
	if err != nil {
		return workspace.Entry{}, err
	}
	if res.Cancelled {
		return workspace.Entry{}, errCancelled
	}
	return catalog.Get(res.Value)
}

var errCancelled = errors.New("cancelled")

// currentWorkspace returns the workspace containing the working directory.
func currentWorkspace(cfg config.Config) string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	base := cfg.WorkspacesPath()
	if resolved, err := filepath.EvalSymlinks(base); err == nil {
		base = resolved
	}
	if resolved, err := filepath.EvalSymlinks(cwd); err == nil {
		cwd = resolved
	}
	rel, err := filepath.Rel(base, cwd)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	name, _, _ := strings.Cut(rel, string(filepath.Separator))
	return name
}

// printLedger writes one line per repository to stderr, followed by its
// warnings and notes. Conflicts get the commands to continue or abort.
func printLedger(ctx context.Context, ledger workspace.Ledger) {
	l := log.FromContext(ctx)
	for _, o := range ledger {
		switch {
		case o.Failed():
			l.Printf("%s %v\n", styles.Mark(styles.MarkFailure), o.Err)
			var conflict *git.ConflictError
			if errors.As(o.Err, &conflict) {
				l.Printf("    resolve, then: %s\n", shellquote.Join(conflict.ContinueArgs()...))
				l.Printf("    or give up:    %s\n", shellquote.Join(conflict.AbortArgs()...))
			}
		case o.Status == workspace.StatusSkipped:
			l.Printf("%s %s: %s\n", styles.Mark(styles.MarkSkipped), o.Repo, o.Status)
		default:
			line := fmt.Sprintf("%s %s: %s", styles.Mark(styles.MarkSuccess), o.Repo, o.Status)
			if o.Branch != "" {
				line += " " + styles.MutedStyle.Render("("+o.Branch+")")
			}
			l.Println(line)
		}
		for _, w := range o.Warnings {
			l.Printf("%s %s: %s\n", styles.Mark(styles.MarkWarning), o.Repo, w)
		}
		for _, n := range o.Notes {
			l.Printf("  %s %s\n", styles.Mark(styles.MarkNote), n)
		}
	}
}

// allFailed turns a ledger in which nothing succeeded into an error.
func allFailed(op string, ledger workspace.Ledger) error {
	if len(ledger) == 0 || len(ledger.Failed()) != len(ledger) {
		return nil
	}
	return &batchError{op: op, repos: ledger.FailedRepos()}
}
