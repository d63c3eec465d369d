package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dmzDAWG/workspaces/internal/batch"
	"github.com/dmzDAWG/workspaces/internal/branch"
	"github.com/dmzDAWG/workspaces/internal/config"
	"github.com/dmzDAWG/workspaces/internal/git"
	"github.com/dmzDAWG/workspaces/internal/log"
	"github.com/dmzDAWG/workspaces/internal/registry"
)

// RemoveOptions selects which branches are deleted along with the worktrees.
type RemoveOptions struct {
	DeleteLocal  bool
	DeleteRemote bool
}

// RemoveReport describes a completed removal.
type RemoveReport struct {
	Workspace string
	Root      string
	Ledger    Ledger
	Relocated bool // the working directory was inside the workspace and moved to the root dir
}

// Remover tears workspaces down.
type Remover struct {
	cfg      config.Config
	catalog  *Catalog
	resolver *branch.Resolver
}

// NewRemover returns a Remover for cfg's workspaces.
func NewRemover(cfg config.Config) *Remover {
	return &Remover{
		cfg:      cfg,
		catalog:  NewCatalog(cfg.WorkspacesPath()),
		resolver: branch.NewResolver(),
	}
}

// Remove deletes every worktree of the named workspace, optionally along
// with its branches, then deletes the workspace directory and prunes the
// worktree metadata of every source repository it touched.
//
// Per-repository failures are recorded in the report's Ledger. The returned
// error is non-nil only when the workspace does not exist
// (ErrWorkspaceNotFound) or its directory could not be deleted.
func (r *Remover) Remove(ctx context.Context, name string, opts RemoveOptions) (RemoveReport, error) {
	entry, err := r.catalog.Get(name)
	if err != nil {
		return RemoveReport{}, err
	}
	report := RemoveReport{Workspace: entry.Name, Root: entry.Path}

	var (
		mu      sync.Mutex
		touched = map[string]struct{}{}
	)
	repos := r.sources()

	report.Ledger = Ledger(batch.Run(ctx, r.cfg.Parallel, entry.Repos, func(ctx context.Context, repo string) Outcome {
		out, source := r.removeRepo(ctx, entry, repo, repos, opts)
		if source != "" {
			mu.Lock()
			touched[source] = struct{}{}
			mu.Unlock()
		}
		return out
	}))

	relocated, err := r.leave(entry.Path)
	if err != nil {
		return report, err
	}
	report.Relocated = relocated

	if err := os.RemoveAll(entry.Path); err != nil {
		return report, fmt.Errorf("remove workspace directory: %w", err)
	}

	l := log.FromContext(ctx)
	for source := range touched {
		if err := git.PruneWorktrees(ctx, source); err != nil {
			l.Debug("prune failed", "repo", source, "err", err)
		}
	}
	return report, nil
}

// sources lists the registry lazily; it is only a fallback for worktrees
// whose .git file no longer points anywhere.
func (r *Remover) sources() func() []registry.Repository {
	var (
		once  sync.Once
		repos []registry.Repository
	)
	return func() []registry.Repository {
		once.Do(func() {
			repos, _ = registry.ListRepositories(r.cfg.ReposPath())
		})
		return repos
	}
}

func (r *Remover) removeRepo(ctx context.Context, entry Entry, repo string, repos func() []registry.Repository, opts RemoveOptions) (Outcome, string) {
	l := log.FromContext(ctx)
	path := entry.RepoPath(repo)
	out := Outcome{Instance: Instance{Repo: repo, Path: path, State: StateCreated}}

	source, err := git.GetMainRepoPath(path)
	if err != nil {
		if found, ok := registry.Find(repos(), repo); ok {
			l.Debug("falling back to registry", "repo", repo, "err", err)
			source = found.Path
		} else {
			return out.fail("locate repository", err), ""
		}
	}

	res := r.resolver.Resolve(ctx, source, path)
	out.Branch = res.Branch
	l.Debug("resolved branch", "repo", repo, "branch", res.Branch, "method", res.Method)

	if err := git.RemoveWorktree(ctx, source, path, false); err != nil {
		l.Debug("worktree remove failed, forcing", "repo", repo, "err", err)
		if err := git.RemoveWorktree(ctx, source, path, true); err != nil {
			return out.fail("worktree remove", err), source
		}
		out.note("forced removal")
	}
	out.State = StateRemoved
	out.Status = StatusRemoved

	if !opts.DeleteLocal && !opts.DeleteRemote {
		return out, source
	}
	if !res.Resolved() {
		out.warn("branch", fmt.Errorf("could not determine branch of %s, branches kept", path))
		return out, source
	}

	if opts.DeleteLocal {
		if err := r.deleteLocal(ctx, &out, source); err != nil {
			return out.fail("branch delete", err), source
		}
	}
	if opts.DeleteRemote {
		r.deleteRemote(ctx, &out, source)
	}
	return out, source
}

func (r *Remover) deleteLocal(ctx context.Context, out *Outcome, source string) error {
	if !git.BranchExists(ctx, source, out.Branch) {
		out.note("local branch " + out.Branch + " already gone")
		return nil
	}

	trunk := trunkFor(ctx, r.cfg, source)
	if merged, err := git.IsBranchMerged(ctx, source, out.Branch, trunk); err == nil {
		if merged {
			out.note(out.Branch + " is merged into " + trunk)
		} else {
			out.note(out.Branch + " is not merged into " + trunk)
		}
	}

	if err := git.DeleteLocalBranch(ctx, source, out.Branch, false); err != nil {
		log.FromContext(ctx).Debug("safe delete refused, forcing", "repo", out.Repo, "err", err)
		return git.DeleteLocalBranch(ctx, source, out.Branch, true)
	}
	return nil
}

func (r *Remover) deleteRemote(ctx context.Context, out *Outcome, source string) {
	exists, err := git.RemoteBranchExists(ctx, source, r.cfg.Remote, out.Branch)
	if err != nil {
		out.warn("remote branch delete", err)
		return
	}
	if !exists {
		out.note("remote branch " + out.Branch + " not found")
		return
	}
	if err := git.DeleteRemoteBranch(ctx, source, r.cfg.Remote, out.Branch); err != nil {
		out.warn("remote branch delete", err)
	}
}

// leave moves the process out of dir when the working directory is inside it.
func (r *Remover) leave(dir string) (bool, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return false, nil
	}
	if !within(cwd, dir) {
		return false, nil
	}
	if err := os.Chdir(r.cfg.Root); err != nil {
		return false, fmt.Errorf("leave workspace directory: %w", err)
	}
	return true, nil
}

func within(path, dir string) bool {
	if p, err := filepath.EvalSymlinks(path); err == nil {
		path = p
	}
	if d, err := filepath.EvalSymlinks(dir); err == nil {
		dir = d
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
