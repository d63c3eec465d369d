package workspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmzDAWG/workspaces/internal/batch"
	"github.com/dmzDAWG/workspaces/internal/config"
	"github.com/dmzDAWG/workspaces/internal/git"
	"github.com/dmzDAWG/workspaces/internal/log"
	"github.com/dmzDAWG/workspaces/internal/preflight"
)

// Syncer brings every worktree of a workspace up to date with trunk.
type Syncer struct {
	cfg     config.Config
	catalog *Catalog
}

// NewSyncer returns a Syncer for cfg's workspaces.
func NewSyncer(cfg config.Config) *Syncer {
	return &Syncer{cfg: cfg, catalog: NewCatalog(cfg.WorkspacesPath())}
}

// Sync fetches trunk and rebases onto it (or merges it) in every worktree of
// the named workspace, pushing afterwards when push is set.
//
// strategy must be config.StrategyRebase or config.StrategyMerge; anything
// else returns ErrInvalidStrategy before any work is done. Conflicts leave the
// rebase or merge in progress and fail that repository with a
// *git.ConflictError. The batch succeeded only if Ledger.AllSucceeded.
func (s *Syncer) Sync(ctx context.Context, name, strategy string, push bool) (Ledger, error) {
	if err := config.ValidateStrategy(strategy); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStrategy, err)
	}

	entry, err := s.catalog.Get(name)
	if err != nil {
		return nil, err
	}

	return Ledger(batch.Run(ctx, s.cfg.Parallel, entry.Repos, func(ctx context.Context, repo string) Outcome {
		return s.syncRepo(ctx, entry, repo, strategy, push)
	})), nil
}

func (s *Syncer) syncRepo(ctx context.Context, entry Entry, repo, strategy string, push bool) Outcome {
	l := log.FromContext(ctx)
	path := entry.RepoPath(repo)
	out := Outcome{Instance: Instance{Repo: repo, Path: path, State: StateCreated}}

	// Untracked files such as a derived .java-version do not block a rebase.
	dirty, err := git.HasTrackedChanges(ctx, path)
	if err != nil {
		return out.fail("status", err)
	}
	if dirty {
		return out.fail("status", preflight.ErrUncommittedChanges)
	}

	branch, err := git.GetCurrentBranch(ctx, path)
	if err != nil {
		return out.fail("branch", err)
	}
	if branch == git.DetachedHead {
		return out.fail("branch", errors.New("HEAD is detached"))
	}
	out.Branch = branch

	source, err := git.GetMainRepoPath(path)
	if err != nil {
		return out.fail("locate repository", err)
	}
	trunk := trunkFor(ctx, s.cfg, source)
	upstream := s.cfg.Remote + "/" + trunk

	if err := git.FetchBranch(ctx, path, s.cfg.Remote, trunk); err != nil {
		return out.fail("fetch", err)
	}

	if err := refreshTrunk(ctx, source, s.cfg.Remote, trunk); err != nil {
		l.Debug("trunk refresh skipped", "repo", repo, "err", err)
	}

	_, behind, err := git.AheadBehind(ctx, path, upstream)
	switch {
	case err != nil:
		return out.fail(strategy, err)
	case behind == 0:
		out.note("already up to date with " + upstream)
	case strategy == config.StrategyRebase:
		if err := git.Rebase(ctx, path, upstream); err != nil {
			return out.fail(strategy, err)
		}
	default:
		if err := git.Merge(ctx, path, upstream); err != nil {
			return out.fail(strategy, err)
		}
	}
	out.Status = StatusSynced

	if push {
		var err error
		if strategy == config.StrategyRebase {
			err = git.PushForceWithLease(ctx, path, s.cfg.Remote, branch)
		} else {
			err = git.Push(ctx, path, s.cfg.Remote, branch)
		}
		if err != nil {
			out.warn("push", err)
		} else {
			out.Tracked = true
		}
	}
	return out
}

// refreshTrunk fast-forwards the source repository's own trunk.
// It pulls when trunk is checked out and clean, otherwise updates the ref in place.
func refreshTrunk(ctx context.Context, source, remote, trunk string) error {
	current, err := git.GetCurrentBranch(ctx, source)
	if err != nil {
		return err
	}
	if current != trunk {
		return git.FetchIntoLocal(ctx, source, remote, trunk)
	}
	dirty, err := git.IsDirty(ctx, source)
	if err != nil {
		return err
	}
	if dirty {
		return errors.New("source checkout has uncommitted changes")
	}
	return git.PullFFOnly(ctx, source, remote, trunk)
}
