package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmzDAWG/workspaces/internal/batch"
	"github.com/dmzDAWG/workspaces/internal/config"
	"github.com/dmzDAWG/workspaces/internal/ecosystem"
	"github.com/dmzDAWG/workspaces/internal/git"
	"github.com/dmzDAWG/workspaces/internal/log"
	"github.com/dmzDAWG/workspaces/internal/preflight"
	"github.com/dmzDAWG/workspaces/internal/preserve"
	"github.com/dmzDAWG/workspaces/internal/registry"
)

// ErrNoRepositories is returned when there is nothing to build a workspace from.
var ErrNoRepositories = errors.New("no repositories")

// Orchestrator creates the worktrees of a workspace.
type Orchestrator struct {
	cfg config.Config

	// Push publishes new branches with upstream tracking.
	Push bool

	// Preflight checks the repositories before anything is created.
	Preflight func(ctx context.Context, repos []registry.Repository) []preflight.Result

	// Preserve selects ignored files copied from the source repository
	// into every new worktree.
	Preserve preserve.Rules

	// DeriveMetadata runs in every new worktree; failures only warn.
	DeriveMetadata func(dir string) (ecosystem.Result, error)
}

// NewOrchestrator returns an Orchestrator using cfg's defaults.
func NewOrchestrator(cfg config.Config) *Orchestrator {
	return &Orchestrator{
		cfg:  cfg,
		Push: cfg.Create.Push,
		Preflight: func(ctx context.Context, repos []registry.Repository) []preflight.Result {
			return preflight.Validate(ctx, repos, cfg.Parallel)
		},
		Preserve: preserve.Rules{
			Patterns: cfg.Create.Preserve,
			Exclude:  cfg.Create.PreserveExclude,
		},
		DeriveMetadata: ecosystem.DeriveJavaVersion,
	}
}

// Create adds a worktree for every repository on the workspace branch.
//
// All repositories must pass preflight first; otherwise a
// *preflight.ValidationError is returned and nothing is created. After the
// gate, each repository succeeds or fails on its own and the returned Ledger
// records every outcome.
func (o *Orchestrator) Create(ctx context.Context, ws Workspace, repos []registry.Repository) (Ledger, error) {
	if len(repos) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoRepositories, o.cfg.ReposPath())
	}

	if err := preflight.Err(o.Preflight(ctx, repos)); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(ws.Root, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace directory: %w", err)
	}

	ledger := Ledger(batch.Run(ctx, o.cfg.Parallel, repos, func(ctx context.Context, repo registry.Repository) Outcome {
		return o.CreateWorktree(ctx, ws, repo)
	}))

	if !ledger.AnySucceeded() {
		// Only succeeds while the directory is still empty.
		_ = os.Remove(ws.Root)
	}
	return ledger, nil
}

// CreateWorktree adds the worktree for one repository.
// An existing worktree at the target path counts as success.
func (o *Orchestrator) CreateWorktree(ctx context.Context, ws Workspace, repo registry.Repository) Outcome {
	l := log.FromContext(ctx)
	out := Outcome{Instance: Instance{Repo: repo.Name, Branch: ws.Branch, State: StateAbsent}}

	target, err := ws.RepoPath(repo.Name)
	if err != nil {
		return out.fail("resolve path", err)
	}
	out.Path = target

	if _, err := os.Stat(target); err == nil {
		if !git.IsWorktree(target) {
			return out.fail("worktree add", fmt.Errorf("%s exists and is not a worktree", target))
		}
		if b, err := git.HeadBranch(target); err == nil && b != "" {
			out.Branch = b
		}
		out.State = StateCreated
		out.Status = StatusExisting
		out.Tracked = git.GetUpstreamBranch(ctx, repo.Path, out.Branch) != ""
		return out
	}

	trunk := trunkFor(ctx, o.cfg, repo.Path)
	l.Debug("creating worktree", "repo", repo.Name, "branch", ws.Branch, "trunk", trunk)

	current, err := git.GetCurrentBranch(ctx, repo.Path)
	if err != nil {
		return out.fail("checkout trunk", err)
	}
	if current != trunk {
		if err := git.Checkout(ctx, repo.Path, trunk); err != nil {
			return out.fail("checkout trunk", err)
		}
	}

	if err := git.PullFFOnly(ctx, repo.Path, o.cfg.Remote, trunk); err != nil {
		out.warn("pull", err)
	}

	if git.BranchExists(ctx, repo.Path, ws.Branch) {
		if err := git.AddWorktreeForBranch(ctx, repo.Path, target, ws.Branch); err != nil {
			return out.fail("worktree add", err)
		}
		out.note("attached existing branch " + ws.Branch)
	} else if err := git.AddWorktree(ctx, repo.Path, target, ws.Branch, trunk); err != nil {
		return out.fail("worktree add", err)
	}
	out.State = StateCreated
	out.Status = StatusCreated

	if o.Push {
		if err := git.PushSetUpstream(ctx, target, o.cfg.Remote, ws.Branch); err != nil {
			out.warn("push", err)
		} else {
			out.Tracked = true
		}
	}

	o.preserveFiles(ctx, repo.Path, &out)
	o.deriveMetadata(&out)
	return out
}

// Attach builds a workspace around an existing branch. Repositories that
// have the branch neither locally nor on the remote are skipped.
// Nothing in the source repositories is checked out, so no preflight runs.
func (o *Orchestrator) Attach(ctx context.Context, ws Workspace, repos []registry.Repository) (Ledger, error) {
	if len(repos) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoRepositories, o.cfg.ReposPath())
	}
	if err := os.MkdirAll(ws.Root, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace directory: %w", err)
	}

	ledger := Ledger(batch.Run(ctx, o.cfg.Parallel, repos, func(ctx context.Context, repo registry.Repository) Outcome {
		return o.attachWorktree(ctx, ws, repo)
	}))

	if !ledger.AnySucceeded() {
		_ = os.Remove(ws.Root)
	}
	return ledger, nil
}

func (o *Orchestrator) attachWorktree(ctx context.Context, ws Workspace, repo registry.Repository) Outcome {
	out := Outcome{Instance: Instance{Repo: repo.Name, Branch: ws.Branch, State: StateAbsent}}

	target, err := ws.RepoPath(repo.Name)
	if err != nil {
		return out.fail("resolve path", err)
	}
	out.Path = target

	if _, err := os.Stat(target); err == nil {
		if !git.IsWorktree(target) {
			return out.fail("worktree add", fmt.Errorf("%s exists and is not a worktree", target))
		}
		out.State = StateCreated
		out.Status = StatusExisting
		return out
	}

	switch {
	case git.BranchExists(ctx, repo.Path, ws.Branch):
		if err := git.AddWorktreeForBranch(ctx, repo.Path, target, ws.Branch); err != nil {
			return out.fail("worktree add", err)
		}
		out.Tracked = git.GetUpstreamBranch(ctx, repo.Path, ws.Branch) != ""

	default:
		exists, err := git.RemoteBranchExists(ctx, repo.Path, o.cfg.Remote, ws.Branch)
		if err != nil {
			return out.fail("ls-remote", err)
		}
		if !exists {
			out.Status = StatusSkipped
			out.note("branch " + ws.Branch + " not found")
			return out
		}
		if err := git.FetchBranch(ctx, repo.Path, o.cfg.Remote, ws.Branch); err != nil {
			return out.fail("fetch", err)
		}
		if err := git.AddWorktreeTracking(ctx, repo.Path, target, ws.Branch, o.cfg.Remote+"/"+ws.Branch); err != nil {
			return out.fail("worktree add", err)
		}
		out.Tracked = true
	}

	out.State = StateCreated
	out.Status = StatusCreated
	o.preserveFiles(ctx, repo.Path, &out)
	o.deriveMetadata(&out)
	return out
}

func (o *Orchestrator) preserveFiles(ctx context.Context, source string, out *Outcome) {
	copied, err := preserve.Copy(ctx, o.Preserve, source, out.Path)
	if err != nil {
		out.warn("preserve", err)
		return
	}
	switch len(copied) {
	case 0:
	case 1:
		out.note("copied " + copied[0])
	default:
		out.note(fmt.Sprintf("copied %d ignored files", len(copied)))
	}
}

func (o *Orchestrator) deriveMetadata(out *Outcome) {
	if o.DeriveMetadata == nil {
		return
	}
	res, err := o.DeriveMetadata(out.Path)
	if err != nil {
		out.warn("java-version", err)
		return
	}
	if res.Outcome == ecosystem.Written {
		out.note(fmt.Sprintf("wrote %s (%s from %s)", ecosystem.JavaVersionFile, res.Version, res.Source))
	}
}
