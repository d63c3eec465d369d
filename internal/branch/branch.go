// Package branch resolves which branch a worktree is on.
//
// Resolution walks an ordered list of strategies and returns the first
// non-empty answer together with the strategy that produced it:
//
//  1. registry: the source repository's "git worktree list --porcelain"
//  2. head: the worktree's HEAD, read with go-git
//  3. headfile: the raw HEAD file in the worktree's git directory
//
// When every strategy comes up empty the result is MethodUnresolved and
// callers skip branch-dependent steps.
package branch

import (
	"context"
	"path/filepath"

	"github.com/dmzDAWG/workspaces/internal/git"
	"github.com/dmzDAWG/workspaces/internal/log"
)

// Method names the strategy that produced a Resolution.
type Method string

const (
	MethodRegistry   Method = "registry"
	MethodHead       Method = "head"
	MethodHeadFile   Method = "headfile"
	MethodUnresolved Method = "unresolved"
)

// Resolution is the outcome of resolving a worktree's branch.
type Resolution struct {
	Branch string
	Method Method
}

// Resolved reports whether a branch was found.
func (r Resolution) Resolved() bool {
	return r.Method != MethodUnresolved && r.Branch != ""
}

// Strategy is one source of branch information.
// Lookup returns "" (and optionally an error) when it has no answer.
type Strategy struct {
	Method Method
	Lookup func(ctx context.Context, repoPath, worktreePath string) (string, error)
}

// Resolver tries its strategies in order.
type Resolver struct {
	Strategies []Strategy
}

// NewResolver returns a Resolver with the registry, head and headfile strategies.
func NewResolver() *Resolver {
	return &Resolver{Strategies: []Strategy{
		{Method: MethodRegistry, Lookup: fromRegistry},
		{Method: MethodHead, Lookup: fromHead},
		{Method: MethodHeadFile, Lookup: fromHeadFile},
	}}
}

// Resolve returns the branch checked out at worktreePath.
// repoPath is the source repository the worktree belongs to; it may be
// empty when unknown, in which case the registry strategy yields nothing.
func (r *Resolver) Resolve(ctx context.Context, repoPath, worktreePath string) Resolution {
	l := log.FromContext(ctx)
	for _, s := range r.Strategies {
		b, err := s.Lookup(ctx, repoPath, worktreePath)
		if err != nil {
			l.Debug("branch lookup failed", "method", s.Method, "path", worktreePath, "err", err)
			continue
		}
		if b != "" {
			return Resolution{Branch: b, Method: s.Method}
		}
	}
	return Resolution{Method: MethodUnresolved}
}

func fromRegistry(ctx context.Context, repoPath, worktreePath string) (string, error) {
	if repoPath == "" {
		return "", nil
	}
	wts, err := git.ListWorktreesFromRepo(ctx, repoPath)
	if err != nil {
		return "", err
	}
	want := normalize(worktreePath)
	for _, wt := range wts {
		if normalize(wt.Path) != want {
			continue
		}
		if wt.Branch == git.DetachedHead {
			return "", nil
		}
		return wt.Branch, nil
	}
	return "", nil
}

func fromHead(_ context.Context, _, worktreePath string) (string, error) {
	return git.HeadBranch(worktreePath)
}

func fromHeadFile(_ context.Context, _, worktreePath string) (string, error) {
	return git.ReadHeadRef(worktreePath)
}

// normalize resolves symlinks so /tmp and /private/tmp compare equal on macOS.
func normalize(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return filepath.Clean(path)
}
