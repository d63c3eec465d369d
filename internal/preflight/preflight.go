// Package preflight gates batch operations on repository cleanliness.
//
// Every repository is checked before anything is mutated. Callers treat the
// outcome as all-or-nothing: a single failure aborts the whole operation.
package preflight

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmzDAWG/workspaces/internal/batch"
	"github.com/dmzDAWG/workspaces/internal/git"
	"github.com/dmzDAWG/workspaces/internal/log"
	"github.com/dmzDAWG/workspaces/internal/registry"
)

// ErrUncommittedChanges is the failure reason for a dirty repository.
var ErrUncommittedChanges = errors.New("uncommitted changes")

// Result is the cleanliness check outcome for one repository.
type Result struct {
	Repo   registry.Repository
	Passed bool
	Err    error // why the check failed; nil when Passed
}

// ValidationError lists every repository that failed preflight.
type ValidationError struct {
	Failed []Result
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Failed))
	for i, r := range e.Failed {
		parts[i] = fmt.Sprintf("%s (%v)", r.Repo.Name, r.Err)
	}
	noun := "repository"
	if len(e.Failed) != 1 {
		noun = "repositories"
	}
	return fmt.Sprintf("preflight failed for %d %s: %s", len(e.Failed), noun, strings.Join(parts, ", "))
}

// Repos returns the names of the failing repositories.
func (e *ValidationError) Repos() []string {
	names := make([]string, len(e.Failed))
	for i, r := range e.Failed {
		names[i] = r.Repo.Name
	}
	return names
}

// Validate checks every repository, at most parallel at a time, and returns
// one result per repository in input order.
// A repository fails if it has uncommitted changes or its status cannot be read.
func Validate(ctx context.Context, repos []registry.Repository, parallel int) []Result {
	return batch.Run(ctx, parallel, repos, check)
}

func check(ctx context.Context, repo registry.Repository) Result {
	dirty, err := git.IsDirty(ctx, repo.Path)
	switch {
	case err != nil:
		log.FromContext(ctx).Debug("preflight status failed", "repo", repo.Name, "err", err)
		return Result{Repo: repo, Err: err}
	case dirty:
		return Result{Repo: repo, Err: ErrUncommittedChanges}
	default:
		return Result{Repo: repo, Passed: true}
	}
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// Err returns a *ValidationError if any result failed, nil otherwise.
func Err(results []Result) error {
	failed := Failed(results)
	if len(failed) == 0 {
		return nil
	}
	return &ValidationError{Failed: failed}
}
