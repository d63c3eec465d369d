package workspace

import (
	"errors"
	"fmt"
)

var (
	// ErrWorkspaceNotFound is returned when the workspace directory does not exist.
	ErrWorkspaceNotFound = errors.New("workspace not found")

	// ErrInvalidStrategy is returned by Sync for a strategy other than merge or rebase.
	ErrInvalidStrategy = errors.New("invalid sync strategy")

	// ErrInvalidName is returned for workspace names that cannot be sanitized.
	ErrInvalidName = errors.New("invalid workspace name")
)

// RepoError is a failure scoped to one repository of a batch.
type RepoError struct {
	Repo string
	Op   string // e.g. "checkout trunk", "worktree add", "rebase"
	Err  error
}

func (e *RepoError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Repo, e.Op, e.Err)
}

func (e *RepoError) Unwrap() error { return e.Err }

// Warning is a non-fatal problem; execution continued.
type Warning struct {
	Op  string
	Err error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %v", w.Op, w.Err)
}
