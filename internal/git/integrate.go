package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConflictError reports a rebase or merge that stopped on conflicts.
// The operation is left in progress in Dir for the user to resolve.
type ConflictError struct {
	Op    string // "rebase" or "merge"
	Dir   string
	Files []string
	Err   error
}

func (e *ConflictError) Error() string {
	if len(e.Files) == 0 {
		return fmt.Sprintf("%s stopped with conflicts", e.Op)
	}
	return fmt.Sprintf("%s stopped with conflicts in %s", e.Op, strings.Join(e.Files, ", "))
}

func (e *ConflictError) Unwrap() error { return e.Err }

// ContinueArgs returns the git invocation that resumes the operation.
func (e *ConflictError) ContinueArgs() []string {
	return []string{"git", "-C", e.Dir, e.Op, "--continue"}
}

// AbortArgs returns the git invocation that abandons the operation.
func (e *ConflictError) AbortArgs() []string {
	return []string{"git", "-C", e.Dir, e.Op, "--abort"}
}

// Rebase rebases the branch checked out at path onto upstream.
// On conflicts the rebase stays in progress and a *ConflictError is returned.
func Rebase(ctx context.Context, path, upstream string) error {
	err := runGit(ctx, path, "rebase", upstream)
	if err == nil {
		return nil
	}
	if inProgress(ctx, path, "rebase-merge") || inProgress(ctx, path, "rebase-apply") {
		return &ConflictError{Op: "rebase", Dir: path, Files: conflictedFiles(ctx, path), Err: err}
	}
	return fmt.Errorf("failed to rebase onto %s: %v", upstream, err)
}

// Merge merges ref into the branch checked out at path.
// On conflicts the merge stays in progress and a *ConflictError is returned.
func Merge(ctx context.Context, path, ref string) error {
	err := runGit(ctx, path, "merge", "--no-edit", ref)
	if err == nil {
		return nil
	}
	if inProgress(ctx, path, "MERGE_HEAD") {
		return &ConflictError{Op: "merge", Dir: path, Files: conflictedFiles(ctx, path), Err: err}
	}
	return fmt.Errorf("failed to merge %s: %v", ref, err)
}

// inProgress reports whether the per-worktree git path name exists.
func inProgress(ctx context.Context, path, name string) bool {
	output, err := outputGit(ctx, path, "rev-parse", "--git-path", name)
	if err != nil {
		return false
	}
	p := strings.TrimSpace(string(output))
	if !filepath.IsAbs(p) {
		p = filepath.Join(path, p)
	}
	_, err = os.Stat(p)
	return err == nil
}

// conflictedFiles lists paths with unresolved conflicts.
func conflictedFiles(ctx context.Context, path string) []string {
	output, err := outputGit(ctx, path, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil
	}
	var files []string
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if line != "" {
			files = append(files, line)
		}
	}
	return files
}
