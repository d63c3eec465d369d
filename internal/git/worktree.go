package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WorktreeInfo contains basic worktree information from git worktree list.
type WorktreeInfo struct {
	Path       string
	Branch     string
	CommitHash string // Full hash from git, caller can truncate
}

// AddWorktree creates a worktree at path on a new branch started from base.
func AddWorktree(ctx context.Context, repoPath, path, branch, base string) error {
	if err := runGit(ctx, repoPath, "worktree", "add", "-b", branch, path, base); err != nil {
		return fmt.Errorf("failed to create worktree: %v", err)
	}
	return nil
}

// AddWorktreeForBranch creates a worktree at path for an existing local branch.
func AddWorktreeForBranch(ctx context.Context, repoPath, path, branch string) error {
	if err := runGit(ctx, repoPath, "worktree", "add", path, branch); err != nil {
		return fmt.Errorf("failed to create worktree: %v", err)
	}
	return nil
}

// RemoveWorktree removes the worktree at path from repoPath.
// force discards local modifications and untracked files.
func RemoveWorktree(ctx context.Context, repoPath, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)
	if err := runGit(ctx, repoPath, args...); err != nil {
		return fmt.Errorf("failed to remove worktree: %v", err)
	}
	return nil
}

// PruneWorktrees removes stale worktree administrative entries.
func PruneWorktrees(ctx context.Context, repoPath string) error {
	if err := runGit(ctx, repoPath, "worktree", "prune"); err != nil {
		return fmt.Errorf("failed to prune worktrees: %v", err)
	}
	return nil
}

// ListWorktreesFromRepo returns all worktrees for a repository using git worktree list --porcelain.
func ListWorktreesFromRepo(ctx context.Context, repoPath string) ([]WorktreeInfo, error) {
	output, err := outputGit(ctx, repoPath, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("failed to list worktrees: %v", err)
	}

	var worktrees []WorktreeInfo
	var current WorktreeInfo

	for _, line := range strings.Split(string(output), "\n") {
		switch {
		case strings.HasPrefix(line, "worktree "):
			// Start of new worktree entry
			if current.Path != "" {
				worktrees = append(worktrees, current)
			}
			current = WorktreeInfo{Path: strings.TrimPrefix(line, "worktree ")}
		case strings.HasPrefix(line, "HEAD "):
			current.CommitHash = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch refs/heads/"):
			current.Branch = strings.TrimPrefix(line, "branch refs/heads/")
		case line == "detached":
			current.Branch = DetachedHead
		}
	}

	// Don't forget the last entry
	if current.Path != "" {
		worktrees = append(worktrees, current)
	}

	return worktrees, nil
}

// FindWorktreeForBranch returns the path of the worktree that has branch
// checked out, or "" if none does.
func FindWorktreeForBranch(ctx context.Context, repoPath, branch string) (string, error) {
	wts, err := ListWorktreesFromRepo(ctx, repoPath)
	if err != nil {
		return "", err
	}
	for _, wt := range wts {
		if wt.Branch == branch {
			return wt.Path, nil
		}
	}
	return "", nil
}

// IsWorktree returns true if path is a linked worktree (has a .git file, not directory).
func IsWorktree(path string) bool {
	info, err := os.Stat(filepath.Join(path, ".git"))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// AddWorktreeTracking creates a worktree at path on a new local branch that
// tracks remoteRef (e.g. "origin/feature/x").
func AddWorktreeTracking(ctx context.Context, repoPath, path, branch, remoteRef string) error {
	if err := runGit(ctx, repoPath, "worktree", "add", "--track", "-b", branch, path, remoteRef); err != nil {
		return fmt.Errorf("failed to create worktree: %v", err)
	}
	return nil
}
