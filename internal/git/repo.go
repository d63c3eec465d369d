package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DetachedHead is reported by GetCurrentBranch when HEAD is not on a branch.
const DetachedHead = "(detached)"

// GetDefaultBranch returns the default branch name for the remote (e.g., "main" or "master")
func GetDefaultBranch(ctx context.Context, repoPath, remote string) string {
	// Try to get default branch from remote HEAD
	output, err := outputGit(ctx, repoPath, "symbolic-ref", "refs/remotes/"+remote+"/HEAD")
	if err == nil {
		// Output is like "refs/remotes/origin/main"
		ref := strings.TrimSpace(string(output))
		if b, ok := strings.CutPrefix(ref, "refs/remotes/"+remote+"/"); ok && b != "" {
			return b
		}
	}

	for _, candidate := range []string{"main", "master"} {
		if runGit(ctx, repoPath, "rev-parse", "--verify", "--quiet", remote+"/"+candidate) == nil {
			return candidate
		}
	}

	// No remote-tracking refs (fresh clone of an empty remote, or no remote at all)
	for _, candidate := range []string{"main", "master"} {
		if BranchExists(ctx, repoPath, candidate) {
			return candidate
		}
	}

	// Last resort default
	return "main"
}

// GetCurrentBranch returns the current branch name
// Returns DetachedHead for detached HEAD state
func GetCurrentBranch(ctx context.Context, path string) (string, error) {
	output, err := outputGit(ctx, path, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("failed to get branch: %v", err)
	}
	branch := strings.TrimSpace(string(output))
	if branch == "" {
		return DetachedHead, nil
	}
	return branch, nil
}

// IsDirty reports whether the worktree has uncommitted changes or untracked files.
// An error means the status could not be determined.
func IsDirty(ctx context.Context, path string) (bool, error) {
	output, err := outputGit(ctx, path, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("failed to get status: %v", err)
	}
	return strings.TrimSpace(string(output)) != "", nil
}

// HasTrackedChanges reports modified or staged tracked files, ignoring
// untracked ones.
func HasTrackedChanges(ctx context.Context, path string) (bool, error) {
	output, err := outputGit(ctx, path, "status", "--porcelain", "--untracked-files=no")
	if err != nil {
		return false, fmt.Errorf("failed to get status: %v", err)
	}
	return strings.TrimSpace(string(output)) != "", nil
}

// Checkout switches the repository at repoPath to branch.
func Checkout(ctx context.Context, repoPath, branch string) error {
	if err := runGit(ctx, repoPath, "checkout", branch); err != nil {
		return fmt.Errorf("failed to checkout %s: %v", branch, err)
	}
	return nil
}

// PullFFOnly fast-forwards the current branch from remote/branch.
func PullFFOnly(ctx context.Context, repoPath, remote, branch string) error {
	if err := runGit(ctx, repoPath, "pull", "--ff-only", remote, branch); err != nil {
		return fmt.Errorf("failed to pull %s/%s: %v", remote, branch, err)
	}
	return nil
}

// FetchBranch fetches a specific branch from remote
func FetchBranch(ctx context.Context, repoPath, remote, branch string) error {
	if err := runGit(ctx, repoPath, "fetch", remote, branch, "--quiet"); err != nil {
		return fmt.Errorf("failed to fetch %s/%s: %v", remote, branch, err)
	}
	return nil
}

// FetchIntoLocal fast-forwards the local branch from remote/branch without
// checking it out. Fails if the branch is checked out in repoPath.
func FetchIntoLocal(ctx context.Context, repoPath, remote, branch string) error {
	if err := runGit(ctx, repoPath, "fetch", remote, branch+":"+branch, "--quiet"); err != nil {
		return fmt.Errorf("failed to update %s from %s: %v", branch, remote, err)
	}
	return nil
}

// BranchExists checks if a local branch exists in the repository at repoPath
func BranchExists(ctx context.Context, repoPath, branch string) bool {
	return runGit(ctx, repoPath, "rev-parse", "--verify", "--quiet", "refs/heads/"+branch) == nil
}

// IsBranchMerged checks if branch is merged into the given ref (e.g. "origin/main")
func IsBranchMerged(ctx context.Context, repoPath, branch, into string) (bool, error) {
	output, err := outputGit(ctx, repoPath, "branch", "--merged", into)
	if err != nil {
		return false, fmt.Errorf("failed to check merge status: %v", err)
	}

	for _, line := range strings.Split(string(output), "\n") {
		trimmed := strings.TrimSpace(line)
		// Handle "branch", "* branch" (current), and "+ branch" (in worktree) formats
		trimmed = strings.TrimPrefix(trimmed, "* ")
		trimmed = strings.TrimPrefix(trimmed, "+ ")
		if trimmed == branch {
			return true, nil
		}
	}
	return false, nil
}

// DeleteLocalBranch deletes a local branch
func DeleteLocalBranch(ctx context.Context, repoPath, branch string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	if err := runGit(ctx, repoPath, "branch", flag, branch); err != nil {
		return fmt.Errorf("failed to delete branch: %v", err)
	}
	return nil
}

// GetUpstreamBranch returns the remote branch name for a local branch.
// Returns empty string if no upstream is configured.
func GetUpstreamBranch(ctx context.Context, repoPath, branch string) string {
	output, err := outputGit(ctx, repoPath, "config", fmt.Sprintf("branch.%s.merge", branch))
	if err != nil {
		return ""
	}
	// Output is like "refs/heads/feature-branch"
	ref := strings.TrimSpace(string(output))
	return strings.TrimPrefix(ref, "refs/heads/")
}

// AheadBehind returns how many commits HEAD at path is ahead of and behind base.
func AheadBehind(ctx context.Context, path, base string) (ahead, behind int, err error) {
	output, err := outputGit(ctx, path, "rev-list", "--left-right", "--count", "HEAD..."+base)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count commits: %v", err)
	}
	if _, err := fmt.Sscanf(strings.TrimSpace(string(output)), "%d %d", &ahead, &behind); err != nil {
		return 0, 0, fmt.Errorf("failed to parse commit counts: %w", err)
	}
	return ahead, behind, nil
}

// GetLastCommitRelative returns relative time of last commit
func GetLastCommitRelative(ctx context.Context, path string) (string, error) {
	output, err := outputGit(ctx, path, "log", "-1", "--format=%cr")
	if err != nil {
		return "", fmt.Errorf("failed to get last commit: %v", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// GetMainRepoPath returns the main repository for a worktree by following its
// .git file. For a main repository it returns path itself.
func GetMainRepoPath(path string) (string, error) {
	info, err := os.Stat(filepath.Join(path, ".git"))
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	if info.IsDir() {
		return path, nil
	}

	gitdir, err := GitDir(path)
	if err != nil {
		return "", err
	}

	// Walk up from gitdir to find the .git directory, then get its parent
	// gitdir is like: /path/to/repo/.git/worktrees/name
	// We want: /path/to/repo
	dir := gitdir
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root without finding .git
			return "", fmt.Errorf("could not find main repo path from gitdir: %s", gitdir)
		}
		if filepath.Base(dir) == ".git" {
			// Found .git directory, parent is the repo path
			return parent, nil
		}
		dir = parent
	}
}

// ListIgnoredFiles returns the git-ignored files present in the working tree
// at path, relative to it.
func ListIgnoredFiles(ctx context.Context, path string) ([]string, error) {
	out, err := outputGit(ctx, path, "ls-files", "--others", "--ignored", "--exclude-standard")
	if err != nil {
		return nil, err
	}
	raw := strings.TrimSpace(string(out))
	if raw == "" {
		return nil, nil
	}
	return strings.Split(raw, "\n"), nil
}
