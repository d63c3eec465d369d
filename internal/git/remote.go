package git

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmzDAWG/workspaces/internal/cmd"
)

// RemoteBranchExists asks the remote whether branch exists.
// ls-remote --exit-code exits 2 when no ref matched; any other failure
// (network, auth, unknown remote) is returned as an error.
func RemoteBranchExists(ctx context.Context, repoPath, remote, branch string) (bool, error) {
	err := runGit(ctx, repoPath, "ls-remote", "--exit-code", "--heads", remote, "refs/heads/"+branch)
	if err == nil {
		return true, nil
	}
	var exitErr *cmd.ExitError
	if errors.As(err, &exitErr) && exitErr.Code == 2 {
		return false, nil
	}
	return false, fmt.Errorf("failed to query %s: %v", remote, err)
}

// DeleteRemoteBranch deletes branch on remote.
func DeleteRemoteBranch(ctx context.Context, repoPath, remote, branch string) error {
	if err := runGit(ctx, repoPath, "push", remote, "--delete", branch); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %v", remote, branch, err)
	}
	return nil
}

// Push pushes branch to remote.
func Push(ctx context.Context, path, remote, branch string) error {
	if err := runGit(ctx, path, "push", remote, branch); err != nil {
		return fmt.Errorf("failed to push %s: %v", branch, err)
	}
	return nil
}

// PushSetUpstream pushes branch to remote and records it as upstream.
func PushSetUpstream(ctx context.Context, path, remote, branch string) error {
	if err := runGit(ctx, path, "push", "-u", remote, branch); err != nil {
		return fmt.Errorf("failed to push %s: %v", branch, err)
	}
	return nil
}

// PushForceWithLease pushes rewritten history, refusing if the remote moved.
func PushForceWithLease(ctx context.Context, path, remote, branch string) error {
	if err := runGit(ctx, path, "push", "--force-with-lease", remote, branch); err != nil {
		return fmt.Errorf("failed to push %s: %v", branch, err)
	}
	return nil
}
