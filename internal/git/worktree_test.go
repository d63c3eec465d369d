package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestAddWorktree(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	tmpDir := filepath.Dir(repoPath)
	ctx := context.Background()

	wtPath := filepath.Join(tmpDir, "ws", "test-repo")
	if err := os.MkdirAll(filepath.Dir(wtPath), 0755); err != nil {
		t.Fatal(err)
	}

	if err := AddWorktree(ctx, repoPath, wtPath, "feature/new", "main"); err != nil {
		t.Fatalf("AddWorktree failed: %v", err)
	}

	branch, err := GetCurrentBranch(ctx, wtPath)
	if err != nil {
		t.Fatalf("GetCurrentBranch failed: %v", err)
	}
	if branch != "feature/new" {
		t.Errorf("branch = %q, want feature/new", branch)
	}
	if !IsWorktree(wtPath) {
		t.Error("IsWorktree should be true for a linked worktree")
	}
	if IsWorktree(repoPath) {
		t.Error("IsWorktree should be false for the main repository")
	}

	// Same branch again fails: it already exists.
	if err := AddWorktree(ctx, repoPath, filepath.Join(tmpDir, "again"), "feature/new", "main"); err == nil {
		t.Error("AddWorktree with existing branch should fail")
	}
}

func TestAddWorktreeForBranch(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	tmpDir := filepath.Dir(repoPath)
	ctx := context.Background()

	if err := runGit(ctx, repoPath, "branch", "existing-branch"); err != nil {
		t.Fatalf("failed to create branch: %v", err)
	}

	wtPath := filepath.Join(tmpDir, "wt-existing")
	if err := AddWorktreeForBranch(ctx, repoPath, wtPath, "existing-branch"); err != nil {
		t.Fatalf("AddWorktreeForBranch failed: %v", err)
	}

	branch, err := GetCurrentBranch(ctx, wtPath)
	if err != nil {
		t.Fatalf("GetCurrentBranch failed: %v", err)
	}
	if branch != "existing-branch" {
		t.Errorf("branch = %q, want existing-branch", branch)
	}

	got, err := FindWorktreeForBranch(ctx, repoPath, "existing-branch")
	if err != nil {
		t.Fatalf("FindWorktreeForBranch failed: %v", err)
	}
	if got != wtPath {
		t.Errorf("FindWorktreeForBranch = %q, want %q", got, wtPath)
	}
	got, _ = FindWorktreeForBranch(ctx, repoPath, "unknown")
	if got != "" {
		t.Errorf("FindWorktreeForBranch(unknown) = %q, want empty", got)
	}
}

func TestRemoveWorktree(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	tmpDir := filepath.Dir(repoPath)
	ctx := context.Background()

	wtPath := filepath.Join(tmpDir, "wt-to-remove")
	if err := runGit(ctx, repoPath, "worktree", "add", "-b", "remove-me", wtPath); err != nil {
		t.Fatalf("failed to create worktree: %v", err)
	}

	// Untracked file blocks a plain remove.
	if err := os.WriteFile(filepath.Join(wtPath, "scratch.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := RemoveWorktree(ctx, repoPath, wtPath, false); err == nil {
		t.Fatal("RemoveWorktree without force should fail on a dirty worktree")
	}
	if err := RemoveWorktree(ctx, repoPath, wtPath, true); err != nil {
		t.Fatalf("RemoveWorktree(force) failed: %v", err)
	}

	if _, err := os.Stat(wtPath); !os.IsNotExist(err) {
		t.Error("worktree dir should be removed")
	}
}

func TestPruneWorktrees(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	tmpDir := filepath.Dir(repoPath)
	ctx := context.Background()

	// Create a worktree then manually rm -rf the directory
	wtPath := filepath.Join(tmpDir, "wt-to-prune")
	if err := runGit(ctx, repoPath, "worktree", "add", "-b", "prune-me", wtPath); err != nil {
		t.Fatalf("failed to create worktree: %v", err)
	}

	// Manually remove the directory (simulating it being deleted outside of git)
	if err := os.RemoveAll(wtPath); err != nil {
		t.Fatalf("failed to remove worktree dir: %v", err)
	}

	// Prune should clean up the stale reference
	if err := PruneWorktrees(ctx, repoPath); err != nil {
		t.Fatalf("PruneWorktrees failed: %v", err)
	}

	// After prune, listing should not include the stale worktree
	wts, err := ListWorktreesFromRepo(ctx, repoPath)
	if err != nil {
		t.Fatalf("ListWorktreesFromRepo failed: %v", err)
	}

	for _, wt := range wts {
		if wt.Branch == "prune-me" {
			t.Error("pruned worktree should not appear in list")
		}
	}
}

func TestListWorktreesFromRepo(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	tmpDir := filepath.Dir(repoPath)
	ctx := context.Background()

	wtPath := filepath.Join(tmpDir, "wt-list")
	if err := runGit(ctx, repoPath, "worktree", "add", "-b", "list-branch", wtPath); err != nil {
		t.Fatalf("failed to create worktree: %v", err)
	}
	detached := filepath.Join(tmpDir, "wt-detached")
	if err := runGit(ctx, repoPath, "worktree", "add", "--detach", detached); err != nil {
		t.Fatalf("failed to create detached worktree: %v", err)
	}

	wts, err := ListWorktreesFromRepo(ctx, repoPath)
	if err != nil {
		t.Fatalf("ListWorktreesFromRepo failed: %v", err)
	}
	if len(wts) != 3 {
		t.Fatalf("got %d worktrees, want 3: %+v", len(wts), wts)
	}

	byPath := make(map[string]WorktreeInfo)
	for _, wt := range wts {
		byPath[wt.Path] = wt
		if wt.CommitHash == "" {
			t.Errorf("worktree %s has empty commit hash", wt.Path)
		}
	}
	if byPath[repoPath].Branch != "main" {
		t.Errorf("main repo branch = %q, want main", byPath[repoPath].Branch)
	}
	if byPath[wtPath].Branch != "list-branch" {
		t.Errorf("worktree branch = %q, want list-branch", byPath[wtPath].Branch)
	}
	if byPath[detached].Branch != DetachedHead {
		t.Errorf("detached branch = %q, want %q", byPath[detached].Branch, DetachedHead)
	}
}
