package git

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
)

// divergedWorktree returns a worktree on branch "work" whose README.md
// conflicts with origin/main.
func divergedWorktree(t *testing.T) string {
	t.Helper()

	repoPath, originPath := setupTestRepoWithOrigin(t)
	ctx := context.Background()

	wtPath := filepath.Join(filepath.Dir(repoPath), "wt-work")
	if err := AddWorktree(ctx, repoPath, wtPath, "work", "main"); err != nil {
		t.Fatal(err)
	}
	commitFile(t, wtPath, "README.md", "# mine\n")

	pushFromClone(t, originPath, "README.md", "# theirs\n")
	if err := FetchBranch(ctx, wtPath, "origin", "main"); err != nil {
		t.Fatal(err)
	}
	return wtPath
}

func TestRebase_Clean(t *testing.T) {
	t.Parallel()

	repoPath, originPath := setupTestRepoWithOrigin(t)
	ctx := context.Background()

	wtPath := filepath.Join(filepath.Dir(repoPath), "wt-clean")
	if err := AddWorktree(ctx, repoPath, wtPath, "work", "main"); err != nil {
		t.Fatal(err)
	}
	commitFile(t, wtPath, "mine.txt", "a\n")
	pushFromClone(t, originPath, "theirs.txt", "b\n")
	if err := FetchBranch(ctx, wtPath, "origin", "main"); err != nil {
		t.Fatal(err)
	}

	if err := Rebase(ctx, wtPath, "origin/main"); err != nil {
		t.Fatalf("Rebase failed: %v", err)
	}
	ahead, behind, err := AheadBehind(ctx, wtPath, "origin/main")
	if err != nil {
		t.Fatal(err)
	}
	if ahead != 1 || behind != 0 {
		t.Errorf("after rebase +%d/-%d, want +1/-0", ahead, behind)
	}
}

func TestRebase_Conflict(t *testing.T) {
	t.Parallel()

	wtPath := divergedWorktree(t)
	ctx := context.Background()

	err := Rebase(ctx, wtPath, "origin/main")
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Rebase error = %v, want *ConflictError", err)
	}
	if conflict.Op != "rebase" {
		t.Errorf("Op = %q, want rebase", conflict.Op)
	}
	if !slices.Contains(conflict.Files, "README.md") {
		t.Errorf("Files = %v, want README.md", conflict.Files)
	}
	wantAbort := []string{"git", "-C", wtPath, "rebase", "--abort"}
	if !slices.Equal(conflict.AbortArgs(), wantAbort) {
		t.Errorf("AbortArgs = %v, want %v", conflict.AbortArgs(), wantAbort)
	}

	// The rebase is left in progress; abort restores the branch.
	if err := runGit(ctx, wtPath, conflict.AbortArgs()[3:]...); err != nil {
		t.Fatalf("abort failed: %v", err)
	}
	if b, _ := GetCurrentBranch(ctx, wtPath); b != "work" {
		t.Errorf("branch after abort = %q, want work", b)
	}
}

func TestMerge_Conflict(t *testing.T) {
	t.Parallel()

	wtPath := divergedWorktree(t)
	ctx := context.Background()

	err := Merge(ctx, wtPath, "origin/main")
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("Merge error = %v, want *ConflictError", err)
	}
	if conflict.Op != "merge" {
		t.Errorf("Op = %q, want merge", conflict.Op)
	}
	wantContinue := []string{"git", "-C", wtPath, "merge", "--continue"}
	if !slices.Equal(conflict.ContinueArgs(), wantContinue) {
		t.Errorf("ContinueArgs = %v, want %v", conflict.ContinueArgs(), wantContinue)
	}
}

func TestMerge_UnknownRef(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)

	err := Merge(context.Background(), repoPath, "origin/nope")
	if err == nil {
		t.Fatal("Merge of unknown ref should fail")
	}
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		t.Errorf("Merge of unknown ref reported a conflict: %v", err)
	}
}
