package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/dmzDAWG/workspaces/internal/git"
	"github.com/dmzDAWG/workspaces/internal/preflight"
	"github.com/dmzDAWG/workspaces/internal/registry"
)

func TestCreate_TwoCleanRepos(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "alpha", "beta")
	ws, ledger := f.create(t, "x")

	if ws.Branch != "feature/x" {
		t.Fatalf("Branch = %q, want feature/x", ws.Branch)
	}
	if got := ledger.Count(StatusCreated); got != 2 {
		t.Errorf("created = %d, want 2", got)
	}
	for _, name := range []string{"alpha", "beta"} {
		path := filepath.Join(f.cfg.WorkspacesPath(), "x", name)
		if !git.IsWorktree(path) {
			t.Errorf("%s is not a worktree", path)
			continue
		}
		b, err := git.HeadBranch(path)
		if err != nil {
			t.Fatalf("HeadBranch(%s) error = %v", path, err)
		}
		if b != "feature/x" {
			t.Errorf("%s on %q, want feature/x", name, b)
		}
	}
}

func TestCreate_DirtyRepoCreatesNothing(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "alpha", "beta")
	writeFile(t, filepath.Join(f.repo(t, "alpha").Path, "README.md"), "local edit\n")

	ws, err := New(f.cfg, "x", KindFeature)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ledger, err := NewOrchestrator(f.cfg).Create(context.Background(), ws, f.repos)

	var verr *preflight.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Create() error = %v, want *preflight.ValidationError", err)
	}
	if got := verr.Repos(); !slices.Equal(got, []string{"alpha"}) {
		t.Errorf("failed repos = %v, want [alpha]", got)
	}
	if ledger != nil {
		t.Errorf("ledger = %v, want nil", ledger)
	}
	if exists(ws.Root) {
		t.Errorf("workspace directory %s was created", ws.Root)
	}
	for _, r := range f.repos {
		if git.BranchExists(context.Background(), r.Path, "feature/x") {
			t.Errorf("branch feature/x created in %s", r.Name)
		}
	}
}

func TestCreate_PreflightGateIsInjectable(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "alpha")
	ws, _ := New(f.cfg, "gate", KindFeature)

	o := NewOrchestrator(f.cfg)
	o.Preflight = func(_ context.Context, repos []registry.Repository) []preflight.Result {
		return []preflight.Result{{Repo: repos[0], Err: errors.New("locked")}}
	}
	if _, err := o.Create(context.Background(), ws, f.repos); err == nil {
		t.Fatal("Create() error = nil, want preflight failure")
	}
	if exists(ws.Root) {
		t.Error("workspace directory created despite failed preflight")
	}
}

func TestCreate_Idempotent(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "alpha", "beta")
	ws, _ := f.create(t, "again")

	ledger, err := NewOrchestrator(f.cfg).Create(context.Background(), ws, f.repos)
	if err != nil {
		t.Fatalf("second Create() error = %v", err)
	}
	if got := ledger.Count(StatusExisting); got != 2 {
		t.Errorf("existing = %d, want 2 (ledger %+v)", got, ledger)
	}
	if !ledger.AllSucceeded() {
		t.Errorf("failed = %v, want none", ledger.FailedRepos())
	}
}

func TestCreate_AttachesExistingBranch(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "alpha")
	alpha := f.repo(t, "alpha")
	runGit(t, alpha.Path, "branch", "feature/reuse")

	ws, ledger := f.create(t, "reuse")
	o := ledger[0]
	if o.Status != StatusCreated {
		t.Fatalf("status = %s, want created", o.Status)
	}
	if len(o.Notes) == 0 {
		t.Error("expected a note about the attached branch")
	}
	if !git.IsWorktree(filepath.Join(ws.Root, "alpha")) {
		t.Error("worktree missing")
	}
}

func TestCreate_PushSetsUpstream(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "alpha")
	ws, err := New(f.cfg, "pushed", KindBug)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	o := NewOrchestrator(f.cfg)
	o.Push = true

	ledger, err := o.Create(context.Background(), ws, f.repos)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(ledger[0].Warnings) != 0 {
		t.Fatalf("warnings = %v", ledger[0].Warnings)
	}
	if !ledger[0].Tracked {
		t.Error("Tracked = false, want true after push")
	}
	ok, err := git.RemoteBranchExists(context.Background(), f.repo(t, "alpha").Path, "origin", "bug/pushed")
	if err != nil || !ok {
		t.Errorf("RemoteBranchExists = %v, %v; want true", ok, err)
	}
}

func TestCreate_NonWorktreeTargetFailsThatRepo(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "alpha", "beta")
	ws, _ := New(f.cfg, "blocked", KindFeature)
	if err := os.MkdirAll(filepath.Join(ws.Root, "alpha"), 0o755); err != nil {
		t.Fatal(err)
	}

	ledger, err := NewOrchestrator(f.cfg).Create(context.Background(), ws, f.repos)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got := ledger.FailedRepos(); !slices.Equal(got, []string{"alpha"}) {
		t.Errorf("failed = %v, want [alpha]", got)
	}
	if ledger[1].Status != StatusCreated {
		t.Errorf("beta status = %s, want created", ledger[1].Status)
	}
	var rerr *RepoError
	if !errors.As(ledger[0].Err, &rerr) || rerr.Repo != "alpha" {
		t.Errorf("alpha err = %v, want *RepoError for alpha", ledger[0].Err)
	}
}

func TestCreate_NoRepositories(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ws, _ := New(f.cfg, "none", KindFeature)
	if _, err := NewOrchestrator(f.cfg).Create(context.Background(), ws, nil); !errors.Is(err, ErrNoRepositories) {
		t.Errorf("Create() error = %v, want ErrNoRepositories", err)
	}
}

func TestCreate_DerivesJavaVersion(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "alpha")
	alpha := f.repo(t, "alpha")
	commitFile(t, alpha.Path, "pom.xml", `<project><properties><java.version>21</java.version></properties></project>`)
	runGit(t, alpha.Path, "push", "origin", "main")

	ws, _ := f.create(t, "java")
	data, err := os.ReadFile(filepath.Join(ws.Root, "alpha", ".java-version"))
	if err != nil {
		t.Fatalf("read .java-version: %v", err)
	}
	if string(data) != "21\n" {
		t.Errorf(".java-version = %q, want 21", data)
	}
}

func TestAttach(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "alpha", "beta")
	ctx := context.Background()

	// feature/remote exists only on alpha's remote.
	alpha := f.repo(t, "alpha")
	runGit(t, alpha.Path, "push", "origin", "main:refs/heads/feature/remote")

	ws, err := ForBranch(f.cfg, "feature/remote")
	if err != nil {
		t.Fatalf("ForBranch() error = %v", err)
	}
	ledger, err := NewOrchestrator(f.cfg).Attach(ctx, ws, f.repos)
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	if ledger[0].Status != StatusCreated || !ledger[0].Tracked {
		t.Errorf("alpha = %s tracked=%v, want created and tracked", ledger[0].Status, ledger[0].Tracked)
	}
	if ledger[1].Status != StatusSkipped {
		t.Errorf("beta = %s, want skipped", ledger[1].Status)
	}
	if exists(filepath.Join(ws.Root, "beta")) {
		t.Error("beta worktree should not exist")
	}
}

func TestAttach_NothingFoundRemovesRoot(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "alpha")
	ws, _ := ForBranch(f.cfg, "feature/nowhere")

	ledger, err := NewOrchestrator(f.cfg).Attach(context.Background(), ws, f.repos)
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	if ledger.AnySucceeded() {
		t.Errorf("ledger = %+v, want nothing succeeded", ledger)
	}
	if exists(ws.Root) {
		t.Error("empty workspace directory left behind")
	}
}

func TestCreate_PreservesIgnoredFiles(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "alpha")
	src := f.repo(t, "alpha").Path
	commitFile(t, src, ".gitignore", ".env\n")
	runGit(t, src, "push", "origin", "main")
	writeFile(t, filepath.Join(src, ".env"), "TOKEN=abc\n")

	ws, err := New(f.cfg, "keep-env", KindFeature)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	o := NewOrchestrator(f.cfg)
	o.Preserve.Patterns = []string{".env"}

	ledger, err := o.Create(context.Background(), ws, f.repos)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !ledger.AllSucceeded() {
		t.Fatalf("Create() failed repos = %v", ledger.FailedRepos())
	}

	data, err := os.ReadFile(filepath.Join(ws.Root, "alpha", ".env"))
	if err != nil || string(data) != "TOKEN=abc\n" {
		t.Errorf(".env in worktree = %q, %v", data, err)
	}
	if !hasNote(ledger[0], "copied .env") {
		t.Errorf("notes = %v, want copied .env", ledger[0].Notes)
	}
}
