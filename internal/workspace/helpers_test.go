package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmzDAWG/workspaces/internal/config"
	"github.com/dmzDAWG/workspaces/internal/git"
	"github.com/dmzDAWG/workspaces/internal/registry"
)

// fixture is a root directory with source repositories under repos/, each
// cloned from its own bare remote under remotes/.
type fixture struct {
	cfg     config.Config
	repos   []registry.Repository
	origins map[string]string
}

func resolveTempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("failed to resolve temp dir: %v", err)
	}
	return dir
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	if err := git.Run(context.Background(), dir, args...); err != nil {
		t.Fatalf("git %v in %s: %v", args, dir, err)
	}
}

func configureTestRepo(t *testing.T, repoPath string) {
	t.Helper()
	runGit(t, repoPath, "config", "user.email", "test@test.com")
	runGit(t, repoPath, "config", "user.name", "Test User")
	runGit(t, repoPath, "config", "commit.gpgsign", "false")
}

func commitFile(t *testing.T, dir, name, content string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, name), content)
	runGit(t, dir, "add", name)
	runGit(t, dir, "commit", "-m", "update "+name)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newFixture(t *testing.T, names ...string) *fixture {
	t.Helper()
	root := resolveTempDir(t)

	f := &fixture{origins: map[string]string{}}
	for _, name := range names {
		origin := filepath.Join(root, "remotes", name+".git")
		repo := filepath.Join(root, "repos", name)
		runGit(t, "", "init", "--bare", "-b", "main", origin)
		runGit(t, "", "clone", origin, repo)
		configureTestRepo(t, repo)
		commitFile(t, repo, "README.md", "# "+name+"\n")
		runGit(t, repo, "push", "-u", "origin", "HEAD")
		f.origins[name] = origin
	}

	cfg := config.Default()
	cfg.Root = root
	cfg.StateDir = filepath.Join(root, "state")
	cfg.Trunk = "main"
	cfg.Parallel = 2
	cfg.Create.Push = false
	cfg.Log.File = ""
	f.cfg = cfg

	repos, err := registry.ListRepositories(cfg.ReposPath())
	if err != nil {
		t.Fatalf("ListRepositories() error = %v", err)
	}
	f.repos = repos
	return f
}

func (f *fixture) repo(t *testing.T, name string) registry.Repository {
	t.Helper()
	r, ok := registry.Find(f.repos, name)
	if !ok {
		t.Fatalf("repository %s not in fixture", name)
	}
	return r
}

// pushToTrunk commits name on the remote's main from a scratch clone,
// moving origin/main ahead of every local copy.
func (f *fixture) pushToTrunk(t *testing.T, repo, name, content string) {
	t.Helper()
	scratch := filepath.Join(resolveTempDir(t), repo)
	runGit(t, "", "clone", f.origins[repo], scratch)
	configureTestRepo(t, scratch)
	commitFile(t, scratch, name, content)
	runGit(t, scratch, "push", "origin", "main")
}

// create builds a feature workspace over every fixture repository.
func (f *fixture) create(t *testing.T, name string) (Workspace, Ledger) {
	t.Helper()
	ws, err := New(f.cfg, name, KindFeature)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ledger, err := NewOrchestrator(f.cfg).Create(context.Background(), ws, f.repos)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !ledger.AllSucceeded() {
		t.Fatalf("Create() failed repos = %v", ledger.FailedRepos())
	}
	return ws, ledger
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
