//go:build integration

package main

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// resolvePath resolves symlinks in a path.
// This is needed on macOS where /var is a symlink to /private/var.
func resolvePath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("failed to resolve path %s: %v", path, err)
	}
	return resolved
}

// env is a ws root with source repositories cloned from bare remotes.
type env struct {
	root    string
	config  string
	environ []string
}

// setupEnv creates root/repos/<name> for every name, each cloned from
// root/remotes/<name>.git with one commit pushed on main, and a config
// file pointing ws at root.
func setupEnv(t *testing.T, names ...string) *env {
	t.Helper()

	root := resolvePath(t, t.TempDir())
	for _, name := range names {
		remote := filepath.Join(root, "remotes", name+".git")
		repo := filepath.Join(root, "repos", name)

		runGitCommand(t, "", "git", "init", "--bare", "-b", "main", remote)
		runGitCommand(t, "", "git", "clone", remote, repo)
		runGitCommand(t, repo, "git", "config", "user.email", "test@test.com")
		runGitCommand(t, repo, "git", "config", "user.name", "Test User")
		runGitCommand(t, repo, "git", "config", "commit.gpgsign", "false")
		runGitCommand(t, repo, "git", "symbolic-ref", "HEAD", "refs/heads/main")
		commitFile(t, repo, "README.md", "# "+name+"\n")
		runGitCommand(t, repo, "git", "push", "-u", "origin", "main")
	}

	cfgPath := filepath.Join(root, "config.toml")
	content := `root = "` + root + `"
state_dir = "` + filepath.Join(root, ".ws") + `"
trunk = "main"
parallel = 2

[create]
push = false

[log]
file = ""
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return &env{root: root, config: cfgPath, environ: []string{"WS_CONFIG=" + cfgPath, "NO_COLOR=1"}}
}

// ws runs the CLI in-process and returns its exit code and output.
func (e *env) ws(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut strings.Builder
	code = run(context.Background(), args, &out, &errOut, e.environ)
	return code, out.String(), errOut.String()
}

func (e *env) repo(name string) string {
	return filepath.Join(e.root, "repos", name)
}

func (e *env) workspace(name string) string {
	return filepath.Join(e.root, "workspaces", name)
}

// runGitCommand runs a command in dir and returns its trimmed output.
func runGitCommand(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to run %v in %s: %v\n%s", args, dir, err, out)
	}
	return strings.TrimSpace(string(out))
}

// commitFile writes name and commits it in repo.
func commitFile(t *testing.T, repo, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(repo, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	runGitCommand(t, repo, "git", "add", name)
	runGitCommand(t, repo, "git", "commit", "-m", "Update "+name)
}

// pushToTrunk commits name on the remote's main through the source repo.
func (e *env) pushToTrunk(t *testing.T, repo, name, content string) {
	t.Helper()
	path := e.repo(repo)
	commitFile(t, path, name, content)
	runGitCommand(t, path, "git", "push", "origin", "main")
}

// makeDirty creates an untracked file.
func makeDirty(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(path, "dirty.txt"), []byte("uncommitted changes\n"), 0644); err != nil {
		t.Fatalf("failed to create dirty file: %v", err)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func branchExists(t *testing.T, repo, branch string) bool {
	t.Helper()
	return runGitCommand(t, repo, "git", "branch", "--list", branch) != ""
}

// makeDirtyDir creates dir holding a single file and no subdirectories.
func makeDirtyDir(t *testing.T, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create %s: %v", dir, err)
	}
	makeDirty(t, dir)
}

// appendConfig adds TOML to the config file.
func (e *env) appendConfig(t *testing.T, content string) {
	t.Helper()
	f, err := os.OpenFile(e.config, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatalf("failed to open config: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString("\n" + content); err != nil {
		t.Fatalf("failed to append config: %v", err)
	}
}
