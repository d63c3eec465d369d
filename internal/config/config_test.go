package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if cfg.Remote != "origin" {
		t.Errorf("Remote = %q, want %q", cfg.Remote, "origin")
	}
	if cfg.Parallel != DefaultParallel {
		t.Errorf("Parallel = %d, want %d", cfg.Parallel, DefaultParallel)
	}
	if cfg.Sync.Strategy != StrategyRebase {
		t.Errorf("Sync.Strategy = %q, want %q", cfg.Sync.Strategy, StrategyRebase)
	}
	if cfg.Trunk != "" {
		t.Errorf("Trunk = %q, want empty (detect per repository)", cfg.Trunk)
	}
}

func TestLoad_Nonexistent(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if strings.HasPrefix(cfg.Root, "~") {
		t.Errorf("Root = %q, want ~ expanded", cfg.Root)
	}
	if !filepath.IsAbs(cfg.Root) {
		t.Errorf("Root = %q, want absolute", cfg.Root)
	}
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `root = "` + root + `"
trunk = "master"
parallel = 2

[branch]
feature = "feat"

[sync]
strategy = "merge"
push = true

[remove]
delete_remote = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Root != root {
		t.Errorf("Root = %q, want %q", cfg.Root, root)
	}
	if cfg.Trunk != "master" {
		t.Errorf("Trunk = %q, want master", cfg.Trunk)
	}
	if cfg.Parallel != 2 {
		t.Errorf("Parallel = %d, want 2", cfg.Parallel)
	}
	if cfg.Branch.Feature != "feat" || cfg.Branch.Bug != "bug" {
		t.Errorf("Branch = %+v, want feature=feat bug=bug", cfg.Branch)
	}
	if cfg.Sync.Strategy != StrategyMerge || !cfg.Sync.Push {
		t.Errorf("Sync = %+v, want merge with push", cfg.Sync)
	}
	if !cfg.Remove.DeleteRemote || cfg.Remove.DeleteLocal {
		t.Errorf("Remove = %+v", cfg.Remove)
	}
	// Keys missing from the file keep their defaults.
	if !cfg.Create.Push {
		t.Error("Create.Push = false, want default true")
	}
	if got, want := cfg.ReposPath(), filepath.Join(root, "repos"); got != want {
		t.Errorf("ReposPath() = %q, want %q", got, want)
	}
	if got, want := cfg.WorkspacesPath(), filepath.Join(root, "workspaces"); got != want {
		t.Errorf("WorkspacesPath() = %q, want %q", got, want)
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad toml", `root = `, "failed to parse"},
		{"relative root", `root = "work"`, "root must be absolute"},
		{"unknown strategy", "[sync]\nstrategy = \"squash\"", `invalid sync.strategy "squash"`},
		{"negative parallel", `parallel = -1`, "invalid parallel"},
		{"bad prefix", "[branch]\nbug = \"-x\"", "invalid branch.bug"},
		{"hook without command", "[hooks.deps]\non = [\"create\"]", "hooks.deps: command must not be empty"},
		{"hook trigger", "[hooks.deps]\ncommand = \"make\"\non = [\"remove\"]", `invalid hooks.deps.on "remove"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.content))
			if err == nil {
				t.Fatal("Parse() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %q, want to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestParse_Hooks(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(`root = "/tmp/ws"

[hooks.deps]
command = "mvn -q dependency:go-offline"
description = "Warm the Maven cache"
on = ["create", "checkout"]

[hooks.manual]
command = "echo {workspace}"
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(cfg.Hooks) != 2 {
		t.Fatalf("Hooks = %v, want 2 entries", cfg.Hooks)
	}
	deps := cfg.Hooks["deps"]
	if deps.Command != "mvn -q dependency:go-offline" || len(deps.On) != 2 || deps.On[1] != TriggerCheckout {
		t.Errorf("hooks.deps = %+v", deps)
	}
	if on := cfg.Hooks["manual"].On; len(on) != 0 {
		t.Errorf("hooks.manual.on = %v, want empty", on)
	}
}

func TestParse_ZeroParallelUsesDefault(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte("parallel = 0\nroot = \"/tmp/ws\""))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Parallel != DefaultParallel {
		t.Errorf("Parallel = %d, want %d", cfg.Parallel, DefaultParallel)
	}
}

func TestPaths_Absolute(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte("root = \"/tmp/ws\"\nrepos_dir = \"/srv/repos\""))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := cfg.ReposPath(); got != "/srv/repos" {
		t.Errorf("ReposPath() = %q, want /srv/repos", got)
	}
	if got := cfg.TemplatesPath(); got != "/tmp/ws/templates" {
		t.Errorf("TemplatesPath() = %q, want /tmp/ws/templates", got)
	}
}

func TestWithRoot(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Root = "/original"

	got, err := cfg.WithRoot("/override")
	if err != nil {
		t.Fatalf("WithRoot() error = %v", err)
	}
	if got.Root != "/override" {
		t.Errorf("Root = %q, want /override", got.Root)
	}
	if cfg.Root != "/original" {
		t.Errorf("original config mutated: Root = %q", cfg.Root)
	}

	same, err := cfg.WithRoot("")
	if err != nil || same.Root != "/original" {
		t.Errorf("WithRoot(\"\") = %q, %v; want unchanged", same.Root, err)
	}

	if _, err := cfg.WithRoot("relative"); err == nil {
		t.Error("WithRoot(relative) error = nil, want error")
	}
}

func TestValidatePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		wantErr bool
	}{
		{"", false},
		{"~/work", false},
		{"~", false},
		{"/abs/path", false},
		{".", true},
		{"..", true},
		{"relative/path", true},
	}

	for _, tt := range tests {
		err := ValidatePath(tt.path, "root")
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}

func TestValidateStrategy(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"merge", "rebase"} {
		if err := ValidateStrategy(s); err != nil {
			t.Errorf("ValidateStrategy(%q) = %v, want nil", s, err)
		}
	}
	for _, s := range []string{"", "squash", "Rebase"} {
		if err := ValidateStrategy(s); err == nil {
			t.Errorf("ValidateStrategy(%q) = nil, want error", s)
		}
	}
}

func TestInit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ws", "config.toml")

	got, err := Init(path, false)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if got != path {
		t.Errorf("Init() path = %q, want %q", got, path)
	}

	// The generated file is all comments and parses to the defaults.
	if _, err := Load(path); err != nil {
		t.Errorf("Load(generated) error = %v", err)
	}

	if _, err := Init(path, false); err == nil {
		t.Error("second Init() error = nil, want already exists")
	}
	if _, err := Init(path, true); err != nil {
		t.Errorf("Init(force) error = %v", err)
	}
}

func TestContext(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Root = "/srv/work"
	cfg.Parallel = 9

	got := FromContext(WithConfig(context.Background(), cfg))
	if got.Root != "/srv/work" || got.Parallel != 9 {
		t.Errorf("FromContext() = root %s parallel %d, want /srv/work 9", got.Root, got.Parallel)
	}

	if def := FromContext(context.Background()); def.Parallel != DefaultParallel || def.Remote != "origin" {
		t.Errorf("FromContext(empty) = %+v, want defaults", def)
	}
}
