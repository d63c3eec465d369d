package workspace

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmzDAWG/workspaces/internal/config"
)

func TestSanitizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"login", "login"},
		{"Fix login bug!", "Fix-login-bug"},
		{"  spaced   out  ", "spaced-out"},
		{"feature/nested", "feature-nested"},
		{"a:b*c?d", "a-b-c-d"},
		{"dots...here", "dots.here"},
		{"--leading-and-trailing--", "leading-and-trailing"},
		{"ümlaut", "mlaut"},
		{"release.lock", "release"},
		{"JIRA-123 add export", "JIRA-123-add-export"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			got, err := SanitizeName(tt.raw)
			if err != nil {
				t.Fatalf("SanitizeName(%q) error = %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSanitizeName_Invalid(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", "!!!", "---", strings.Repeat("a", 101)} {
		if _, err := SanitizeName(raw); !errors.Is(err, ErrInvalidName) {
			t.Errorf("SanitizeName(%q) error = %v, want ErrInvalidName", raw, err)
		}
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Root = "/work"
	cfg.Branch.Bug = "fix"

	tests := []struct {
		raw        string
		kind       Kind
		wantName   string
		wantBranch string
	}{
		{"login", KindFeature, "login", "feature/login"},
		{"Crash on start", KindBug, "Crash-on-start", "fix/Crash-on-start"},
	}
	for _, tt := range tests {
		ws, err := New(cfg, tt.raw, tt.kind)
		if err != nil {
			t.Fatalf("New(%q) error = %v", tt.raw, err)
		}
		if ws.Name != tt.wantName || ws.Branch != tt.wantBranch {
			t.Errorf("New(%q) = %s on %s, want %s on %s", tt.raw, ws.Name, ws.Branch, tt.wantName, tt.wantBranch)
		}
		if want := filepath.Join("/work", "workspaces", tt.wantName); ws.Root != want {
			t.Errorf("Root = %s, want %s", ws.Root, want)
		}
	}

	if _, err := New(cfg, "x", Kind("chore")); err == nil {
		t.Error("New() with unknown kind: want error")
	}
}

func TestForBranch(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Root = "/work"

	tests := []struct {
		branch   string
		wantName string
		wantKind Kind
		wantErr  bool
	}{
		{"feature/login", "login", KindFeature, false},
		{"bug/crash", "crash", KindBug, false},
		{"team/alice/spike", "spike", KindFeature, false},
		{"main", "main", KindFeature, false},
		{"", "", "", true},
		{"-x", "", "", true},
		{"a..b", "", "", true},
	}
	for _, tt := range tests {
		ws, err := ForBranch(cfg, tt.branch)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ForBranch(%q) error = nil, want error", tt.branch)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ForBranch(%q) error = %v", tt.branch, err)
		}
		if ws.Name != tt.wantName || ws.Kind != tt.wantKind || ws.Branch != tt.branch {
			t.Errorf("ForBranch(%q) = %+v", tt.branch, ws)
		}
	}
}

func TestWorkspace_RepoPath(t *testing.T) {
	t.Parallel()

	ws := Workspace{Root: "/work/workspaces/x"}
	got, err := ws.RepoPath("../../etc")
	if err != nil {
		t.Fatalf("RepoPath() error = %v", err)
	}
	if !strings.HasPrefix(got, ws.Root) {
		t.Errorf("RepoPath() = %s escapes %s", got, ws.Root)
	}
}
