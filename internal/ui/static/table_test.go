package static

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/dmzDAWG/workspaces/internal/workspace"
)

func TestRenderTable(t *testing.T) {
	t.Parallel()

	if got := RenderTable(WorkspaceHeaders, nil); got != "" {
		t.Errorf("RenderTable(no rows) = %q, want empty", got)
	}

	out := ansi.Strip(RenderTable(WorkspaceHeaders, [][]string{
		{"login", "alpha, beta", "/w/login"},
		{"old", Empty, "/w/old"},
	}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "WORKSPACE") {
		t.Errorf("header = %q", lines[0])
	}
	// Columns are aligned: the path starts at the same offset in every row.
	if strings.Index(lines[1], "/w/login") != strings.Index(lines[2], "/w/old") {
		t.Errorf("columns not aligned:\n%s", out)
	}
}

func TestWorkspaceRow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		entry workspace.Entry
		repos string
	}{
		{workspace.Entry{Name: "login", Path: "/w/login", Repos: []string{"alpha", "beta"}}, "alpha, beta"},
		{workspace.Entry{Name: "docs", Path: "/w/docs", Repos: []string{}}, Empty},
	}
	for _, tt := range tests {
		row := WorkspaceRow(tt.entry)
		if len(row) != len(WorkspaceHeaders) {
			t.Fatalf("row has %d columns, want %d", len(row), len(WorkspaceHeaders))
		}
		if row[1] != tt.repos {
			t.Errorf("WorkspaceRow(%s) repos = %q, want %q", tt.entry.Name, row[1], tt.repos)
		}
	}
}

func TestStatusRow(t *testing.T) {
	t.Parallel()

	row := StatusRow(workspace.RepoStatus{Repo: "alpha", Branch: "feature/x", Dirty: true, Ahead: 2})
	if len(row) != len(StatusHeaders) {
		t.Fatalf("row has %d columns, want %d", len(row), len(StatusHeaders))
	}
	if ansi.Strip(row[2]) != "dirty" || row[3] != "2" || row[5] != None {
		t.Errorf("StatusRow() = %q", row)
	}

	row = StatusRow(workspace.RepoStatus{Repo: "beta", Err: errors.New("not a git repository")})
	if !strings.Contains(ansi.Strip(row[2]), "not a git repository") {
		t.Errorf("error row = %q", row)
	}
}
