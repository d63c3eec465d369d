// Package static renders non-interactive output: the workspace and
// repository tables printed by "ws list" and "ws status".
package static

import (
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/dmzDAWG/workspaces/internal/ui/styles"
	"github.com/dmzDAWG/workspaces/internal/workspace"
)

// Placeholder cells rendered muted.
const (
	Empty = "(empty)"
	None  = "-"
)

// RenderTable aligns headers and rows into borderless columns.
// Returns "" when there are no rows.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().PaddingRight(2)
			if row == table.HeaderRow {
				return base.Inherit(styles.HeaderStyle)
			}
			if cell := rows[row][col]; cell == Empty || cell == None {
				return base.Inherit(styles.MutedStyle)
			}
			return base
		})

	return t.String() + "\n"
}

// WorkspaceHeaders are the columns of WorkspaceRow.
var WorkspaceHeaders = []string{"WORKSPACE", "REPOSITORIES", "PATH"}

// WorkspaceRow formats one catalog entry. Workspaces without worktrees
// show Empty in the repositories column.
func WorkspaceRow(e workspace.Entry) []string {
	repos := strings.Join(e.Repos, ", ")
	if e.Empty() {
		repos = Empty
	}
	return []string{e.Name, repos, e.Path}
}

// StatusHeaders are the columns of StatusRow.
var StatusHeaders = []string{"REPOSITORY", "BRANCH", "STATE", "AHEAD", "BEHIND", "LAST COMMIT"}

// StatusRow formats one repository's status.
func StatusRow(s workspace.RepoStatus) []string {
	if s.Err != nil {
		return []string{s.Repo, None, styles.ErrorStyle.Render("error: " + s.Err.Error()), None, None, None}
	}
	state := styles.SuccessStyle.Render("clean")
	if s.Dirty {
		state = styles.WarningStyle.Render("dirty")
	}
	last := s.LastCommit
	if last == "" {
		last = None
	}
	return []string{s.Repo, s.Branch, state, strconv.Itoa(s.Ahead), strconv.Itoa(s.Behind), last}
}
