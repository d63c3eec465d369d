// Package workspace creates, synchronizes, removes and lists workspaces.
//
// A workspace is a directory below the workspaces root holding one git
// worktree per participating repository, all on the same branch:
//
//	<workspaces>/<name>/<repo>   worktree of <repos>/<repo> on <prefix>/<name>
//
// Every repository is processed independently on a bounded worker pool. A
// failure in one repository is recorded in the returned Ledger and never
// stops its siblings.
package workspace

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/dmzDAWG/workspaces/internal/config"
	"github.com/dmzDAWG/workspaces/internal/git"
)

// Kind selects the branch prefix.
type Kind string

const (
	KindFeature Kind = "feature"
	KindBug     Kind = "bug"
)

// Workspace is a named group of worktrees sharing one branch.
type Workspace struct {
	Name   string
	Branch string
	Root   string // <workspaces>/<name>
	Kind   Kind
}

// RepoPath returns the worktree directory for repo inside the workspace.
func (w Workspace) RepoPath(repo string) (string, error) {
	return securejoin.SecureJoin(w.Root, repo)
}

const maxNameLen = 100

var (
	nameReplacer = strings.NewReplacer(
		"/", "-",
		"\\", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"\"", "-",
		"<", "-",
		">", "-",
		"|", "-",
	)
	spaceRe   = regexp.MustCompile(`\s+`)
	invalidRe = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
	dashesRe  = regexp.MustCompile(`-{2,}`)
	validRe   = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)
)

// SanitizeName turns free text into a name usable as both a directory and
// the last component of a branch: "Fix login bug!" becomes "Fix-login-bug".
func SanitizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	name = spaceRe.ReplaceAllString(name, "-")
	name = nameReplacer.Replace(name)
	name = invalidRe.ReplaceAllString(name, "")
	name = dashesRe.ReplaceAllString(name, "-")
	for strings.Contains(name, "..") {
		name = strings.ReplaceAll(name, "..", ".")
	}
	name = strings.Trim(name, "-.")
	name = strings.TrimSuffix(name, ".lock")

	if name == "" {
		return "", fmt.Errorf("%w: %q has no usable characters", ErrInvalidName, raw)
	}
	if len(name) > maxNameLen {
		return "", fmt.Errorf("%w: %q is too long (max %d characters)", ErrInvalidName, raw, maxNameLen)
	}
	if !validRe.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, raw)
	}
	return name, nil
}

// New builds the workspace for raw name and kind under cfg's workspaces dir.
func New(cfg config.Config, raw string, kind Kind) (Workspace, error) {
	name, err := SanitizeName(raw)
	if err != nil {
		return Workspace{}, err
	}

	prefix := cfg.Branch.Feature
	switch kind {
	case KindFeature:
	case KindBug:
		prefix = cfg.Branch.Bug
	default:
		return Workspace{}, fmt.Errorf("unknown workspace kind %q", kind)
	}

	root, err := securejoin.SecureJoin(cfg.WorkspacesPath(), name)
	if err != nil {
		return Workspace{}, err
	}
	return Workspace{Name: name, Branch: prefix + "/" + name, Root: root, Kind: kind}, nil
}

// ForBranch builds a workspace that adopts an existing branch as-is.
// The workspace is named after the branch's last path component.
func ForBranch(cfg config.Config, branch string) (Workspace, error) {
	branch = strings.TrimSpace(branch)
	if branch == "" || strings.HasPrefix(branch, "-") || strings.Contains(branch, "..") {
		return Workspace{}, fmt.Errorf("invalid branch name %q", branch)
	}
	last := branch[strings.LastIndex(branch, "/")+1:]
	name, err := SanitizeName(last)
	if err != nil {
		return Workspace{}, err
	}

	kind := KindFeature
	if strings.HasPrefix(branch, cfg.Branch.Bug+"/") {
		kind = KindBug
	}

	root, err := securejoin.SecureJoin(cfg.WorkspacesPath(), name)
	if err != nil {
		return Workspace{}, err
	}
	return Workspace{Name: name, Branch: branch, Root: root, Kind: kind}, nil
}

// trunkFor returns the configured trunk, or the repository's default branch.
func trunkFor(ctx context.Context, cfg config.Config, repoPath string) string {
	if cfg.Trunk != "" {
		return cfg.Trunk
	}
	return git.GetDefaultBranch(ctx, repoPath, cfg.Remote)
}
