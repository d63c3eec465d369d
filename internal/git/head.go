package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNotRepository is returned when a path has no usable .git entry.
var ErrNotRepository = errors.New("not a git repository")

// HeadBranch returns the branch HEAD points to at path, without spawning git.
// Linked worktrees are supported. Returns "" for a detached HEAD.
func HeadBranch(path string) (string, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return "", fmt.Errorf("%s: %w", path, ErrNotRepository)
		}
		return "", fmt.Errorf("open %s: %w", path, err)
	}

	// Read HEAD without resolving it so unborn branches still report a name.
	ref, err := repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", fmt.Errorf("read HEAD: %w", err)
	}
	if ref.Type() != plumbing.SymbolicReference {
		return "", nil
	}
	target := ref.Target()
	if !target.IsBranch() {
		return "", nil
	}
	return target.Short(), nil
}

// ListBranches returns the local and remote-tracking branch names of the
// repository at path, sorted, without spawning git. Remote branches keep
// their remote prefix ("origin/feature/x"); symbolic refs are skipped.
func ListBranches(path string) ([]string, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotRepository)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	refs, err := repo.References()
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	defer refs.Close()

	var names []string
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		if ref.Name().IsBranch() || ref.Name().IsRemote() {
			names = append(names, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

// GitDir returns the git directory for the repository or worktree at path.
// For a linked worktree this is the directory named by its .git file.
func GitDir(path string) (string, error) {
	gitPath := filepath.Join(path, ".git")
	info, err := os.Stat(gitPath)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, ErrNotRepository)
	}
	if info.IsDir() {
		return gitPath, nil
	}

	content, err := os.ReadFile(gitPath)
	if err != nil {
		return "", fmt.Errorf("failed to read .git file: %w", err)
	}

	// Parse: "gitdir: /path/to/repo/.git/worktrees/name"
	// Only the first line matters; any additional lines are ignored
	line, _, _ := strings.Cut(string(content), "\n")
	line = strings.TrimSpace(line)
	gitdir, ok := strings.CutPrefix(line, "gitdir: ")
	if !ok {
		return "", fmt.Errorf("invalid .git file format: expected 'gitdir: <path>'")
	}
	if gitdir == "" {
		return "", fmt.Errorf("invalid .git file format: empty gitdir path")
	}

	// Handle relative paths (gitdir can be relative to the worktree)
	if !filepath.IsAbs(gitdir) {
		gitdir = filepath.Join(path, gitdir)
	}
	return filepath.Clean(gitdir), nil
}

// ReadHeadRef reads the HEAD file of the repository or worktree at path
// directly. Returns the branch name, or "" for a detached HEAD.
func ReadHeadRef(path string) (string, error) {
	gitdir, err := GitDir(path)
	if err != nil {
		return "", err
	}
	content, err := os.ReadFile(filepath.Join(gitdir, "HEAD"))
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}
	ref, ok := strings.CutPrefix(strings.TrimSpace(string(content)), "ref: ")
	if !ok {
		return "", nil
	}
	return strings.TrimPrefix(ref, "refs/heads/"), nil
}
