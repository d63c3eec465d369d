// Package registry discovers the source repositories under the repos directory.
//
// The registry is the directory itself: every direct child that contains a
// .git entry is a repository. Nothing is persisted; each command rescans.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Repository is a source repository discovered under the repos directory.
type Repository struct {
	Name      string `json:"name" yaml:"name"` // Directory name
	Path      string `json:"path" yaml:"path"` // Absolute path to repo
	HasGitDir bool   `json:"-" yaml:"-"`       // .git is a directory (not a linked worktree)
}

// ListRepositories returns the repositories directly below rootDir, sorted by name.
// A missing rootDir yields an empty list. Directories without a .git entry are skipped.
func ListRepositories(rootDir string) ([]Repository, error) {
	entries, err := os.ReadDir(rootDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Repository{}, nil
		}
		return nil, fmt.Errorf("read repos directory: %w", err)
	}

	repos := make([]Repository, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		path := filepath.Join(rootDir, entry.Name())
		info, err := os.Stat(filepath.Join(path, ".git"))
		if err != nil {
			continue
		}

		repos = append(repos, Repository{
			Name:      entry.Name(),
			Path:      path,
			HasGitDir: info.IsDir(),
		})
	}

	// ReadDir already sorts by filename; keep the guarantee explicit.
	slices.SortFunc(repos, func(a, b Repository) int {
		return strings.Compare(a.Name, b.Name)
	})
	return repos, nil
}

// Find returns the repository with the given name.
func Find(repos []Repository, name string) (Repository, bool) {
	for _, r := range repos {
		if r.Name == name {
			return r, true
		}
	}
	return Repository{}, false
}

// Names returns the repository names in order.
func Names(repos []Repository) []string {
	names := make([]string, len(repos))
	for i, r := range repos {
		names[i] = r.Name
	}
	return names
}

// Select returns the repositories named in names, in registry order.
// An empty names selects everything.
func Select(repos []Repository, names []string) ([]Repository, error) {
	if len(names) == 0 {
		return repos, nil
	}

	for _, n := range names {
		if _, ok := Find(repos, n); !ok {
			return nil, fmt.Errorf("repository %q not found (known: %s)", n, strings.Join(Names(repos), ", "))
		}
	}

	var selected []Repository
	for _, r := range repos {
		if slices.Contains(names, r.Name) {
			selected = append(selected, r)
		}
	}
	return selected, nil
}

func (r Repository) String() string {
	return fmt.Sprintf("%s (%s)", r.Name, r.Path)
}
