package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/dmzDAWG/workspaces/internal/git"
	"github.com/dmzDAWG/workspaces/internal/log"
)

// Entry describes one workspace directory.
type Entry struct {
	Name    string   `json:"name" yaml:"name"`
	Path    string   `json:"path" yaml:"path"`
	Repos   []string `json:"repos" yaml:"repos"` // subdirectories that are worktrees
	Subdirs int      `json:"-" yaml:"-"`         // all subdirectories, worktree or not
}

// Empty reports whether no repository worktree is populated.
func (e Entry) Empty() bool {
	return len(e.Repos) == 0
}

// RepoPath returns the worktree directory of repo.
func (e Entry) RepoPath(repo string) string {
	return filepath.Join(e.Path, repo)
}

// Catalog reads the workspaces directory.
type Catalog struct {
	Dir string
}

// NewCatalog returns a Catalog for dir.
func NewCatalog(dir string) *Catalog {
	return &Catalog{Dir: dir}
}

// List returns every workspace, sorted by name. Empty workspaces are
// included. A missing workspaces directory yields an empty list.
func (c *Catalog) List() ([]Entry, error) {
	dirs, err := os.ReadDir(c.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("read workspaces directory: %w", err)
	}

	entries := make([]Entry, 0, len(dirs))
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		e, err := c.read(d.Name())
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Names returns the workspace names.
func (c *Catalog) Names() ([]string, error) {
	entries, err := c.List()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names, nil
}

// Get returns the named workspace or ErrWorkspaceNotFound.
func (c *Catalog) Get(name string) (Entry, error) {
	path, err := securejoin.SecureJoin(c.Dir, name)
	if err != nil {
		return Entry{}, err
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || filepath.Dir(path) != filepath.Clean(c.Dir) {
		return Entry{}, fmt.Errorf("%w: %s", ErrWorkspaceNotFound, name)
	}
	return c.read(filepath.Base(path))
}

func (c *Catalog) read(name string) (Entry, error) {
	path := filepath.Join(c.Dir, name)
	children, err := os.ReadDir(path)
	if err != nil {
		return Entry{}, fmt.Errorf("read workspace %s: %w", name, err)
	}

	e := Entry{Name: name, Path: path, Repos: []string{}}
	for _, child := range children {
		if !child.IsDir() {
			continue
		}
		e.Subdirs++
		if git.IsWorktree(filepath.Join(path, child.Name())) {
			e.Repos = append(e.Repos, child.Name())
		}
	}
	return e, nil
}

// Cleanup removes workspace directories that have no subdirectories at all.
// Directories holding only files (such as spec documents) are removed; any
// subdirectory, git or not, keeps a workspace. With dryRun nothing is deleted.
// Returns the paths that were (or would be) removed.
func (c *Catalog) Cleanup(ctx context.Context, dryRun bool) ([]string, error) {
	entries, err := c.List()
	if err != nil {
		return nil, err
	}

	l := log.FromContext(ctx)
	var removed []string
	for _, e := range entries {
		if e.Subdirs > 0 {
			continue
		}
		if !dryRun {
			if err := os.RemoveAll(e.Path); err != nil {
				return removed, fmt.Errorf("remove %s: %w", e.Path, err)
			}
			l.Debug("removed empty workspace", "name", e.Name)
		}
		removed = append(removed, e.Path)
	}
	return removed, nil
}
