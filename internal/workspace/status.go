package workspace

import (
	"context"

	"github.com/dmzDAWG/workspaces/internal/batch"
	"github.com/dmzDAWG/workspaces/internal/config"
	"github.com/dmzDAWG/workspaces/internal/git"
	"github.com/dmzDAWG/workspaces/internal/registry"
)

// RepoStatus is a point-in-time view of one checkout.
type RepoStatus struct {
	Repo       string `json:"repo" yaml:"repo"`
	Path       string `json:"path" yaml:"path"`
	Branch     string `json:"branch" yaml:"branch"`
	Dirty      bool   `json:"dirty" yaml:"dirty"`
	Ahead      int    `json:"ahead" yaml:"ahead"`
	Behind     int    `json:"behind" yaml:"behind"`
	LastCommit string `json:"last_commit,omitempty" yaml:"last_commit,omitempty"`
	Err        error  `json:"-" yaml:"-"`
}

// RegistryStatus reports branch and cleanliness of every source repository.
func RegistryStatus(ctx context.Context, cfg config.Config, repos []registry.Repository) []RepoStatus {
	return batch.Run(ctx, cfg.Parallel, repos, func(ctx context.Context, repo registry.Repository) RepoStatus {
		return inspect(ctx, cfg, repo.Name, repo.Path, repo.Path)
	})
}

// WorkspaceStatus reports every worktree of the named workspace, including
// how far each is ahead of and behind the remote trunk as last fetched.
func WorkspaceStatus(ctx context.Context, cfg config.Config, name string) ([]RepoStatus, error) {
	entry, err := NewCatalog(cfg.WorkspacesPath()).Get(name)
	if err != nil {
		return nil, err
	}
	return batch.Run(ctx, cfg.Parallel, entry.Repos, func(ctx context.Context, repo string) RepoStatus {
		path := entry.RepoPath(repo)
		source, err := git.GetMainRepoPath(path)
		if err != nil {
			return RepoStatus{Repo: repo, Path: path, Err: err}
		}
		return inspect(ctx, cfg, repo, path, source)
	}), nil
}

func inspect(ctx context.Context, cfg config.Config, repo, path, source string) RepoStatus {
	st := RepoStatus{Repo: repo, Path: path}

	b, err := git.GetCurrentBranch(ctx, path)
	if err != nil {
		st.Err = err
		return st
	}
	st.Branch = b

	if st.Dirty, err = git.IsDirty(ctx, path); err != nil {
		st.Err = err
		return st
	}

	// Counts are best-effort: the remote trunk may never have been fetched.
	upstream := cfg.Remote + "/" + trunkFor(ctx, cfg, source)
	if ahead, behind, err := git.AheadBehind(ctx, path, upstream); err == nil {
		st.Ahead, st.Behind = ahead, behind
	}
	st.LastCommit, _ = git.GetLastCommitRelative(ctx, path)
	return st
}
