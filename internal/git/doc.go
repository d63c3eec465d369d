// Package git provides git operations via shell commands.
//
// Mutating operations call the git CLI directly rather than using Go git
// libraries. This ensures compatibility with user configurations (SSH keys,
// credential helpers, hooks, aliases). Read-only HEAD inspection uses
// go-git, which understands linked worktrees without spawning a process.
//
// # Worktree Operations
//
//   - [AddWorktree], [AddWorktreeForBranch]: Create worktrees for new or existing branches
//   - [RemoveWorktree]: Remove worktrees with optional force flag
//   - [PruneWorktrees]: Drop stale administrative entries
//   - [ListWorktreesFromRepo]: Parse "git worktree list --porcelain"
//   - [IsWorktree], [GetMainRepoPath]: Inspect a worktree's .git file
//
// # Branch and Remote Operations
//
//   - [GetCurrentBranch], [HeadBranch], [ReadHeadRef]: Which branch is checked out
//   - [ListBranches]: Local and remote-tracking branch names, for completion
//   - [BranchExists], [IsBranchMerged], [DeleteLocalBranch]
//   - [FetchBranch], [FetchIntoLocal], [PullFFOnly], [Push], [PushSetUpstream], [PushForceWithLease]
//   - [RemoteBranchExists], [DeleteRemoteBranch]
//   - [Rebase], [Merge]: Integrate trunk, reporting conflicts as [*ConflictError]
//
// # Environment
//
//   - [CheckGit]: git on PATH and new enough for "worktree remove"
//   - [Run]: Any other git command, scoped with -C
//   - [ListIgnoredFiles]: Ignored files, for copying into new worktrees
package git
