package git

import (
	"context"

	"github.com/dmzDAWG/workspaces/internal/cmd"
)

// withDir scopes a git invocation to dir via -C so callers never chdir.
func withDir(dir string, args []string) []string {
	if dir == "" {
		return args
	}
	return append([]string{"-C", dir}, args...)
}

func runGit(ctx context.Context, dir string, args ...string) error {
	return cmd.RunContext(ctx, "", "git", withDir(dir, args)...)
}

func outputGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	return cmd.OutputContext(ctx, "", "git", withDir(dir, args)...)
}

// Run runs an arbitrary git command in dir. Failures are *cmd.ExitError
// values carrying git's trimmed stderr.
func Run(ctx context.Context, dir string, args ...string) error {
	return runGit(ctx, dir, args...)
}
