// Package cmd provides helpers for executing shell commands with proper error handling.
//
// Commands run through [exec.CommandContext] with an explicit working
// directory, so callers never depend on the process working directory.
// Stderr is captured and becomes the error message, making command failures
// more informative for users.
//
// # Usage
//
//	if err := cmd.RunContext(ctx, repoPath, "git", "status"); err != nil {
//	    // err contains stderr output if available
//	    return fmt.Errorf("git failed: %w", err)
//	}
//
//	// For commands that return output:
//	out, err := cmd.OutputContext(ctx, repoPath, "git", "branch")
//
// A command that ran but exited nonzero yields an [*ExitError]; use
// [ExitCode] to inspect the code (git ls-remote --exit-code, for example,
// signals "no matching refs" with 2).
//
// # Design Notes
//
// The ws tool shells out to the git CLI rather than using Go libraries for
// mutating operations. This keeps behavior identical to what the user would
// get on the command line (SSH keys, credential helpers, hooks).
package cmd
