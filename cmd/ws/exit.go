package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmzDAWG/workspaces/internal/choice"
	"github.com/dmzDAWG/workspaces/internal/preflight"
	"github.com/dmzDAWG/workspaces/internal/ui/styles"
	"github.com/dmzDAWG/workspaces/internal/workspace"
)

// Exit codes.
const (
	exitOK         = 0
	exitError      = 1 // generic failure, bad arguments, every repository failed
	exitValidation = 2 // preflight refused to start
	exitNotFound   = 3 // workspace does not exist
	exitPartial    = 4 // sync finished but some repositories need attention
)

// usageError marks invalid input: flags, config or arguments.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// partialError reports a batch in which some repositories failed.
type partialError struct {
	op    string
	repos []string
}

func (e *partialError) Error() string {
	return fmt.Sprintf("%s incomplete; needs attention: %s", e.op, strings.Join(e.repos, ", "))
}

// batchError reports a batch in which every repository failed.
type batchError struct {
	op    string
	repos []string
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%s failed for every repository: %s", e.op, strings.Join(e.repos, ", "))
}

// exitCode maps err to the process exit code.
func exitCode(err error) int {
	var (
		verr    *preflight.ValidationError
		partial *partialError
	)
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &verr):
		return exitValidation
	case errors.Is(err, workspace.ErrWorkspaceNotFound):
		return exitNotFound
	case errors.As(err, &partial):
		return exitPartial
	default:
		return exitError
	}
}

// reportError prints err for the user. Preflight failures list every
// repository on its own line.
func reportError(w io.Writer, err error) {
	var verr *preflight.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintf(w, "%s preflight failed, nothing was created:\n", styles.Mark(styles.MarkFailure))
		for _, r := range verr.Failed {
			fmt.Fprintf(w, "  %s: %v\n", r.Repo.Name, r.Err)
		}
		return
	}

	fmt.Fprintf(w, "%s %v\n", styles.Mark(styles.MarkFailure), err)

	var uerr usageError
	if errors.As(err, &uerr) || errors.Is(err, choice.ErrAmbiguous) {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Run 'ws -h' for help")
	}
}
