// Package ide opens a workspace in the configured IDE.
package ide

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/dmzDAWG/workspaces/internal/log"
	shellquote "github.com/kballard/go-shellquote"
)

// DefaultCommand is looked up on PATH when no command is configured.
const DefaultCommand = "idea"

// ErrNotAvailable is returned when no IDE command can be found.
var ErrNotAvailable = errors.New("IDE not available")

// Launcher starts an IDE on a directory.
type Launcher struct {
	// Command is the configured IDE command line, e.g. "code --new-window".
	// The directory is appended as the last argument. Empty means DefaultCommand.
	Command string

	lookPath func(string) (string, error)
	start    func(*exec.Cmd) error
}

// New returns a Launcher for the configured command line.
func New(command string) *Launcher {
	return &Launcher{Command: command}
}

// Args returns the argv that Launch would run for path.
func (l *Launcher) Args(path string) ([]string, error) {
	command := l.Command
	if command == "" {
		command = DefaultCommand
	}
	argv, err := shellquote.Split(command)
	if err != nil {
		return nil, fmt.Errorf("parse IDE command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return nil, ErrNotAvailable
	}
	return append(argv, path), nil
}

// Launch starts the IDE on path without waiting for it to exit.
// Returns ErrNotAvailable if the IDE binary cannot be found.
func (l *Launcher) Launch(ctx context.Context, path string) error {
	argv, err := l.Args(path)
	if err != nil {
		return err
	}

	lookPath := l.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	bin, err := lookPath(argv[0])
	if err != nil {
		return fmt.Errorf("%s: %w", argv[0], ErrNotAvailable)
	}

	log.FromContext(ctx).Debug("launching IDE", "cmd", shellquote.Join(argv...))

	// Not bound to ctx: the IDE outlives ws.
	c := exec.Command(bin, argv[1:]...)
	c.Dir = path

	start := l.start
	if start == nil {
		start = startDetached
	}
	if err := start(c); err != nil {
		return fmt.Errorf("start %s: %w", argv[0], err)
	}
	return nil
}

func startDetached(c *exec.Cmd) error {
	if err := c.Start(); err != nil {
		return err
	}
	return c.Process.Release()
}
