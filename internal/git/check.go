package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrGitNotFound indicates git is not installed or not in PATH.
var ErrGitNotFound = errors.New("git not found: please install git (https://git-scm.com)")

// MinVersion is the oldest git that supports `worktree remove`.
var MinVersion = [2]int{2, 17}

// CheckGit verifies that git is on PATH and at least MinVersion.
func CheckGit(ctx context.Context) error {
	if _, err := exec.LookPath("git"); err != nil {
		return ErrGitNotFound
	}
	out, err := outputGit(ctx, "", "version")
	if err != nil {
		return fmt.Errorf("git version: %w", err)
	}
	major, minor, ok := parseVersion(string(out))
	if !ok {
		// unknown builds are given the benefit of the doubt
		return nil
	}
	if major < MinVersion[0] || (major == MinVersion[0] && minor < MinVersion[1]) {
		return fmt.Errorf("git %d.%d is too old: ws needs %d.%d or newer", major, minor, MinVersion[0], MinVersion[1])
	}
	return nil
}

// parseVersion reads "git version 2.39.3 (Apple Git-146)" style output.
func parseVersion(s string) (major, minor int, ok bool) {
	fields := strings.Fields(s)
	if len(fields) < 3 || fields[0] != "git" || fields[1] != "version" {
		return 0, 0, false
	}
	parts := strings.SplitN(fields[2], ".", 3)
	if len(parts) < 2 {
		return 0, 0, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return major, minor, true
}
