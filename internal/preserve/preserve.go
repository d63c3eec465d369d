// Package preserve copies git-ignored files, such as .env or local IDE
// settings, from a source repository into its new worktrees.
package preserve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/dmzDAWG/workspaces/internal/git"
	"github.com/dmzDAWG/workspaces/internal/log"
)

// Rules selects the ignored files to copy.
type Rules struct {
	Patterns []string // matched against the file's base name, e.g. ".env", "*.local"
	Exclude  []string // path segments never descended into, e.g. "node_modules"
}

// Enabled reports whether any pattern is set.
func (r Rules) Enabled() bool {
	return len(r.Patterns) > 0
}

// Match reports whether the file at relPath is selected.
func (r Rules) Match(relPath string) bool {
	for seg := range strings.SplitSeq(filepath.ToSlash(relPath), "/") {
		if slices.Contains(r.Exclude, seg) {
			return false
		}
	}
	base := filepath.Base(relPath)
	for _, pat := range r.Patterns {
		if ok, _ := filepath.Match(pat, base); ok {
			return true
		}
	}
	return false
}

// Copy copies the ignored files of sourceDir selected by r into targetDir
// and returns their relative paths. Existing files are never overwritten.
// A file that fails to copy is skipped; only listing the ignored files can
// fail the whole copy.
func Copy(ctx context.Context, r Rules, sourceDir, targetDir string) ([]string, error) {
	if !r.Enabled() {
		return nil, nil
	}
	ignored, err := git.ListIgnoredFiles(ctx, sourceDir)
	if err != nil {
		return nil, fmt.Errorf("list ignored files: %w", err)
	}

	l := log.FromContext(ctx)
	var copied []string
	for _, rel := range ignored {
		if !r.Match(rel) {
			continue
		}
		dst, err := securejoin.SecureJoin(targetDir, rel)
		if err != nil {
			l.Debug("preserve: bad path", "file", rel, "error", err)
			continue
		}
		ok, err := copyFile(filepath.Join(sourceDir, rel), dst)
		if err != nil {
			l.Debug("preserve: copy failed", "file", rel, "error", err)
			continue
		}
		if ok {
			copied = append(copied, rel)
		}
	}
	return copied, nil
}

// copyFile copies src to dst with src's permissions, creating parent
// directories. Returns false without error when dst already exists.
func copyFile(src, dst string) (bool, error) {
	info, err := os.Stat(src)
	if err != nil {
		return false, err
	}
	if !info.Mode().IsRegular() {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, err
	}
	in, err := os.Open(src)
	if err != nil {
		out.Close()
		os.Remove(dst)
		return false, err
	}
	defer in.Close()

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return false, err
	}
	return true, out.Close()
}
