// Package docs renders the SPEC.md and BUG.md documents placed in a new workspace.
//
// Templates live in <templates>/<kind>/; every file there is rendered into
// the workspace root with a trailing ".tmpl" stripped from its name. Kinds
// without a user directory fall back to the built-in defaults.
package docs

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"
)

//go:embed templates
var builtin embed.FS

// ErrTemplateNotFound is returned when no template exists for a kind.
var ErrTemplateNotFound = errors.New("template not found")

// Data is the set of values available to templates.
type Data struct {
	Workspace string   // workspace name
	Branch    string   // shared branch, e.g. feature/login
	Root      string   // workspace directory
	Repos     []string // repository names with a worktree
	Kind      string   // feature or bug
	Date      string   // creation date, YYYY-MM-DD
}

// values maps placeholder names to values. Templates referencing an unknown
// name fail to render.
func (d Data) values() map[string]any {
	return map[string]any{
		"Workspace": d.Workspace,
		"Branch":    d.Branch,
		"Root":      d.Root,
		"Repos":     d.Repos,
		"Kind":      d.Kind,
		"Date":      d.Date,
	}
}

// Renderer renders document templates.
type Renderer struct {
	TemplatesDir string           // user overrides; may not exist
	Now          func() time.Time // for Data.Date; defaults to time.Now
}

// Render writes the documents for kind into data.Root and returns the
// created file paths. Existing files are left alone.
func (r *Renderer) Render(kind string, data Data) ([]string, error) {
	fsys, err := r.source(kind)
	if err != nil {
		return nil, err
	}

	if data.Kind == "" {
		data.Kind = kind
	}
	if data.Date == "" {
		now := time.Now
		if r.Now != nil {
			now = r.Now
		}
		data.Date = now().Format(time.DateOnly)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read templates for %s: %w", kind, err)
	}

	var created []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path, wrote, err := r.renderOne(fsys, e.Name(), data)
		if err != nil {
			return created, err
		}
		if wrote {
			created = append(created, path)
		}
	}
	if len(created) == 0 && len(entries) == 0 {
		return nil, fmt.Errorf("%s: %w", kind, ErrTemplateNotFound)
	}
	return created, nil
}

// source returns the template directory for kind: the user's if present,
// otherwise the built-in one.
func (r *Renderer) source(kind string) (fs.FS, error) {
	if r.TemplatesDir != "" {
		dir, err := securejoin.SecureJoin(r.TemplatesDir, kind)
		if err != nil {
			return nil, err
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return os.DirFS(dir), nil
		}
	}

	sub, err := fs.Sub(builtin, "templates/"+kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, ErrTemplateNotFound)
	}
	if _, err := fs.ReadDir(sub, "."); err != nil {
		return nil, fmt.Errorf("%s: %w", kind, ErrTemplateNotFound)
	}
	return sub, nil
}

func (r *Renderer) renderOne(fsys fs.FS, name string, data Data) (string, bool, error) {
	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", false, err
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return "", false, fmt.Errorf("parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data.values()); err != nil {
		return "", false, fmt.Errorf("render template %s: %w", name, err)
	}

	target := filepath.Join(data.Root, strings.TrimSuffix(name, ".tmpl"))
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return target, false, nil
		}
		return "", false, err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return "", false, err
	}
	return target, true, f.Close()
}
