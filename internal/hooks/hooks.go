package hooks

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/dmzDAWG/workspaces/internal/cmd"
	"github.com/dmzDAWG/workspaces/internal/config"
	"github.com/dmzDAWG/workspaces/internal/log"
)

// Context holds the values for placeholder substitution.
type Context struct {
	Workspace string
	Path      string // worktree path; the hook's working directory
	Branch    string
	Repo      string
	Source    string // source repository path
	Trigger   string // config.TriggerCreate, TriggerCheckout or TriggerSync
	Env       map[string]string
}

// Match is a hook selected to run.
type Match struct {
	Name string
	Hook config.Hook
}

// Select returns the hooks to run for trigger, sorted by name.
//
// Named hooks run regardless of their "on" list; an unknown name is an
// error. Without names, every hook whose "on" list contains trigger or
// "all" runs. skip disables hooks entirely.
func Select(hooks map[string]config.Hook, trigger string, names []string, skip bool) ([]Match, error) {
	if skip {
		return nil, nil
	}

	var matches []Match
	if len(names) > 0 {
		for _, name := range names {
			h, ok := hooks[name]
			if !ok {
				return nil, fmt.Errorf("unknown hook %q", name)
			}
			matches = append(matches, Match{Name: name, Hook: h})
		}
		return matches, nil
	}

	for name, h := range hooks {
		if slices.Contains(h.On, trigger) || slices.Contains(h.On, config.TriggerAll) {
			matches = append(matches, Match{Name: name, Hook: h})
		}
	}
	slices.SortFunc(matches, func(a, b Match) int { return strings.Compare(a.Name, b.Name) })
	return matches, nil
}

// Run executes matches in order in hc.Path, stopping at the first failure.
// Output is captured; a failing hook's stderr becomes the error message.
func Run(ctx context.Context, matches []Match, hc Context) error {
	l := log.FromContext(ctx)
	for _, m := range matches {
		command := Substitute(m.Hook.Command, hc)
		l.Debug("running hook", "hook", m.Name, "repo", hc.Repo, "command", command)
		if err := cmd.RunContext(ctx, hc.Path, "sh", "-c", command); err != nil {
			return fmt.Errorf("hook %q: %w", m.Name, err)
		}
	}
	return nil
}

// ParseArgs parses --arg key=value pairs.
func ParseArgs(args []string) (map[string]string, error) {
	env := make(map[string]string, len(args))
	for _, a := range args {
		key, value, ok := strings.Cut(a, "=")
		if !ok {
			return nil, fmt.Errorf("invalid argument %q: expected key=value", a)
		}
		if !argKey.MatchString(key) {
			return nil, fmt.Errorf("invalid argument %q: key must be a letter or '_' followed by letters, digits or '_'", a)
		}
		env[key] = value
	}
	return env, nil
}

var (
	argKey = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

	// {key}, {key:raw} or {key:-default}
	placeholder = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_-]*)(?:(:raw)|:-([^}]*))?\}`)
)

// Substitute replaces placeholders in command with shell-quoted values.
// Unknown placeholders without a default become an empty quoted string.
func Substitute(command string, hc Context) string {
	static := map[string]string{
		"path":      hc.Path,
		"branch":    hc.Branch,
		"repo":      hc.Repo,
		"workspace": hc.Workspace,
		"source":    hc.Source,
		"trigger":   hc.Trigger,
	}

	return placeholder.ReplaceAllStringFunc(command, func(match string) string {
		sub := placeholder.FindStringSubmatch(match)
		key, raw, def := sub[1], sub[2] != "", sub[3]

		value, ok := static[key]
		if !ok {
			value, ok = hc.Env[key]
		}
		if !ok {
			value = def
		}
		if raw {
			return value
		}
		return shellquote.Join(value)
	})
}
