package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Sync strategies accepted by sync.strategy and --strategy.
const (
	StrategyMerge  = "merge"
	StrategyRebase = "rebase"
)

// BranchConfig holds the branch prefixes for each workspace kind.
type BranchConfig struct {
	Feature string `toml:"feature" json:"feature" yaml:"feature"` // prefix for feature workspaces, e.g. "feature"
	Bug     string `toml:"bug" json:"bug" yaml:"bug"`             // prefix for bug workspaces, e.g. "bug"
}

// CreateConfig holds workspace creation defaults.
type CreateConfig struct {
	Push            bool     `toml:"push" json:"push" yaml:"push"`             // publish new branches with upstream tracking
	Preserve        []string `toml:"preserve" json:"preserve" yaml:"preserve"` // ignored files copied into new worktrees, e.g. ".env"
	PreserveExclude []string `toml:"preserve_exclude" json:"preserve_exclude" yaml:"preserve_exclude"`
}

// SyncConfig holds sync defaults.
type SyncConfig struct {
	Strategy string `toml:"strategy" json:"strategy" yaml:"strategy"` // "merge" or "rebase"
	Push     bool   `toml:"push" json:"push" yaml:"push"`             // push after a successful sync
}

// RemoveConfig holds removal defaults.
type RemoveConfig struct {
	DeleteLocal  bool `toml:"delete_local" json:"delete_local" yaml:"delete_local"`
	DeleteRemote bool `toml:"delete_remote" json:"delete_remote" yaml:"delete_remote"`
}

// IDEConfig configures the IDE launcher.
type IDEConfig struct {
	Command string `toml:"command" json:"command" yaml:"command"` // e.g. "idea" or "code --new-window"; empty = auto-detect
}

// Hook is a shell command run in each worktree after a workspace command.
type Hook struct {
	Command     string   `toml:"command" json:"command" yaml:"command"`
	Description string   `toml:"description" json:"description,omitempty" yaml:"description,omitempty"`
	On          []string `toml:"on" json:"on,omitempty" yaml:"on,omitempty"` // triggers; empty = only via --hook
}

// Hook triggers accepted in hooks.<name>.on.
const (
	TriggerCreate   = "create"
	TriggerCheckout = "checkout"
	TriggerSync     = "sync"
	TriggerAll      = "all"
)

// ValidTriggers lists the accepted hook triggers.
var ValidTriggers = []string{TriggerCreate, TriggerCheckout, TriggerSync, TriggerAll}

// LogConfig configures the trace log file.
type LogConfig struct {
	File       string `toml:"file" json:"file" yaml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" json:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" json:"max_backups" yaml:"max_backups"`
}

// Config holds the ws configuration.
// It is built once at startup and passed by value to every component.
type Config struct {
	Root          string          `toml:"root" json:"root" yaml:"root"`
	ReposDir      string          `toml:"repos_dir" json:"repos_dir" yaml:"repos_dir"`
	WorkspacesDir string          `toml:"workspaces_dir" json:"workspaces_dir" yaml:"workspaces_dir"`
	TemplatesDir  string          `toml:"templates_dir" json:"templates_dir" yaml:"templates_dir"`
	StateDir      string          `toml:"state_dir" json:"state_dir" yaml:"state_dir"`
	Trunk         string          `toml:"trunk" json:"trunk" yaml:"trunk"` // empty = detect per repository
	Remote        string          `toml:"remote" json:"remote" yaml:"remote"`
	Parallel      int             `toml:"parallel" json:"parallel" yaml:"parallel"`
	Branch        BranchConfig    `toml:"branch" json:"branch" yaml:"branch"`
	Create        CreateConfig    `toml:"create" json:"create" yaml:"create"`
	Sync          SyncConfig      `toml:"sync" json:"sync" yaml:"sync"`
	Remove        RemoveConfig    `toml:"remove" json:"remove" yaml:"remove"`
	IDE           IDEConfig       `toml:"ide" json:"ide" yaml:"ide"`
	Log           LogConfig       `toml:"log" json:"log" yaml:"log"`
	Hooks         map[string]Hook `toml:"hooks" json:"hooks,omitempty" yaml:"hooks,omitempty"`
}

// DefaultParallel is the default number of repositories processed at once.
const DefaultParallel = 4

// Default returns the default configuration
func Default() Config {
	return Config{
		Root:          "~/work",
		ReposDir:      "repos",
		WorkspacesDir: "workspaces",
		TemplatesDir:  "templates",
		StateDir:      "~/.ws",
		Remote:        "origin",
		Parallel:      DefaultParallel,
		Branch: BranchConfig{
			Feature: "feature",
			Bug:     "bug",
		},
		Create: CreateConfig{
			Push:            true,
			PreserveExclude: []string{"node_modules", "target", "build", ".gradle"},
		},
		Sync:   SyncConfig{Strategy: StrategyRebase},
		Log: LogConfig{
			File:       "~/.ws/ws.log",
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
	}
}

// ReposPath returns the directory holding source repositories.
func (c Config) ReposPath() string {
	return c.under(c.ReposDir)
}

// WorkspacesPath returns the directory holding workspaces.
func (c Config) WorkspacesPath() string {
	return c.under(c.WorkspacesDir)
}

// TemplatesPath returns the directory holding user-overridable templates.
func (c Config) TemplatesPath() string {
	return c.under(c.TemplatesDir)
}

// HistoryPath returns the path of the workspace history file.
func (c Config) HistoryPath() string {
	return filepath.Join(c.StateDir, "history.json")
}

func (c Config) under(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.Root, dir)
}

// WithRoot returns a copy of c with root replaced (from --root or WS_ROOT).
func (c Config) WithRoot(root string) (Config, error) {
	if root == "" {
		return c, nil
	}
	if err := ValidatePath(root, "root"); err != nil {
		return c, err
	}
	expanded, err := expandPath(root)
	if err != nil {
		return c, fmt.Errorf("expand root: %w", err)
	}
	c.Root = expanded
	return c, nil
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // Empty is allowed (means not configured)
	}
	// Allow ~ paths
	if len(path) >= 1 && path[0] == '~' {
		return nil
	}
	// Must be absolute
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// DefaultPath returns the path to the config file
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ws", "config.toml"), nil
}

// Load reads config from path (DefaultPath when empty).
// Returns the finalized Default() if the file doesn't exist (no error).
// Returns error only if file exists but is invalid.
func Load(path string) (Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return finalize(Default())
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return finalize(Default())
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes TOML data on top of Default() and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	return finalize(cfg)
}

// finalize validates cfg, fills empty values with defaults and expands ~.
func finalize(cfg Config) (Config, error) {
	def := Default()

	for _, f := range []struct {
		value *string
		name  string
	}{
		{&cfg.Root, "root"},
		{&cfg.StateDir, "state_dir"},
		{&cfg.Log.File, "log.file"},
	} {
		if err := ValidatePath(*f.value, f.name); err != nil {
			return Config{}, err
		}
		expanded, err := expandPath(*f.value)
		if err != nil {
			return Config{}, fmt.Errorf("expand %s: %w", f.name, err)
		}
		*f.value = expanded
	}
	if cfg.Root == "" {
		return Config{}, fmt.Errorf("root must not be empty")
	}

	if cfg.ReposDir == "" {
		cfg.ReposDir = def.ReposDir
	}
	if cfg.WorkspacesDir == "" {
		cfg.WorkspacesDir = def.WorkspacesDir
	}
	if cfg.TemplatesDir == "" {
		cfg.TemplatesDir = def.TemplatesDir
	}
	if cfg.Remote == "" {
		cfg.Remote = def.Remote
	}
	if cfg.Parallel == 0 {
		cfg.Parallel = DefaultParallel
	}
	if cfg.Parallel < 0 {
		return Config{}, fmt.Errorf("invalid parallel %d: must be at least 1", cfg.Parallel)
	}

	if cfg.Branch.Feature == "" {
		cfg.Branch.Feature = def.Branch.Feature
	}
	if cfg.Branch.Bug == "" {
		cfg.Branch.Bug = def.Branch.Bug
	}
	if err := validatePrefix(cfg.Branch.Feature, "branch.feature"); err != nil {
		return Config{}, err
	}
	if err := validatePrefix(cfg.Branch.Bug, "branch.bug"); err != nil {
		return Config{}, err
	}

	if cfg.Sync.Strategy == "" {
		cfg.Sync.Strategy = def.Sync.Strategy
	}
	if err := validateEnum(cfg.Sync.Strategy, "sync.strategy", ValidStrategies); err != nil {
		return Config{}, err
	}

	for name, h := range cfg.Hooks {
		if strings.TrimSpace(h.Command) == "" {
			return Config{}, fmt.Errorf("hooks.%s: command must not be empty", name)
		}
		for _, on := range h.On {
			if err := validateEnum(on, "hooks."+name+".on", ValidTriggers); err != nil {
				return Config{}, err
			}
		}
	}

	return cfg, nil
}

const defaultConfig = `# ws configuration

# Root work directory. Must be an absolute path or start with ~.
# Can be overridden per invocation with --root or WS_ROOT.
# root = "~/work"

# Subdirectories of root (absolute paths are used as-is)
# repos_dir = "repos"            # one clone per repository
# workspaces_dir = "workspaces"  # one directory per workspace
# templates_dir = "templates"    # overrides for spec document templates

# Where ws keeps its own state (workspace history)
# state_dir = "~/.ws"

# Trunk branch workspaces are cut from and synced against.
# Empty means detect per repository (origin/HEAD, then main, then master).
# trunk = "master"

# Remote used for fetch, pull and push
# remote = "origin"

# Number of repositories processed at once (1 = sequential)
# parallel = 4

# Branch prefixes: "ws create x" binds branch feature/x, "ws create --bug x" bug/x
# [branch]
# feature = "feature"
# bug = "bug"

# [create]
# push = true   # publish new branches with upstream tracking
# Git-ignored files copied from the source repository into new worktrees,
# matched by base name. Never overwrites; never looks inside preserve_exclude.
# preserve = [".env", "*.local.properties"]
# preserve_exclude = ["node_modules", "target", "build", ".gradle"]

# [sync]
# strategy = "rebase"   # rebase or merge
# push = false          # rebase pushes with --force-with-lease

# [remove]
# delete_local = false
# delete_remote = false

# IDE launched by "ws create --open" and "ws switch --open"
# Empty means look for IntelliJ IDEA ("idea") on PATH.
# [ide]
# command = "idea"

# Hooks run in every new or synced worktree. Placeholders are shell-quoted:
# {path} {branch} {repo} {workspace} {source} {trigger}, and {key} or
# {key:-default} for values passed with --arg key=value.
# Hooks without "on" only run when named with --hook.
# [hooks.deps]
# command = "mvn -q dependency:go-offline"
# description = "Warm the Maven cache"
# on = ["create", "checkout"]

# Trace log of every git command (JSON, rotated)
# [log]
# file = "~/.ws/ws.log"
# max_size_mb = 5
# max_backups = 3
`

// Template returns the commented default config file written by Init.
func Template() string {
	return defaultConfig
}

// Init creates a default config file at path (DefaultPath when empty).
// If force is true, overwrites existing file
// Returns the path to the created file
func Init(path string, force bool) (string, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return "", err
		}
		path = p
	}

	// Check if file already exists (skip if force)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}

	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return "", err
	}

	return path, nil
}
