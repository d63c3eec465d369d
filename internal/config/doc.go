// Package config handles loading and validation of ws configuration.
//
// Configuration is read from ~/.config/ws/config.toml (or the file named by
// --config / WS_CONFIG). Keys missing from the file keep their defaults.
//
// # Configuration Sources (highest priority first)
//
//   - --root flag / WS_ROOT env var: Root work directory
//   - Config file settings
//   - Default values
//
// # Layout
//
// Everything ws manages lives below the root work directory:
//
//	<root>/repos/<repo>            source repositories (one clone each)
//	<root>/workspaces/<name>/      one directory per workspace
//	<root>/workspaces/<name>/<repo> git worktree of <repo> on the workspace branch
//	<root>/templates/<kind>/        overrides for the workspace spec document
//
// # Key Settings
//
//   - root: Root work directory (must be absolute or ~/...)
//   - trunk: Branch workspaces are cut from; empty detects it per repository
//   - remote: Remote used for fetch and push (default: "origin")
//   - parallel: Repositories processed at once (default: 4)
//   - [branch] feature/bug: Branch prefixes per workspace kind
//   - [sync] strategy: "rebase" or "merge"
//
// # Path Validation
//
// Directory paths must be absolute or start with ~ (no relative paths like "."
// or "..") to avoid confusion about the working directory.
package config
