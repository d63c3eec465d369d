// Package hooks runs user-defined shell commands in worktrees after ws
// commands.
//
// Hooks are declared in the config and run once per repository, in the
// worktree directory:
//
//	[hooks.deps]
//	command = "mvn -q dependency:go-offline"
//	description = "Warm the Maven cache"
//	on = ["create", "checkout"]   # or "sync", or "all"
//
//	[hooks.notify]
//	command = "notify-send {workspace} {repo}"
//	# no "on": only runs via --hook=notify
//
// # Placeholders
//
// Every value is shell-quoted before substitution:
//
//   - {path}: worktree path
//   - {branch}: workspace branch
//   - {repo}: repository name
//   - {workspace}: workspace name
//   - {source}: source repository path
//   - {trigger}: command that ran the hook
//
// Values passed with --arg key=value are available as {key}, {key:-default}
// (fallback when not passed) and {key:raw} (unquoted).
//
// Hook failures never fail the command that triggered them; callers report
// them as warnings.
package hooks
