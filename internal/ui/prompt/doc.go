// Package prompt provides the interactive prompts ws shows on a terminal:
//
//   - [Confirm]: yes/no before destructive operations
//   - [Select]: pick a workspace or repository from a filterable list
//   - [TextInput]: ask for a workspace name
//
// Prompts draw on stderr so stdout stays usable in $(ws switch).
// Callers must check that stdin is a terminal first; see the cmd package.
package prompt
