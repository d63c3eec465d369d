package main

import (
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/dmzDAWG/workspaces/internal/config"
	"github.com/dmzDAWG/workspaces/internal/history"
	"github.com/dmzDAWG/workspaces/internal/log"
	"github.com/dmzDAWG/workspaces/internal/output"
)

func newSwitchCmd() *cobra.Command {
	var (
		open bool
		copy bool
	)

	cmd := &cobra.Command{
		Use:               "switch [workspace]",
		Short:             "Print a workspace path",
		Aliases:           []string{"cd"},
		GroupID:           GroupCore,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeWorkspaceNames,
		Long: `Print the path of a workspace, for use with cd.

The name may be abbreviated; ambiguous names prompt for a choice, with the
most used workspaces first. Without a name, the workspace you are in is
used, otherwise the one you switched to last.

Shell integration:

  wsd() { cd "$(ws switch "$@")"; }`,
		Example: `  cd "$(ws switch login)"
  ws switch login --open   # also open it in the IDE
  ws switch login --copy   # copy the path to the clipboard`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			l := log.FromContext(ctx)

			var supplied string
			if len(args) > 0 {
				supplied = args[0]
			} else if currentWorkspace(cfg) == "" {
				supplied = recentWorkspace(cfg)
			}
			entry, err := resolveWorkspace(ctx, cfg, supplied, matchFuzzy)
			if err != nil {
				return err
			}

			if copy {
				if err := clipboard.WriteAll(entry.Path); err != nil {
					l.Printf("Warning: copy to clipboard: %v\n", err)
				} else {
					l.Printf("Copied %s\n", entry.Path)
				}
			}

			finishWorkspace(cmd, cfg, entry.Name, entry.Path, open)
			output.FromContext(ctx).Println(entry.Path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&open, "open", "o", false, "Open the workspace in the IDE")
	cmd.Flags().BoolVarP(&copy, "copy", "c", false, "Copy the path to the clipboard")

	return cmd
}

// recentWorkspace returns the most recently visited workspace that still
// exists, or "".
func recentWorkspace(cfg config.Config) string {
	h, err := history.Load(cfg.HistoryPath())
	if err != nil {
		return ""
	}
	e, ok := h.MostRecent()
	if !ok {
		return ""
	}
	return e.Workspace
}
