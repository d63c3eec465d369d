package main

import (
	"github.com/spf13/cobra"

	"github.com/dmzDAWG/workspaces/internal/config"
	"github.com/dmzDAWG/workspaces/internal/log"
	"github.com/dmzDAWG/workspaces/internal/output"
	"github.com/dmzDAWG/workspaces/internal/workspace"
)

func newCleanupCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "cleanup",
		Short:   "Delete empty workspace directories",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Long: `Delete workspace directories that contain no subdirectories, such as
the leftovers of a create in which every repository failed.

A directory holding only files (spec documents) counts as empty; any
subdirectory keeps the workspace.`,
		Example: `  ws cleanup --dry-run   # show what would be deleted
  ws cleanup`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			removed, err := workspace.NewCatalog(cfg.WorkspacesPath()).Cleanup(ctx, dryRun)
			for _, path := range removed {
				out.Println(path)
			}
			if err != nil {
				return err
			}

			switch {
			case len(removed) == 0:
				l.Println("Nothing to clean up")
			case dryRun:
				l.Printf("Would remove %d workspace(s)\n", len(removed))
			default:
				l.Printf("Removed %d workspace(s)\n", len(removed))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Only show what would be deleted")

	return cmd
}
