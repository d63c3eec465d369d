package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmzDAWG/workspaces/internal/config"
	"github.com/dmzDAWG/workspaces/internal/log"
	"github.com/dmzDAWG/workspaces/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Manage configuration",
		Aliases:     []string{"cfg"},
		GroupID:     GroupConfig,
		Annotations: map[string]string{annotationNoGit: "true"},
		Long: `Manage ws configuration.

Config file: ~/.config/ws/config.toml (--config or WS_CONFIG to override)`,
		Example: `  ws config init      # Create default config
  ws config show      # Show effective config`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
	)

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create default config file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoGit: "true"},
		Example: `  ws config init      # Create ~/.config/ws/config.toml
  ws config init -f   # Overwrite existing config
  ws config init -s   # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			if stdout {
				out.Print(config.Template())
				return nil
			}

			path, _ := cmd.Flags().GetString("config")
			path, err := config.Init(path, force)
			if err != nil {
				return fmt.Errorf("%w (use -f to overwrite)", err)
			}
			log.FromContext(ctx).Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:         "show",
		Short:       "Show effective configuration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoGit: "true"},
		Long: `Show the configuration after defaults, the config file and the root
override are applied, with every path expanded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := validateFormat(format, formatTOML, formatJSON, formatYAML); err != nil {
				return err
			}
			return encode(output.FromContext(ctx).Writer(), format, config.FromContext(ctx))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTOML, "Output format: toml, json or yaml")
	cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{formatTOML, formatJSON, formatYAML}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}
