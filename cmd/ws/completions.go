package main

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmzDAWG/workspaces/internal/config"
	"github.com/dmzDAWG/workspaces/internal/git"
	"github.com/dmzDAWG/workspaces/internal/registry"
	"github.com/dmzDAWG/workspaces/internal/workspace"
)

// completionConfig loads the config for a completion request. The
// persistent pre-run hook does not run for completions.
func completionConfig(cmd *cobra.Command) (config.Config, bool) {
	g := &globals{}
	g.configPath, _ = cmd.Flags().GetString("config")
	g.root, _ = cmd.Flags().GetString("root")
	cfg, err := loadConfig(g, os.Environ())
	return cfg, err == nil
}

// completeWorkspaceNames completes the first argument with workspace names.
func completeWorkspaceNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg, ok := completionConfig(cmd)
	if !ok {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names, err := workspace.NewCatalog(cfg.WorkspacesPath()).Names()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeRepoNames completes repository names from the registry.
func completeRepoNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, ok := completionConfig(cmd)
	if !ok {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	repos, err := registry.ListRepositories(cfg.ReposPath())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return registry.Names(repos), cobra.ShellCompDirectiveNoFileComp
}

// completeBranches completes branch names found in any registered
// repository. Remote branches are offered without their remote prefix.
func completeBranches(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg, ok := completionConfig(cmd)
	if !ok {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	repos, err := registry.ListRepositories(cfg.ReposPath())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	remotePrefix := cfg.Remote + "/"
	var matches []string
	for _, repo := range repos {
		branches, err := git.ListBranches(repo.Path)
		if err != nil {
			continue
		}
		for _, b := range branches {
			b = strings.TrimPrefix(b, remotePrefix)
			if b == "HEAD" || !strings.HasPrefix(b, toComplete) {
				continue
			}
			matches = append(matches, b)
		}
	}
	slices.Sort(matches)
	return slices.Compact(matches), cobra.ShellCompDirectiveNoFileComp
}
