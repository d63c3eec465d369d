package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmzDAWG/workspaces/internal/config"
	"github.com/dmzDAWG/workspaces/internal/git"
	"github.com/dmzDAWG/workspaces/internal/log"
	"github.com/dmzDAWG/workspaces/internal/output"
	"github.com/dmzDAWG/workspaces/internal/ui/styles"
)

// Command group IDs for organizing help output
const (
	GroupCore    = "core"
	GroupUtility = "utility"
	GroupConfig  = "config"
)

// globals holds the persistent flags.
type globals struct {
	verbose    bool
	quiet      bool
	configPath string
	root       string
}

// newRootCmd builds the command tree. stdout receives primary output,
// stderr diagnostics; environ is consulted for WS_* variables and color support.
// The returned finish records the command's error in the trace file and
// closes it; it must run once execution returned, failed or not.
func newRootCmd(stdout, stderr io.Writer, environ []string) (*cobra.Command, func(error) error) {
	g := &globals{}
	var (
		traceLog   *zap.Logger
		closeTrace func() error
	)

	rootCmd := &cobra.Command{
		Use:   "ws",
		Short: "Multi-repository workspaces on git worktrees",
		Long: `ws groups one git worktree per repository into a workspace, all on
the same branch, so a change spanning several repositories can be built,
synced and torn down as a unit.

Layout under the root directory (default ~/work, WS_ROOT or --root):

  repos/<repo>                  source clones
  workspaces/<name>/<repo>      worktrees on feature/<name> or bug/<name>
  templates/<kind>/             overrides for generated spec documents`,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "completion" || cmd.Name() == "help" || cmd.Name() == cobra.ShellCompRequestCmd {
				return nil
			}

			cfg, err := loadConfig(g, environ)
			if err != nil {
				return err
			}
			styles.Init(lookupEnv(environ, "NO_COLOR"))

			runID := uuid.NewString()
			trace, closeFn, err := log.OpenTrace(log.TraceConfig{
				Path:       cfg.Log.File,
				MaxSizeMB:  cfg.Log.MaxSizeMB,
				MaxBackups: cfg.Log.MaxBackups,
			}, runID)
			if err != nil {
				// Tracing is diagnostic only; carry on without it.
				fmt.Fprintf(stderr, "Warning: %v\n", err)
			} else {
				traceLog, closeTrace = trace, closeFn
			}

			logger := log.New(stderr, g.verbose, g.quiet)
			if trace != nil {
				logger.SetTrace(trace)
			}

			ctx := cmd.Context()
			ctx = config.WithConfig(ctx, cfg)
			ctx = log.WithLogger(ctx, logger)
			ctx = output.WithPrinter(ctx, output.NewTerminal(stdout, environ))
			cmd.SetContext(ctx)

			logger.Debug("starting", "command", cmd.CommandPath(), "args", args, "run", runID, "root", cfg.Root)

			if cmd.Annotations[annotationNoGit] == "" {
				return git.CheckGit(ctx)
			}
			return nil
		},
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "Show git commands being executed")
	flags.BoolVarP(&g.quiet, "quiet", "q", false, "Suppress progress output")
	flags.StringVar(&g.configPath, "config", "", "Config file (default ~/.config/ws/config.toml, env WS_CONFIG)")
	flags.StringVar(&g.root, "root", "", "Root work directory (env WS_ROOT)")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Workspace Commands:"},
		&cobra.Group{ID: GroupUtility, Title: "Utility Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	rootCmd.AddCommand(
		newCreateCmd(),
		newCheckoutCmd(),
		newSyncCmd(),
		newRemoveCmd(),
		newListCmd(),
		newSwitchCmd(),
		newStatusCmd(),
		newCleanupCmd(),
		newConfigCmd(),
		newCompletionCmd(),
	)

	return rootCmd, func(err error) error {
		if closeTrace == nil {
			return nil
		}
		if err != nil {
			traceLog.Error("command failed", zap.Error(err), zap.Int("exit", exitCode(err)))
		}
		return closeTrace()
	}
}

// annotationNoGit marks commands that work without a git binary.
const annotationNoGit = "ws/no-git"

// loadConfig reads the config file and applies the root override.
// Precedence: --config over WS_CONFIG, --root over WS_ROOT over the file.
func loadConfig(g *globals, environ []string) (config.Config, error) {
	path := g.configPath
	if path == "" {
		path = lookupEnv(environ, "WS_CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, usageError{err}
	}

	root := g.root
	if root == "" {
		root = lookupEnv(environ, "WS_ROOT")
	}
	cfg, err = cfg.WithRoot(root)
	if err != nil {
		return config.Config{}, usageError{err}
	}
	return cfg, nil
}

func lookupEnv(environ []string, key string) string {
	prefix := key + "="
	for i := len(environ) - 1; i >= 0; i-- {
		if v, ok := strings.CutPrefix(environ[i], prefix); ok {
			return v
		}
	}
	return ""
}

// Execute runs ws and exits with the code matching the error.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Environ())
	cancel()
	os.Exit(code)
}

// run executes args and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, environ []string) int {
	rootCmd, finish := newRootCmd(stdout, stderr, environ)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if cerr := finish(err); cerr != nil {
		fmt.Fprintf(stderr, "Warning: close trace: %v\n", cerr)
	}
	if err == nil {
		return exitOK
	}
	reportError(stderr, err)
	return exitCode(err)
}
