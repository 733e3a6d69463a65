package app

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/andyballingall/workspace-automation/internal/config"
	"github.com/andyballingall/workspace-automation/internal/fs"
	"github.com/andyballingall/workspace-automation/internal/runner"
)

// Version is the current version of wsa, set at build time.
var Version = "dev"

const InitConfigCmdName = "init-config"

var LongDescription = `
wsa automates two everyday chores in a workspace directory:

  snapshot  show the git status, stage everything, commit it with a timestamped
            message and push it.
  format    make sure the formatter is installed, then format every matching
            source file in the directory, one file at a time.

Every step is attempted and reported. If any step fails, wsa exits with status 1.
`

// NewRootCmd creates the root command and wires up dependencies.
func NewRootCmd(
	lazy *LazyManager,
	ll *slog.LevelVar,
	stdin io.Reader,
	stdout, stderr io.Writer,
	envProvider fs.EnvProvider,
) *cobra.Command {
	var debug bool
	var noColour bool
	var noPause bool
	var timeout time.Duration
	dirPath := pathValue("")
	configPath := pathValue("")
	outputVal := formatValue("text")

	rootCmd := &cobra.Command{
		Use:           "wsa",
		Short:         "Workspace automation: timestamped git snapshots and formatter sweeps",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Long:          LongDescription,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for help, completion and init-config commands
			if cmd.Name() == "help" || isCompletionCommand(cmd) || cmd.Name() == InitConfigCmdName {
				return nil
			}
			// Skip if already initialised (e.g., in tests)
			if lazy.HasInner() {
				if debug {
					ll.Set(slog.LevelDebug)
				}
				return nil
			}

			// 1. Setup Logging
			if debug {
				ll.Set(slog.LevelDebug)
			}

			logger, _, err := setupLogger(stderr, ll, envProvider)
			if err != nil {
				logger.Warn("logging to file disabled", "error", err)
			}

			// 2. Resolve the workspace and its configuration
			dir, err := fs.ResolveDir(string(dirPath))
			if err != nil {
				return fmt.Errorf("invalid working directory: %w", err)
			}

			cfg, err := config.Load(dir, string(configPath), envProvider)
			if err != nil {
				return err
			}
			logger.Debug("workspace resolved", "dir", dir, "config", cfg.Path)

			// 3. Hydrate the Lazy Wrapper
			r := runner.NewExecRunner(timeout)
			// Children on a terminal stay in the foreground group so git and ssh can prompt.
			r.ProcessGroup = !stdinIsTerminal(stdin)
			realMgr := NewCLIManager(logger, cfg, dir, r, stdin, stdout, stderr, cfg.Pause && !noPause)
			lazy.SetInner(realMgr)

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().VarP(&dirPath, "dir", "C", "Working directory (default is the current directory)")
	rootCmd.PersistentFlags().Var(&configPath, "config",
		"Config file (default is "+config.ConfigFile+" in the working directory, if present)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().VarP(&outputVal, "output", "o", "Report format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&noPause, "no-pause", false, "Never wait for Enter before exiting")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0,
		"Maximum run time for each external command (0 means no limit)")

	rootCmd.PersistentFlags().BoolVarP(&noColour, "nocolour", "c", false, "Disable colour in output")
	// Support alternate spellings
	rootCmd.PersistentFlags().BoolVar(&noColour, "nocolor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColour", false, "")
	_ = rootCmd.PersistentFlags().MarkHidden("nocolor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColour")

	// Subcommands
	rootCmd.AddCommand(NewInitConfigCmd())
	rootCmd.AddCommand(NewSnapshotCmd(lazy))
	rootCmd.AddCommand(NewFormatCmd(lazy))

	return rootCmd
}

// isCompletionCommand returns true if the command or any of its parents is the "completion" command.
func isCompletionCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "completion" {
			return true
		}
	}
	return false
}

// reportOptions reads the global report flags for cmd.
func reportOptions(cmd *cobra.Command, verbose bool) ReportOptions {
	ro := ReportOptions{Output: "text", UseColour: true, Verbose: verbose}
	if f := cmd.Flag("output"); f != nil {
		ro.Output = f.Value.String()
	}
	if noColour, err := cmd.Flags().GetBool("nocolour"); err == nil {
		ro.UseColour = !noColour
	}
	return ro
}
