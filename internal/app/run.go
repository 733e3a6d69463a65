package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/andyballingall/workspace-automation/internal/fs"
)

// pauseAnnotation marks commands that wait for Enter before wsa exits.
const pauseAnnotation = "wsa/pause"

var pauseOnExit = map[string]string{pauseAnnotation: "true"}

func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, envProvider fs.EnvProvider) error {
	// Local lazy instance ensures t.Parallel() safety
	return run(ctx, &LazyManager{}, args, stdin, stdout, stderr, envProvider)
}

func run(
	ctx context.Context,
	lazy *LazyManager,
	args []string,
	stdin io.Reader,
	stdout, stderr io.Writer,
	envProvider fs.EnvProvider,
) error {
	logLevel := &slog.LevelVar{}
	logLevel.Set(slog.LevelInfo)

	if envProvider == nil {
		envProvider = fs.NewEnvProvider()
	}

	rootCmd := NewRootCmd(lazy, logLevel, stdin, stdout, stderr, envProvider)
	rootCmd.SetArgs(args[1:]) // Skip the program name
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	executed, err := rootCmd.ExecuteContextC(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(stderr, "Interrupted by user")
			return nil
		}
		// Print error to stderr for script tests and CLI users (SilenceErrors is set)
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}

	// Pause last so the report and any error stay visible until Enter is pressed.
	if ctx.Err() == nil && executed != nil && executed.Annotations[pauseAnnotation] != "" && lazy.HasInner() {
		lazy.Pause()
	}

	return err
}
