package sweep

import (
	"context"
	"io"
	"slices"

	"github.com/andyballingall/workspace-automation/internal/runner"
)

// Formatter rewrites a single source file in place.
type Formatter interface {
	Format(ctx context.Context, dir, file string) error
}

// Ensure the interface is satisfied.
var _ Formatter = (*CLIFormatter)(nil)

// CLIFormatter runs an external formatter executable once per file,
// e.g. "autopep8 --in-place --aggressive a.py".
type CLIFormatter struct {
	runner runner.Runner
	binary string
	args   []string
	stdout io.Writer
	stderr io.Writer
}

func NewCLIFormatter(r runner.Runner, binary string, args []string, stdout, stderr io.Writer) *CLIFormatter {
	return &CLIFormatter{runner: r, binary: binary, args: slices.Clone(args), stdout: stdout, stderr: stderr}
}

// Format runs the formatter in dir with file as its only path argument.
func (f *CLIFormatter) Format(ctx context.Context, dir, file string) error {
	args := append(slices.Clone(f.args), file)
	return f.runner.Run(ctx, runner.Command{
		Name:   f.binary,
		Args:   args,
		Dir:    dir,
		Stdout: f.stdout,
		Stderr: f.stderr,
	})
}
