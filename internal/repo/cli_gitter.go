package repo

import (
	"context"
	"io"

	"github.com/andyballingall/workspace-automation/internal/runner"
)

// Ensure the interface is satisfied.
var _ Gitter = (*CLIGitter)(nil)

// CLIGitter is the concrete implementation of Gitter using the git CLI.
// Output from git is passed through so users see git's own diagnostics.
type CLIGitter struct {
	runner runner.Runner
	binary string
	stdout io.Writer
	stderr io.Writer
}

// NewCLIGitter creates a new CLIGitter that runs binary (usually "git").
func NewCLIGitter(r runner.Runner, binary string, stdout, stderr io.Writer) *CLIGitter {
	if binary == "" {
		binary = "git"
	}
	return &CLIGitter{runner: r, binary: binary, stdout: stdout, stderr: stderr}
}

func (g *CLIGitter) git(ctx context.Context, dir string, stdout io.Writer, args ...string) error {
	return g.runner.Run(ctx, runner.Command{
		Name:   g.binary,
		Args:   args,
		Dir:    dir,
		Stdout: stdout,
		Stderr: g.stderr,
	})
}

func (g *CLIGitter) Status(ctx context.Context, dir string, w io.Writer) error {
	return g.git(ctx, dir, w, "status")
}

// AddAll stages everything under dir. "-A" includes deletions and untracked files.
func (g *CLIGitter) AddAll(ctx context.Context, dir string) error {
	return g.git(ctx, dir, g.stdout, "add", "-A", ".")
}

func (g *CLIGitter) Commit(ctx context.Context, dir, message string) error {
	return g.git(ctx, dir, g.stdout, "commit", "-m", message)
}

func (g *CLIGitter) Push(ctx context.Context, dir string) error {
	return g.git(ctx, dir, g.stdout, "push")
}
