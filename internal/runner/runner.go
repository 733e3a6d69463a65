// Package runner executes external commands on behalf of the wsa tools.
package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"time"
)

// maxStderrCapture bounds how much of a failing command's stderr is kept on the error.
const maxStderrCapture = 4096

// DefaultWaitDelay is how long a killed command's output pipes are kept open for
// processes it started before they are closed and Run returns.
const DefaultWaitDelay = 2 * time.Second

// Command describes a single external process invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory of the process. Empty means the current directory.
	Dir string
	// Stdout and Stderr receive the process output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

// Runner defines the interface for running external commands.
type Runner interface {
	// Run executes the command, streaming its output to the command's writers.
	Run(ctx context.Context, c Command) error

	// Output executes the command and returns its standard output.
	// The command's Stdout writer is ignored.
	Output(ctx context.Context, c Command) (string, error)
}

// Ensure the interface is satisfied.
var _ Runner = (*ExecRunner)(nil)

// ExecRunner is the default Runner, backed by os/exec.
type ExecRunner struct {
	// Timeout bounds each command. Zero means no limit.
	Timeout time.Duration
	// WaitDelay bounds the wait for output pipes after a command is cancelled.
	WaitDelay time.Duration
	// ProcessGroup runs each command in its own process group, so that cancelling
	// it also kills anything it started. Only honoured on unix. Leave it off when
	// commands may prompt on the controlling terminal, as a background process
	// group cannot read from it.
	ProcessGroup bool
}

// NewExecRunner creates a new ExecRunner.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{Timeout: timeout, WaitDelay: DefaultWaitDelay}
}

func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	_, err := r.run(ctx, c, c.Stdout)
	return err
}

func (r *ExecRunner) Output(ctx context.Context, c Command) (string, error) {
	var stdout bytes.Buffer
	_, err := r.run(ctx, c, &stdout)
	if err != nil {
		return "", err
	}
	return stdout.String(), nil
}

func (r *ExecRunner) run(ctx context.Context, c Command, stdout io.Writer) (int, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	stderr := &tailBuffer{limit: maxStderrCapture}

	//nolint:gosec // command names come from validated configuration
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.WaitDelay = r.WaitDelay
	if r.ProcessGroup {
		setProcessGroup(cmd)
	}
	cmd.Stdout = stdout
	if c.Stderr != nil {
		cmd.Stderr = io.MultiWriter(c.Stderr, stderr)
	} else {
		cmd.Stderr = stderr
	}

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	}

	return exitCode, &CommandError{
		Name:     c.Name,
		Args:     c.Args,
		Dir:      c.Dir,
		ExitCode: exitCode,
		Stderr:   stderr.String(),
		Err:      err,
	}
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	buf   []byte
	limit int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = t.buf[over:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}
