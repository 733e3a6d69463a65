// Package snapshot commits and pushes the current state of a working tree
// with a commit message stamped with the invocation time.
package snapshot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/andyballingall/workspace-automation/internal/repo"
	"github.com/andyballingall/workspace-automation/internal/step"
)

const ToolName = "snapshot"

// TimestampLayout renders as "YYYY-MM-DD HH:MM" with zero-padded fields.
const TimestampLayout = "2006-01-02 15:04"

// Step names, in execution order.
const (
	StepStatus = "status"
	StepAdd    = "add"
	StepCommit = "commit"
	StepPush   = "push"
)

// Timestamp formats t to minute precision, date first.
func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// Message builds the commit message "[<timestamp>] <label>".
func Message(t time.Time, label string) string {
	return fmt.Sprintf("[%s] %s", Timestamp(t), label)
}

type Options struct {
	Label string
	// Push publishes the commit. When false the push step is recorded as skipped.
	Push bool
}

// Tool runs one snapshot cycle per call to Run.
type Tool struct {
	gitter repo.Gitter
	logger *slog.Logger
	stdout io.Writer
	now    func() time.Time
	opts   Options
}

// NewTool creates a snapshot Tool. Status output is written to stdout.
func NewTool(g repo.Gitter, logger *slog.Logger, stdout io.Writer, opts Options) *Tool {
	return &Tool{
		gitter: g,
		logger: logger.With("component", ToolName),
		stdout: stdout,
		now:    time.Now,
		opts:   opts,
	}
}

// Run captures the current time, then shows status, stages, commits and pushes.
// Every step is attempted once even if an earlier one failed; failures are
// recorded in the returned report rather than aborting the run. Once ctx is
// cancelled the remaining steps are recorded as skipped.
func (t *Tool) Run(ctx context.Context, dir string) *step.Report {
	start := t.now()
	msg := Message(start, t.opts.Label)
	r := step.NewReport(ToolName, start)
	t.logger.Debug("starting snapshot", "dir", dir, "message", msg)

	t.run(ctx, r, StepStatus, "", func() error { return t.gitter.Status(ctx, dir, t.stdout) })
	t.run(ctx, r, StepAdd, "", func() error { return t.gitter.AddAll(ctx, dir) })
	t.run(ctx, r, StepCommit, msg, func() error { return t.gitter.Commit(ctx, dir, msg) })

	if t.opts.Push {
		t.run(ctx, r, StepPush, "", func() error { return t.gitter.Push(ctx, dir) })
	} else {
		r.Skip(StepPush, "push disabled")
	}

	r.Finish(t.now())
	return r
}

func (t *Tool) run(ctx context.Context, r *step.Report, name, detail string, fn func() error) {
	if r.SkipIfDone(ctx, name) {
		return
	}
	err := fn()
	res := step.Result{Name: name, Status: step.StatusOK, Detail: detail}
	if err != nil {
		res.Status = step.StatusFailed
		res.Err = err
		t.logger.Debug("snapshot step failed", "step", name, "error", err)
	}
	r.Add(res)
}
