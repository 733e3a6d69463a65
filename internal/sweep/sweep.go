// Package sweep applies an external code formatter to every matching source
// file in a directory, installing the formatter first when it is missing.
package sweep

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/andyballingall/workspace-automation/internal/fs"
	"github.com/andyballingall/workspace-automation/internal/step"
)

const ToolName = "format"

const StepDiscover = "discover"

type Options struct {
	Extension string
	Package   string
	// SkipInstall skips the inspect and install steps entirely.
	SkipInstall bool
}

// Tool runs one formatter sweep per call to Run.
type Tool struct {
	packages  PackageManager
	formatter Formatter
	logger    *slog.Logger
	stdout    io.Writer
	now       func() time.Time
	opts      Options
}

func NewTool(pm PackageManager, f Formatter, logger *slog.Logger, stdout io.Writer, opts Options) *Tool {
	return &Tool{
		packages:  pm,
		formatter: f,
		logger:    logger.With("component", ToolName),
		stdout:    stdout,
		now:       time.Now,
		opts:      opts,
	}
}

// Extension returns the file name suffix the tool formats.
func (t *Tool) Extension() string {
	return t.opts.Extension
}

// Discover lists the files directly in dir that end with ext, sorted by name.
func Discover(dir, ext string) ([]string, error) {
	return fs.FilesWithSuffix(dir, ext)
}

// InspectStep and InstallStep name the dependency steps for pkg.
func InspectStep(pkg string) string { return "inspect " + pkg }
func InstallStep(pkg string) string { return "install " + pkg }

// FormatStep names the step that formats file.
func FormatStep(file string) string { return "format " + file }

// Run ensures the formatter package is installed, re-enumerates the matching
// files and formats each one. One file failing does not stop the sweep, but once
// ctx is cancelled the remaining steps are recorded as skipped.
func (t *Tool) Run(ctx context.Context, dir string) *step.Report {
	r := step.NewReport(ToolName, t.now())
	defer func() { r.Finish(t.now()) }()

	t.ensureInstalled(ctx, r)

	if r.SkipIfDone(ctx, StepDiscover) {
		return r
	}
	files, err := Discover(dir, t.opts.Extension)
	if err != nil {
		r.Record(StepDiscover, err)
	} else {
		r.Add(step.Result{
			Name:   StepDiscover,
			Status: step.StatusOK,
			Detail: fmt.Sprintf("%d %s file(s)", len(files), t.opts.Extension),
		})
	}
	t.logger.Debug("discovered files", "dir", dir, "count", len(files))

	for _, f := range files {
		if r.SkipIfDone(ctx, FormatStep(f)) {
			continue
		}
		r.Add(t.FormatFile(ctx, dir, f))
	}

	return r
}

func (t *Tool) ensureInstalled(ctx context.Context, r *step.Report) {
	pkg := t.opts.Package
	if t.opts.SkipInstall {
		r.Skip(InspectStep(pkg), "install check disabled")
		r.Skip(InstallStep(pkg), "install check disabled")
		return
	}

	if r.SkipIfDone(ctx, InspectStep(pkg)) {
		r.Skip(InstallStep(pkg), step.ReasonInterrupted)
		return
	}
	installed, err := t.packages.IsInstalled(ctx, pkg)
	if err != nil {
		// An unusable inspector is treated as "not installed".
		r.Record(InspectStep(pkg), err)
	} else {
		r.Add(step.Result{Name: InspectStep(pkg), Status: step.StatusOK, Detail: installedDetail(installed)})
	}

	if installed {
		r.Skip(InstallStep(pkg), "already installed")
		return
	}

	if r.SkipIfDone(ctx, InstallStep(pkg)) {
		return
	}
	t.logger.Info(fmt.Sprintf("Installing %s...", pkg))
	r.Record(InstallStep(pkg), t.packages.Install(ctx, pkg))
}

func installedDetail(installed bool) string {
	if installed {
		return "installed"
	}
	return "not installed"
}

// FormatFile prints the file name and runs the formatter on that one file.
func (t *Tool) FormatFile(ctx context.Context, dir, file string) step.Result {
	fmt.Fprintln(t.stdout, file)
	err := t.formatter.Format(ctx, dir, file)
	if err != nil {
		t.logger.Debug("format failed", "file", file, "error", err)
		return step.Result{Name: FormatStep(file), Status: step.StatusFailed, Err: err}
	}
	return step.Result{Name: FormatStep(file), Status: step.StatusOK}
}
