package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/andyballingall/workspace-automation/internal/config"
	"github.com/andyballingall/workspace-automation/internal/console"
	"github.com/andyballingall/workspace-automation/internal/repo"
	"github.com/andyballingall/workspace-automation/internal/report"
	"github.com/andyballingall/workspace-automation/internal/runner"
	"github.com/andyballingall/workspace-automation/internal/snapshot"
	"github.com/andyballingall/workspace-automation/internal/step"
	"github.com/andyballingall/workspace-automation/internal/sweep"
)

// PausePrompt is shown before waiting for Enter at the end of an interactive run.
const PausePrompt = "Press Enter to exit..."

// ReportOptions control how a step report is rendered.
type ReportOptions struct {
	Output    string // "text" or "json"
	UseColour bool
	Verbose   bool
}

type SnapshotOptions struct {
	ReportOptions
	Label   string
	Backend config.Backend
	NoPush  bool
}

type FormatOptions struct {
	ReportOptions
	Extension   string
	SkipInstall bool
}

// Manager defines the business logic behind the wsa commands.
type Manager interface {
	Snapshot(ctx context.Context, opts SnapshotOptions) error
	Format(ctx context.Context, opts FormatOptions) error
	WatchFormat(ctx context.Context, opts FormatOptions, readyChan chan<- struct{}) error
	Config() *config.Config
	WorkDir() string
	Pause()
}

// Ensure the interface is satisfied.
var _ Manager = (*LazyManager)(nil)

// LazyManager acts as a placeholder for a real Manager implementation, allowing
// for deferred initialization of dependencies.
type LazyManager struct {
	inner Manager
}

func (l *LazyManager) SetInner(m Manager) {
	l.inner = m
}

// HasInner returns true if the inner manager has been set.
// This is used by PersistentPreRunE to skip initialization if already configured (e.g., in tests).
func (l *LazyManager) HasInner() bool {
	return l.inner != nil
}

func (l *LazyManager) check() Manager {
	if l.inner == nil {
		panic("LazyManager accessed before initialization; check command wiring.")
	}
	return l.inner
}

func (l *LazyManager) Snapshot(ctx context.Context, opts SnapshotOptions) error {
	return l.check().Snapshot(ctx, opts)
}

func (l *LazyManager) Format(ctx context.Context, opts FormatOptions) error {
	return l.check().Format(ctx, opts)
}

func (l *LazyManager) WatchFormat(ctx context.Context, opts FormatOptions, readyChan chan<- struct{}) error {
	return l.check().WatchFormat(ctx, opts, readyChan)
}

func (l *LazyManager) Config() *config.Config {
	return l.check().Config()
}

func (l *LazyManager) WorkDir() string {
	return l.check().WorkDir()
}

func (l *LazyManager) Pause() {
	l.check().Pause()
}

// Ensure the interface is satisfied.
var _ Manager = (*CLIManager)(nil)

// CLIManager is the concrete implementation of the Manager interface.
type CLIManager struct {
	logger         *slog.Logger
	cfg            *config.Config
	dir            string
	runner         runner.Runner
	stdin          io.Reader
	stdout         io.Writer
	stderr         io.Writer
	reporterWriter io.Writer
	pause          bool
	isTerminal     func(io.Reader) bool
}

// NewCLIManager creates a CLIManager operating on the resolved working directory dir.
// pause enables the exit prompt; it is still only shown on an interactive terminal.
func NewCLIManager(
	l *slog.Logger,
	cfg *config.Config,
	dir string,
	r runner.Runner,
	stdin io.Reader,
	stdout, stderr io.Writer,
	pause bool,
) *CLIManager {
	return &CLIManager{
		logger:         l,
		cfg:            cfg,
		dir:            dir,
		runner:         r,
		stdin:          stdin,
		stdout:         stdout,
		stderr:         stderr,
		reporterWriter: stdout,
		pause:          pause,
		isTerminal:     stdinIsTerminal,
	}
}

func (m *CLIManager) Config() *config.Config {
	return m.cfg
}

func (m *CLIManager) WorkDir() string {
	return m.dir
}

func (m *CLIManager) Snapshot(ctx context.Context, opts SnapshotOptions) error {
	m.logger.Debug("running snapshot", "dir", m.dir, "label", opts.Label, "backend", opts.Backend,
		"noPush", opts.NoPush)

	label := opts.Label
	if label == "" {
		label = m.cfg.Snapshot.Label
	}
	backend := opts.Backend
	if backend == "" {
		backend = m.cfg.Snapshot.Backend
	}

	gitter, err := m.gitter(backend)
	if err != nil {
		return err
	}

	tool := snapshot.NewTool(gitter, m.logger, m.stdout, snapshot.Options{
		Label: label,
		Push:  m.cfg.Snapshot.Push && !opts.NoPush,
	})
	r := tool.Run(ctx, m.dir)

	return m.finish(ctx, r, opts.ReportOptions, "Snapshot saved")
}

func (m *CLIManager) gitter(b config.Backend) (repo.Gitter, error) {
	switch b {
	case config.BackendCLI:
		return repo.NewCLIGitter(m.runner, m.cfg.Snapshot.GitBinary, m.stdout, m.stderr), nil
	case config.BackendGoGit:
		return repo.NewGoGitter(m.stdout), nil
	default:
		return nil, &config.UnknownBackendError{Backend: b}
	}
}

func (m *CLIManager) sweepTool(opts FormatOptions) (*sweep.Tool, error) {
	ext := opts.Extension
	if ext == "" {
		ext = m.cfg.Format.Extension
	}
	if err := config.ValidateExtension(ext); err != nil {
		return nil, err
	}

	fc := m.cfg.Format
	pm := sweep.NewPipManager(m.runner, fc.Installer, m.stdout, m.stderr)
	f := sweep.NewCLIFormatter(m.runner, fc.Formatter, fc.FormatterArgs, m.stdout, m.stderr)
	return sweep.NewTool(pm, f, m.logger, m.stdout, sweep.Options{
		Extension:   ext,
		Package:     fc.Package,
		SkipInstall: opts.SkipInstall,
	}), nil
}

func (m *CLIManager) Format(ctx context.Context, opts FormatOptions) error {
	m.logger.Debug("running format sweep", "dir", m.dir, "extension", opts.Extension,
		"skipInstall", opts.SkipInstall)

	tool, err := m.sweepTool(opts)
	if err != nil {
		return err
	}
	r := tool.Run(ctx, m.dir)

	return m.finish(ctx, r, opts.ReportOptions, "Formatting complete")
}

// WatchFormat runs one full sweep, then re-formats matching files as they change
// until the context is cancelled. Pass a non-nil readyChan to be notified once
// the watcher is listening.
func (m *CLIManager) WatchFormat(ctx context.Context, opts FormatOptions, readyChan chan<- struct{}) error {
	tool, err := m.sweepTool(opts)
	if err != nil {
		return err
	}

	if rErr := m.writeReport(tool.Run(ctx, m.dir), opts.ReportOptions, "Formatting complete"); rErr != nil {
		return rErr
	}

	watcher := sweep.NewWatcher(tool, m.logger)
	callback := func(res step.Result) {
		if res.Status == step.StatusFailed {
			m.logger.Error("Format failed", "step", res.Name, "error", res.Err)
			return
		}
		m.logger.Info(fmt.Sprintf("✅ %s", res.Name))
	}

	// Forward watcher Ready signal if caller wants notification
	if readyChan != nil {
		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-watcher.Ready:
			case <-done:
				return
			}
			select {
			case readyChan <- struct{}{}:
			case <-done:
			}
		}()
	}

	return watcher.Watch(ctx, m.dir, callback)
}

// finish writes the report and converts a partial failure into an error.
// A cancelled run returns the context's error instead.
func (m *CLIManager) finish(ctx context.Context, r *step.Report, ro ReportOptions, banner string) error {
	if err := m.writeReport(r, ro, banner); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.Outcome() == step.OutcomePartialFailure {
		return &PartialFailureError{Tool: r.Tool, Failed: r.Failed()}
	}
	return nil
}

func (m *CLIManager) writeReport(r *step.Report, ro ReportOptions, banner string) error {
	var reporter step.Reporter
	switch ro.Output {
	case "json":
		reporter = &report.JSONReporter{}
	default:
		reporter = &report.TextReporter{SuccessBanner: banner, Verbose: ro.Verbose, UseColour: ro.UseColour}
	}
	return reporter.Write(m.reporterWriter, r)
}

// Pause waits for Enter when pausing is enabled and stdin is an interactive terminal.
func (m *CLIManager) Pause() {
	if !m.pause || !m.isTerminal(m.stdin) {
		return
	}
	fmt.Fprint(m.stdout, PausePrompt)
	_, _ = bufio.NewReader(m.stdin).ReadString('\n')
}

func stdinIsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && console.IsTerminal(f)
}
