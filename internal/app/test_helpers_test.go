package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/andyballingall/workspace-automation/internal/config"
	"github.com/andyballingall/workspace-automation/internal/runner"
)

type MockManager struct {
	mock.Mock
	cfg *config.Config
	dir string
}

func (m *MockManager) Snapshot(ctx context.Context, opts SnapshotOptions) error {
	args := m.Called(ctx, opts)
	return args.Error(0)
}

func (m *MockManager) Format(ctx context.Context, opts FormatOptions) error {
	args := m.Called(ctx, opts)
	return args.Error(0)
}

func (m *MockManager) WatchFormat(ctx context.Context, opts FormatOptions, readyChan chan<- struct{}) error {
	args := m.Called(ctx, opts, readyChan)
	return args.Error(0)
}

func (m *MockManager) Config() *config.Config {
	if m.cfg == nil {
		return config.Default()
	}
	return m.cfg
}

func (m *MockManager) WorkDir() string {
	return m.dir
}

func (m *MockManager) Pause() {
	m.Called()
}

// scriptedRunner answers every command with the result of respond and records what it ran.
type scriptedRunner struct {
	mu      sync.Mutex
	cmds    []runner.Command
	respond func(c runner.Command) (string, error)
}

func (s *scriptedRunner) exec(c runner.Command) (string, error) {
	s.mu.Lock()
	s.cmds = append(s.cmds, c)
	s.mu.Unlock()
	if s.respond == nil {
		return "", nil
	}
	return s.respond(c)
}

func (s *scriptedRunner) Run(_ context.Context, c runner.Command) error {
	out, err := s.exec(c)
	if out != "" && c.Stdout != nil {
		_, _ = io.WriteString(c.Stdout, out)
	}
	return err
}

func (s *scriptedRunner) Output(_ context.Context, c runner.Command) (string, error) {
	return s.exec(c)
}

// commands returns each recorded command as "name arg1 arg2 ...".
func (s *scriptedRunner) commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.cmds))
	for _, c := range s.cmds {
		out = append(out, strings.TrimSpace(c.Name+" "+strings.Join(c.Args, " ")))
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// failOn returns a respond func which fails commands whose arguments start with prefix.
// An empty prefix fails nothing. "list" commands report autopep8 as installed.
func failOn(prefix string, err error) func(runner.Command) (string, error) {
	return func(c runner.Command) (string, error) {
		if prefix != "" && strings.HasPrefix(strings.Join(c.Args, " "), prefix) {
			return "", err
		}
		if len(c.Args) > 0 && c.Args[0] == "list" {
			return `[{"name":"autopep8","version":"2.3.1"}]`, nil
		}
		return "", nil
	}
}

// safeBuffer is a bytes.Buffer that may be written from watcher goroutines.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
