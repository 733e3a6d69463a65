package sweep

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/andyballingall/workspace-automation/internal/runner"
)

// PackageManager inspects and installs the package that provides the formatter.
type PackageManager interface {
	// IsInstalled reports whether pkg is present.
	IsInstalled(ctx context.Context, pkg string) (bool, error)
	// Install installs pkg.
	Install(ctx context.Context, pkg string) error
}

// Ensure the interface is satisfied.
var _ PackageManager = (*PipManager)(nil)

// PipManager implements PackageManager with pip.
type PipManager struct {
	runner runner.Runner
	binary string
	stdout io.Writer
	stderr io.Writer
}

// NewPipManager creates a PipManager that runs binary (usually "pip").
func NewPipManager(r runner.Runner, binary string, stdout, stderr io.Writer) *PipManager {
	if binary == "" {
		binary = "pip"
	}
	return &PipManager{runner: r, binary: binary, stdout: stdout, stderr: stderr}
}

// IsInstalled reads "pip list --format=json" and looks for pkg by normalised name.
func (p *PipManager) IsInstalled(ctx context.Context, pkg string) (bool, error) {
	out, err := p.runner.Output(ctx, runner.Command{
		Name:   p.binary,
		Args:   []string{"list", "--format=json", "--disable-pip-version-check"},
		Stderr: p.stderr,
	})
	if err != nil {
		return false, err
	}

	if !gjson.Valid(out) || !gjson.Parse(out).IsArray() {
		return false, &InvalidInspectorOutputError{Binary: p.binary, Output: out}
	}

	want := normalizePackageName(pkg)
	found := false
	gjson.Parse(out).ForEach(func(_, entry gjson.Result) bool {
		if normalizePackageName(entry.Get("name").String()) == want {
			found = true
			return false
		}
		return true
	})
	return found, nil
}

func (p *PipManager) Install(ctx context.Context, pkg string) error {
	return p.runner.Run(ctx, runner.Command{
		Name:   p.binary,
		Args:   []string{"install", pkg},
		Stdout: p.stdout,
		Stderr: p.stderr,
	})
}

// normalizePackageName lower-cases a package name and treats "-", "_" and "." alike.
func normalizePackageName(name string) string {
	return strings.NewReplacer("_", "-", ".", "-").Replace(strings.ToLower(strings.TrimSpace(name)))
}

// InvalidInspectorOutputError is returned when the package inspector prints something other than a JSON list.
type InvalidInspectorOutputError struct {
	Binary string
	Output string
}

func (e *InvalidInspectorOutputError) Error() string {
	out := strings.TrimSpace(e.Output)
	if len(out) > 80 {
		out = out[:80] + "..."
	}
	return fmt.Sprintf("%s list did not return a JSON package list: %q", e.Binary, out)
}
