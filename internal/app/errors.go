package app

import (
	"fmt"
	"strings"

	"github.com/andyballingall/workspace-automation/internal/step"
)

// PartialFailureError is returned when a tool finished but one or more of its steps failed.
type PartialFailureError struct {
	Tool   string
	Failed []step.Result
}

func (e *PartialFailureError) Error() string {
	names := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		names = append(names, f.Name)
	}
	return fmt.Sprintf("%s finished with %d failed step(s): %s", e.Tool, len(e.Failed), strings.Join(names, ", "))
}

// ConfigExistsError is returned by init-config when the target file is already present.
type ConfigExistsError struct {
	Path string
}

func (e *ConfigExistsError) Error() string {
	return fmt.Sprintf("%s already exists; use --force to overwrite it", e.Path)
}
