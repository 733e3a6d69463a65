package app

import (
	"fmt"
	"slices"

	"github.com/andyballingall/workspace-automation/internal/config"
)

// formatValue implements pflag.Value to provide a custom type name in help text
// and validation for output formats.
type formatValue string

func (f *formatValue) String() string {
	return string(*f)
}

func (f *formatValue) Set(v string) error {
	if v != "json" && v != "text" {
		return fmt.Errorf("must be 'text' or 'json'")
	}
	*f = formatValue(v)
	return nil
}

func (f *formatValue) Type() string {
	return "<format>"
}

// pathValue implements pflag.Value to provide a custom type name in help text.
type pathValue string

func (p *pathValue) String() string {
	return string(*p)
}

func (p *pathValue) Set(v string) error {
	*p = pathValue(v)
	return nil
}

func (p *pathValue) Type() string {
	return "<path>"
}

// backendValue implements pflag.Value for the snapshot backend.
type backendValue config.Backend

func (b *backendValue) String() string {
	return string(*b)
}

func (b *backendValue) Set(v string) error {
	if !slices.Contains(config.Backends(), config.Backend(v)) {
		return fmt.Errorf("must be one of %v", config.Backends())
	}
	*b = backendValue(v)
	return nil
}

func (b *backendValue) Type() string {
	return "<backend>"
}
