package config

import (
	"fmt"
)

type MissingConfigError struct {
	Path string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("config file not found: %s", e.Path)
}

type InvalidYAMLError struct {
	Wrapped error
	Path    string
}

func (e *InvalidYAMLError) Error() string {
	return fmt.Sprintf("%s is not a valid yaml document: %v", e.Path, e.Wrapped)
}

func (e *InvalidYAMLError) Unwrap() error {
	return e.Wrapped
}

// InvalidConfigError reports a config document that does not match the configuration schema.
type InvalidConfigError struct {
	Wrapped error
	Path    string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("%s is not a valid wsa configuration: %v", e.Path, e.Wrapped)
}

func (e *InvalidConfigError) Unwrap() error {
	return e.Wrapped
}

type MissingPropertyError struct {
	Property string
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("configuration is missing required property: %s", e.Property)
}

type UnknownBackendError struct {
	Backend Backend
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown snapshot backend '%s'. Supported backends are: %v", e.Backend, Backends())
}

type InvalidExtensionError struct {
	Extension string
}

func (e *InvalidExtensionError) Error() string {
	return fmt.Sprintf("invalid source extension '%s': must start with '.' and contain no path separators",
		e.Extension)
}
