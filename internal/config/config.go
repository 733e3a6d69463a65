// Package config loads the optional per-workspace wsa configuration file.
package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/andyballingall/workspace-automation/internal/fs"
	"github.com/andyballingall/workspace-automation/internal/validator"
)

const ConfigFile = ".wsa.yml"

// Environment variables that override values from the config file.
const (
	LabelEnvVar     = "WSA_SNAPSHOT_LABEL"
	GitBinaryEnvVar = "WSA_GIT_BINARY"
	ExtensionEnvVar = "WSA_FORMAT_EXT"
)

// DefaultLabel is the fixed commit label meaning "daily work save".
const DefaultLabel = "일일 작업 저장"

const schemaID = "https://github.com/andyballingall/workspace-automation/config.schema.json"

//go:embed schema.json
var schemaJSON []byte

const DefaultConfigContent = `# wsa workspace configuration
#
# Every key is optional. Anything left out falls back to the defaults shown here.

# Wait for Enter before exiting when run from an interactive terminal.
pause: true

# SNAPSHOT
#
# "wsa snapshot" shows the working tree status, stages everything, commits with
# the message "[YYYY-MM-DD HH:MM] <label>" and pushes the current branch.
snapshot:
  label: "일일 작업 저장"
  backend: cli # cli (git executable) or gogit (built-in, no git executable needed)
  gitBinary: git
  push: true

# FORMAT
#
# "wsa format" rewrites every file in the working directory (not subdirectories)
# whose name ends with the extension, one formatter run per file. The package
# is installed with the installer first if it is not already present.
format:
  extension: .py
  package: autopep8
  installer: pip
  formatter: autopep8
  formatterArgs: ["--in-place", "--aggressive"]
`

type Backend string

const (
	BackendCLI   Backend = "cli"
	BackendGoGit Backend = "gogit"
)

// Backends returns the supported snapshot backends.
func Backends() []Backend {
	return []Backend{BackendCLI, BackendGoGit}
}

type SnapshotConfig struct {
	Label     string  `yaml:"label"`
	Backend   Backend `yaml:"backend"`
	GitBinary string  `yaml:"gitBinary"`
	Push      bool    `yaml:"push"`
}

type FormatConfig struct {
	Extension     string   `yaml:"extension"`
	Package       string   `yaml:"package"`
	Installer     string   `yaml:"installer"`
	Formatter     string   `yaml:"formatter"`
	FormatterArgs []string `yaml:"formatterArgs"`
}

type Config struct {
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Format   FormatConfig   `yaml:"format"`
	Pause    bool           `yaml:"pause"`
	Path     string         `yaml:"-"` // the file the config was read from, empty for defaults
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Pause: true,
		Snapshot: SnapshotConfig{
			Label:     DefaultLabel,
			Backend:   BackendCLI,
			GitBinary: "git",
			Push:      true,
		},
		Format: FormatConfig{
			Extension:     ".py",
			Package:       "autopep8",
			Installer:     "pip",
			Formatter:     "autopep8",
			FormatterArgs: []string{"--in-place", "--aggressive"},
		},
	}
}

var configValidator = sync.OnceValues(func() (validator.Validator, error) {
	c := validator.NewSanthoshCompiler()
	if err := c.AddSchema(schemaID, schemaJSON); err != nil {
		return nil, err
	}
	return c.Compile(schemaID)
})

// Load reads the configuration for the working directory dir.
// If path is empty, dir/.wsa.yml is used when it exists and defaults apply otherwise.
// An explicit path must exist. Environment overrides are applied last.
func Load(dir, path string, env fs.EnvProvider) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, ConfigFile)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if pErr := parse(cfg, path, data); pErr != nil {
			return nil, pErr
		}
		cfg.Path = path
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// defaults
	case errors.Is(err, os.ErrNotExist):
		return nil, &MissingConfigError{Path: path}
	default:
		return nil, err
	}

	if env != nil {
		cfg.applyEnv(env)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parse(cfg *Config, path string, data []byte) error {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return &InvalidYAMLError{Path: path, Wrapped: err}
	}
	if raw == nil {
		// empty document
		return nil
	}

	if err := validateDocument(raw); err != nil {
		return &InvalidConfigError{Path: path, Wrapped: err}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return &InvalidYAMLError{Path: path, Wrapped: err}
	}
	return nil
}

// validateDocument checks a decoded YAML document against the embedded schema.
// The document is round-tripped through JSON so the validator sees JSON types.
func validateDocument(raw interface{}) error {
	v, err := configValidator()
	if err != nil {
		return err
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	doc, err := validator.UnmarshalJSON(data)
	if err != nil {
		return err
	}
	return v.Validate(doc)
}

func (c *Config) applyEnv(env fs.EnvProvider) {
	if v := env.Get(LabelEnvVar); v != "" {
		c.Snapshot.Label = v
	}
	if v := env.Get(GitBinaryEnvVar); v != "" {
		c.Snapshot.GitBinary = v
	}
	if v := env.Get(ExtensionEnvVar); v != "" {
		c.Format.Extension = v
	}
}

// Validate checks the final configuration, including values supplied by env or flags.
func (c *Config) Validate() error {
	if c.Snapshot.Label == "" {
		return &MissingPropertyError{Property: "snapshot.label"}
	}
	if !slices.Contains(Backends(), c.Snapshot.Backend) {
		return &UnknownBackendError{Backend: c.Snapshot.Backend}
	}
	if c.Snapshot.Backend == BackendCLI && c.Snapshot.GitBinary == "" {
		return &MissingPropertyError{Property: "snapshot.gitBinary"}
	}
	if err := ValidateExtension(c.Format.Extension); err != nil {
		return err
	}
	if c.Format.Package == "" {
		return &MissingPropertyError{Property: "format.package"}
	}
	if c.Format.Installer == "" {
		return &MissingPropertyError{Property: "format.installer"}
	}
	if c.Format.Formatter == "" {
		return &MissingPropertyError{Property: "format.formatter"}
	}
	return nil
}

// ValidateExtension checks that ext looks like a file name suffix such as ".py".
func ValidateExtension(ext string) error {
	if len(ext) < 2 || !strings.HasPrefix(ext, ".") || strings.ContainsAny(ext, `/\`) {
		return &InvalidExtensionError{Extension: ext}
	}
	return nil
}
