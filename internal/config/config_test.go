package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/workspace-automation/internal/fs"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("no config file uses defaults", func(t *testing.T) {
		t.Parallel()
		cfg, err := Load(t.TempDir(), "", nil)
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
		assert.Empty(t, cfg.Path)
	})

	t.Run("explicit path must exist", func(t *testing.T) {
		t.Parallel()
		missing := filepath.Join(t.TempDir(), "custom.yml")
		_, err := Load(t.TempDir(), missing, nil)
		var target *MissingConfigError
		require.ErrorAs(t, err, &target)
		assert.EqualError(t, err, "config file not found: "+missing)
	})

	t.Run("partial file keeps remaining defaults", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := writeConfig(t, dir, `
pause: false
snapshot:
  label: nightly
  push: false
format:
  extension: .go
  formatter: gofumpt
  formatterArgs: ["-w"]
`)
		cfg, err := Load(dir, "", nil)
		require.NoError(t, err)

		assert.Equal(t, path, cfg.Path)
		assert.False(t, cfg.Pause)
		assert.Equal(t, "nightly", cfg.Snapshot.Label)
		assert.False(t, cfg.Snapshot.Push)
		assert.Equal(t, BackendCLI, cfg.Snapshot.Backend)
		assert.Equal(t, "git", cfg.Snapshot.GitBinary)
		assert.Equal(t, ".go", cfg.Format.Extension)
		assert.Equal(t, "gofumpt", cfg.Format.Formatter)
		assert.Equal(t, []string{"-w"}, cfg.Format.FormatterArgs)
		assert.Equal(t, "autopep8", cfg.Format.Package)
	})

	t.Run("empty file uses defaults", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeConfig(t, dir, "")
		cfg, err := Load(dir, "", nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultLabel, cfg.Snapshot.Label)
	})

	t.Run("default config content matches defaults", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := writeConfig(t, dir, DefaultConfigContent)
		cfg, err := Load(dir, "", nil)
		require.NoError(t, err)

		want := Default()
		want.Path = path
		assert.Equal(t, want, cfg)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeConfig(t, dir, "snapshot: {label: from-file}\n")
		env := fs.MapEnvProvider{
			LabelEnvVar:     "from-env",
			GitBinaryEnvVar: "/usr/local/bin/git",
			ExtensionEnvVar: ".rb",
		}
		cfg, err := Load(dir, "", env)
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Snapshot.Label)
		assert.Equal(t, "/usr/local/bin/git", cfg.Snapshot.GitBinary)
		assert.Equal(t, ".rb", cfg.Format.Extension)
	})

	t.Run("invalid extension from environment", func(t *testing.T) {
		t.Parallel()
		_, err := Load(t.TempDir(), "", fs.MapEnvProvider{ExtensionEnvVar: "py"})
		var target *InvalidExtensionError
		require.ErrorAs(t, err, &target)
	})

	invalidTests := []struct {
		name    string
		content string
		errStr  string
	}{
		{
			name:    "invalid yaml",
			content: "invalid: yaml: :",
			errStr:  "is not a valid yaml document",
		},
		{
			name:    "unknown top-level key",
			content: "colour: true\n",
			errStr:  "is not a valid wsa configuration",
		},
		{
			name:    "unknown backend",
			content: "snapshot: {backend: hg}\n",
			errStr:  "is not a valid wsa configuration",
		},
		{
			name:    "empty label",
			content: "snapshot: {label: ''}\n",
			errStr:  "is not a valid wsa configuration",
		},
		{
			name:    "extension without dot",
			content: "format: {extension: py}\n",
			errStr:  "is not a valid wsa configuration",
		},
		{
			name:    "formatter args must be strings",
			content: "format: {formatterArgs: [{a: b}]}\n",
			errStr:  "is not a valid wsa configuration",
		},
		{
			name:    "pause must be boolean",
			content: "pause: sometimes\n",
			errStr:  "is not a valid wsa configuration",
		},
	}

	for _, tt := range invalidTests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)
			_, err := Load(dir, "", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errStr)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(_ *Config) {}},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Snapshot.Backend = "svn" },
			wantErr: "unknown snapshot backend 'svn'",
		},
		{
			name:    "missing label",
			mutate:  func(c *Config) { c.Snapshot.Label = "" },
			wantErr: "snapshot.label",
		},
		{
			name:    "missing git binary for cli backend",
			mutate:  func(c *Config) { c.Snapshot.GitBinary = "" },
			wantErr: "snapshot.gitBinary",
		},
		{
			name: "gogit backend needs no git binary",
			mutate: func(c *Config) {
				c.Snapshot.Backend = BackendGoGit
				c.Snapshot.GitBinary = ""
			},
		},
		{
			name:    "missing formatter",
			mutate:  func(c *Config) { c.Format.Formatter = "" },
			wantErr: "format.formatter",
		},
		{
			name:    "missing installer",
			mutate:  func(c *Config) { c.Format.Installer = "" },
			wantErr: "format.installer",
		},
		{
			name:    "missing package",
			mutate:  func(c *Config) { c.Format.Package = "" },
			wantErr: "format.package",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	for _, ext := range []string{".py", ".go", ".tar.gz"} {
		assert.NoError(t, ValidateExtension(ext), ext)
	}
	for _, ext := range []string{"", ".", "py", "./x", `.a\b`} {
		assert.Error(t, ValidateExtension(ext), ext)
	}
}
