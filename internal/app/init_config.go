package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/andyballingall/workspace-automation/internal/config"
	"github.com/andyballingall/workspace-automation/internal/fs"
)

// NewInitConfigCmd returns a new cobra command which writes a default config file.
func NewInitConfigCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   InitConfigCmdName + " [dirpath]",
		Short: "Write a default " + config.ConfigFile + " into the working directory",
		Long: `Write a commented default configuration file. Without an argument the file is
created in the working directory given by --dir (the current directory by default).`,
		Args: cobra.MaximumNArgs(1),
		Example: `
wsa init-config
wsa init-config ./my-project
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var dirpath string
			if f := cmd.Flag("dir"); f != nil {
				dirpath = f.Value.String()
			}
			if len(args) > 0 {
				dirpath = args[0]
			}

			dir, err := fs.ResolveDir(dirpath)
			if err != nil {
				return err
			}

			configPath := filepath.Join(dir, config.ConfigFile)

			if _, statErr := os.Stat(configPath); statErr == nil && !force {
				return &ConfigExistsError{Path: configPath}
			}

			if err := os.WriteFile(configPath, []byte(config.DefaultConfigContent), 0o600); err != nil {
				return fmt.Errorf("failed to write configuration file: %w", err)
			}

			cmd.Printf("Created %s\n", configPath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing configuration file")

	return cmd
}
