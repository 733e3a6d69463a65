package app

import (
	"github.com/spf13/cobra"
)

func NewFormatCmd(mgr Manager) *cobra.Command {
	var ext string
	var watch bool
	var skipInstall bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "format",
		Short: "Format every matching source file in the working directory",
		Long: `
Check that the formatter package is installed and install it if it is missing, then
run the formatter in place on each file in the working directory whose name ends with
the source extension. Subdirectories are not searched. Each file name is printed
before the formatter runs on it.`,
		Args:        cobra.NoArgs,
		Annotations: pauseOnExit,
		Example: `
wsa format
wsa format --ext .pyw
wsa format --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := FormatOptions{
				ReportOptions: reportOptions(cmd, verbose),
				Extension:     ext,
				SkipInstall:   skipInstall,
			}

			if watch {
				return mgr.WatchFormat(cmd.Context(), opts, nil)
			}

			return mgr.Format(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&ext, "ext", "", "Source file extension (default from config, \".py\")")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep running and format files as they are saved")
	cmd.Flags().BoolVar(&skipInstall, "skip-install", false, "Do not check for or install the formatter package")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show timing details in the report")

	return cmd
}
