package app

import (
	"github.com/spf13/cobra"

	"github.com/andyballingall/workspace-automation/internal/config"
)

func NewSnapshotCmd(mgr Manager) *cobra.Command {
	var label string
	var noPush bool
	var verbose bool
	backendVal := backendValue("")

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Commit and push everything in the working directory with a timestamped message",
		Long: `
Show the git status of the working directory, stage every change (including new and
deleted files), commit with the message "[YYYY-MM-DD HH:MM] ` + config.DefaultLabel + `" and push
the current branch to its upstream.

Every step runs even when an earlier one fails. The report lists each step and wsa exits
with status 1 if any of them failed.`,
		Args:        cobra.NoArgs,
		Annotations: pauseOnExit,
		Example: `
wsa snapshot
wsa snapshot --label "end of sprint" --no-push
wsa -C ~/projects/site snapshot --backend gogit`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return mgr.Snapshot(cmd.Context(), SnapshotOptions{
				ReportOptions: reportOptions(cmd, verbose),
				Label:         label,
				Backend:       config.Backend(backendVal),
				NoPush:        noPush,
			})
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Commit message label (default from config, \""+config.DefaultLabel+"\")")
	cmd.Flags().Var(&backendVal, "backend", "Git backend (cli, gogit)")
	cmd.Flags().BoolVar(&noPush, "no-push", false, "Commit without pushing")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show timing details in the report")

	return cmd
}
