package cmd

import (
	"github.com/spf13/cobra"

	"github.com/EgalitarianMonkey/hometube-sub000/internal/cli"
)

func newTuiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tui [url|file...]",
		Short:         "Force TUI mode for interactive runs",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MinimumNArgs(1),
		PreRunE:       runPreRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(cmd, args, runMode{
				ForceTUI:   true,
				DryRunOnly: false,
			})
		},
	}
	bindRunFlags(cmd.Flags())
	// '--no-ui' stays accepted here for compatibility but is hidden.
	if f := cmd.Flags().Lookup(cli.FlagNoUI); f != nil {
		f.Hidden = true
	}
	return cmd
}
