package cmd

import (
	"github.com/spf13/cobra"

	"tlpswitch/internal/cli"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the active profile",
		Long: `Shows which profile matches the live TLP configuration and reports any
problem found while scanning, such as an unreadable profile folder.`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}
	addOutputFlag(cmd)
	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	options, err := printerOptions(cmd)
	if err != nil {
		return err
	}

	application, err := newApplication(cmd, false)
	if err != nil {
		return err
	}
	defer application.Close()

	state, err := application.Snapshot(commandContext(cmd))
	if err != nil {
		return err
	}

	options.DisplayWidth = application.Settings().DisplayWidth
	printer := cli.NewPrinter(cmd.OutOrStdout(), options)
	return printer.PrintStatus(state)
}
