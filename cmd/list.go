package cmd

import (
	"github.com/spf13/cobra"

	"tlpswitch/internal/cli"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List profiles and mark the active one",
		Long: `Lists the profiles in the profile folder sorted by name, marking the one
that matches the live TLP configuration.

Names longer than displayWidth from the config file are truncated in table
output. Use -o wide to include the profile file paths.`,
		Args: cobra.NoArgs,
		RunE: runList,
	}
	addOutputFlag(cmd)
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
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
	return printer.PrintProfiles(state)
}
