package cmd

import (
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Watch the profile folder and log the active profile",
		Long: `Runs the reconciliation engine in the foreground.

The profile folder is watched for changes. Every change is debounced and
triggers a new pass that lists the profiles and works out which one matches
the live TLP configuration. Each published state is logged.

When started by systemd as a Type=notify service, readiness is reported
once the engine is running. The command exits on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	application, err := newApplication(cmd, true)
	if err != nil {
		return err
	}

	return application.Run(commandContext(cmd))
}
