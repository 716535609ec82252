package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tlpswitch/internal/cli"
)

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply [profile]",
		Short: "Make a profile the live TLP configuration",
		Long: `Copies the named profile over the live TLP configuration with elevated
privileges and restarts TLP. You will be asked to authorize the change.

Without a profile argument an interactive picker is shown when running in
a terminal.

Exit codes:
  0  the profile was applied
  1  general error (unknown profile, configuration problem, ...)
  2  authorization was declined or the privileged command failed`,
		Args: cobra.MaximumNArgs(1),
		RunE: runApply,
	}
	cmd.Flags().BoolP("quiet", "q", false, "Suppress progress output")
	return cmd
}

func runApply(cmd *cobra.Command, args []string) error {
	quiet, err := cmd.Flags().GetBool("quiet")
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

	var profileID string
	switch {
	case len(args) == 1:
		profileID = args[0]
	case cli.IsInteractive():
		profileID, err = cli.SelectProfile(state)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("no profile given; available: %v", state.Profiles.IDs())
	}

	if profileID == state.ActiveProfileID && !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Profile %s is already active, applying again\n", profileID)
	}

	_, err = cli.RunApply(commandContext(cmd), application.Controller(), profileID, cli.ApplyOptions{
		Quiet: quiet,
		Out:   cmd.ErrOrStderr(),
	})
	return err
}
