package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tlpswitch/internal/applier"
)

func newOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open",
		Short: "Open the profile folder in the file manager",
		Long: `Opens the profile folder in the desktop file manager, creating it first if
it does not exist yet. Add or edit *.conf files there to manage profiles.`,
		Args: cobra.NoArgs,
		RunE: runOpen,
	}
}

func runOpen(cmd *cobra.Command, args []string) error {
	application, err := newApplication(cmd, false)
	if err != nil {
		return err
	}
	defer application.Close()

	store := application.Services().Store
	if err := store.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create profile folder: %w", err)
	}

	if err := applier.OpenFolder(store.Dir()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Opened %s\n", store.Dir())
	return nil
}
