package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"tlpswitch/internal/reconciler"
)

// ErrNoProfiles is returned by SelectProfile when there is nothing to pick.
var ErrNoProfiles = errors.New("no profiles found")

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// ProfileOptions builds picker entries in set order, marking the active profile.
func ProfileOptions(s reconciler.State) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(s.Profiles))
	for _, d := range s.Profiles {
		label := d.DisplayName
		if d.ID == s.ActiveProfileID {
			label += " (active)"
		}
		options = append(options, huh.NewOption(label, d.ID))
	}
	return options
}

// SelectProfile asks the user to pick a profile.
func SelectProfile(s reconciler.State) (string, error) {
	if len(s.Profiles) == 0 {
		return "", ErrNoProfiles
	}

	selected := s.ActiveProfileID
	err := huh.NewSelect[string]().
		Title("Apply which TLP profile?").
		Options(ProfileOptions(s)...).
		Value(&selected).
		Run()
	if err != nil {
		return "", fmt.Errorf("profile selection cancelled: %w", err)
	}
	return selected, nil
}
