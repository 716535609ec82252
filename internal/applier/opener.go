package applier

import (
	"fmt"
	"os/exec"
	"runtime"

	"tlpswitch/pkg/logging"
)

// OpenFolder opens dir in the desktop file manager. It does not wait for the
// file manager; the child is reaped in the background.
func OpenFolder(dir string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd":
		cmd = execCommand("xdg-open", dir)
	case "darwin":
		cmd = execCommand("open", dir)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	if err := cmd.Start(); err != nil {
		logging.Warn(subsystem, "Failed to open %s: %v", dir, err)
		return fmt.Errorf("failed to open folder: %w", err)
	}

	go func() {
		if err := cmd.Wait(); err != nil {
			logging.Debug(subsystem, "File manager for %s exited: %v", dir, err)
		}
	}()

	return nil
}
