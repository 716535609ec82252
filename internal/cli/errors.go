package cli

import "fmt"

// ApplyFailedError indicates that the privileged apply was declined or
// failed. Commands map it to a dedicated exit code.
type ApplyFailedError struct {
	// ProfileID is the profile that was not applied.
	ProfileID string
	// Detail describes the failure.
	Detail string
	// ExitCode is the exit status of the privileged process, -1 if it never ran.
	ExitCode int
}

func (e *ApplyFailedError) Error() string {
	return fmt.Sprintf("profile %s was not applied: %s", e.ProfileID, e.Detail)
}
