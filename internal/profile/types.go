package profile

import (
	"errors"
	"fmt"
)

// Extension is the suffix that marks a file in the profile directory as a profile.
const Extension = ".conf"

// Descriptor identifies one profile file found during a directory scan.
type Descriptor struct {
	// ID is the file name without Extension. It is unique within a Set.
	ID string

	// DisplayName is the name shown to the user.
	DisplayName string

	// SourcePath is the absolute path of the profile file.
	SourcePath string
}

// Set is an ordered list of profiles, sorted by display name.
type Set []Descriptor

// Find returns the descriptor with the given id.
func (s Set) Find(id string) (Descriptor, bool) {
	for _, d := range s {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

// IDs returns the profile ids in set order.
func (s Set) IDs() []string {
	ids := make([]string, len(s))
	for i, d := range s {
		ids[i] = d.ID
	}
	return ids
}

// ErrorKind classifies failures of the reconciliation engine.
type ErrorKind string

const (
	// KindNone means no error was recorded.
	KindNone ErrorKind = ""

	// KindDirectoryUnavailable means the profile directory is missing,
	// cannot be created, or cannot be read.
	KindDirectoryUnavailable ErrorKind = "DirectoryUnavailable"

	// KindLiveConfigUnreadable means the live configuration is missing or
	// unreadable. It is treated as "no active profile".
	KindLiveConfigUnreadable ErrorKind = "LiveConfigUnreadable"

	// KindProfileReadFailed means a single profile could not be read and was skipped.
	KindProfileReadFailed ErrorKind = "ProfileReadFailed"

	// KindApplyFailed means the privileged apply was declined or failed.
	KindApplyFailed ErrorKind = "ApplyFailed"
)

// Error is a classified failure with the path it concerns.
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind carried by err, or KindNone.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindNone
}
