package reconciler

import (
	"time"

	"tlpswitch/internal/profile"
)

// Phase is the controller's position in its state machine.
type Phase string

const (
	// PhaseIdle means nothing is in flight.
	PhaseIdle Phase = "Idle"

	// PhaseScanning means a reconciliation pass is in flight.
	PhaseScanning Phase = "Scanning"

	// PhaseApplying means a privileged apply is in flight or settling.
	PhaseApplying Phase = "Applying"
)

// State is an immutable snapshot published by the Controller. A new value
// replaces the previous one as a whole; fields are never updated in place.
type State struct {
	// Profiles is the profile set found by the latest pass.
	Profiles profile.Set

	// ActiveProfileID is the id of the profile matching the live
	// configuration, empty when none matches.
	ActiveProfileID string

	// LastError classifies the most relevant failure of the latest pass, or
	// of the apply that preceded it.
	LastError profile.ErrorKind

	// LastErrorDetail is a human-readable description of LastError.
	LastErrorDetail string

	// Phase is the controller phase when the snapshot was taken.
	Phase Phase

	// Generation increases by one with every published snapshot.
	Generation uint64

	// UpdatedAt is when the snapshot was published.
	UpdatedAt time.Time
}

// Active returns the descriptor of the active profile.
func (s State) Active() (profile.Descriptor, bool) {
	if s.ActiveProfileID == "" {
		return profile.Descriptor{}, false
	}
	return s.Profiles.Find(s.ActiveProfileID)
}

// Subscriber receives every published State in publication order.
type Subscriber func(State)
