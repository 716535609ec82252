package reconciler

import (
	"context"
	"errors"
	"time"

	"github.com/zoobzio/clockz"

	"tlpswitch/internal/applier"
	"tlpswitch/internal/profile"
)

var (
	// ErrUnknownProfile is returned by Apply for an id not in the current set.
	ErrUnknownProfile = errors.New("unknown profile")

	// ErrApplyInProgress is returned by Apply while another apply is running.
	ErrApplyInProgress = errors.New("another profile is being applied")

	// ErrApplySuperseded completes a queued apply replaced by a newer one.
	ErrApplySuperseded = errors.New("apply superseded by a newer request")

	// ErrStopped is returned when the controller is not running.
	ErrStopped = errors.New("controller stopped")
)

// ProfileLister lists the profiles currently available.
type ProfileLister interface {
	List(ctx context.Context) (profile.Set, error)
}

// ActiveResolver works out which profile matches the live configuration.
type ActiveResolver interface {
	Resolve(ctx context.Context, set profile.Set) profile.Resolution
}

// ProfileApplier makes a profile the live configuration.
type ProfileApplier interface {
	Apply(ctx context.Context, req applier.Request) applier.Result
}

// ChangeSource emits a signal whenever the profile directory has changed.
type ChangeSource interface {
	Start(ctx context.Context) (<-chan struct{}, error)
	Stop() error
}

// Config holds configuration for the Controller.
type Config struct {
	// PostApplyDelay is how long to wait after an apply before re-resolving,
	// giving the managed service time to pick up the new file. Zero rescans
	// immediately.
	PostApplyDelay time.Duration

	// Clock drives the post-apply delay. Defaults to the real clock.
	Clock clockz.Clock
}
