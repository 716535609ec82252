package reconciler

import "github.com/zoobzio/capitan"

// Signals emitted by the Controller. Hook them with capitan.Hook to observe
// reconciliation without subscribing to full state snapshots.
var (
	// StatePublished is emitted after every published State.
	StatePublished = capitan.NewSignal(
		"tlpswitch.state.published",
		"A new profile state snapshot was published",
	)

	// ScanCoalesced is emitted when a trigger is folded into a pending pass.
	ScanCoalesced = capitan.NewSignal(
		"tlpswitch.scan.coalesced",
		"A rescan trigger was absorbed by an already pending pass",
	)

	// ApplyStarted is emitted when the privileged apply is launched.
	ApplyStarted = capitan.NewSignal(
		"tlpswitch.apply.started",
		"Applying a profile to the live configuration",
	)

	// ApplySucceeded is emitted when the privileged apply exited cleanly.
	ApplySucceeded = capitan.NewSignal(
		"tlpswitch.apply.succeeded",
		"Profile applied to the live configuration",
	)

	// ApplyFailed is emitted when the privileged apply was declined or failed.
	ApplyFailed = capitan.NewSignal(
		"tlpswitch.apply.failed",
		"Profile apply was declined or failed",
	)
)

// Field keys carried by the signals above.
var (
	KeyProfileID  = capitan.NewStringKey("profile_id")
	KeyRequestID  = capitan.NewStringKey("request_id")
	KeyPhase      = capitan.NewStringKey("phase")
	KeyErrorKind  = capitan.NewStringKey("error_kind")
	KeyError      = capitan.NewStringKey("error")
	KeyGeneration = capitan.NewIntKey("generation")
	KeyProfiles   = capitan.NewIntKey("profiles")
	KeyExitCode   = capitan.NewIntKey("exit_code")
	KeyDuration   = capitan.NewDurationKey("duration")
)
