// Package reconciler keeps the published TLP profile state consistent with
// the profile directory and the live configuration.
//
// # Overview
//
// The Controller owns a single control goroutine and moves between three
// phases:
//
//   - Idle: nothing is in flight
//   - Scanning: the profile directory is listed and the active profile
//     resolved, or an apply is settling before that pass starts
//   - Applying: a privileged apply is running
//
// Directory changes (from a ChangeSource such as watcher.DirectoryWatcher),
// Refresh calls and Apply calls are all delivered to the control goroutine
// over channels. I/O runs on worker goroutines that report their results
// back the same way, so state is only ever mutated in one place.
//
// # Coalescing
//
// Any number of triggers received while a pass or an apply is in flight set
// a single pending flag and produce exactly one follow-up pass. At most one
// apply is in flight: a second Apply while Applying fails with
// ErrApplyInProgress. An Apply received while Scanning waits for the pass to
// finish; a newer one replaces it and the older request completes with
// ErrApplySuperseded. A queued request whose profile is gone once the pass
// finishes completes with ErrUnknownProfile.
//
// # Publication
//
// Every transition publishes a new immutable State with a strictly increasing
// Generation. Current returns the latest snapshot; Subscribe delivers every
// snapshot, in order, on a dedicated goroutine.
//
// # Observability
//
// Controller.Metrics counts passes, coalesced triggers and apply outcomes.
// The controller also emits capitan signals (StatePublished, ScanCoalesced,
// ApplyStarted, ApplySucceeded, ApplyFailed) which can be hooked with
// capitan.Hook.
//
// Example usage:
//
//	store := profile.NewStore(dir, "und")
//	resolver := profile.NewResolver("/etc/tlp.conf")
//	apl := applier.New(applier.Config{ElevateCommand: []string{"pkexec"}, LiveConfigPath: "/etc/tlp.conf"})
//	ctrl := reconciler.NewController(store, resolver, apl, watcher.New(dir, 0), reconciler.Config{})
//
//	unsubscribe := ctrl.Subscribe(func(s reconciler.State) {
//	    fmt.Println(s.Generation, s.ActiveProfileID)
//	})
//	defer unsubscribe()
//
//	if err := ctrl.Start(ctx); err != nil {
//	    return err
//	}
//	defer ctrl.Stop()
package reconciler
