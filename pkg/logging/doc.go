// Package logging provides subsystem-tagged structured logging for tlpswitch.
//
// It is a thin facade over log/slog. Every entry carries a "subsystem"
// attribute naming the component that produced it, and an "error" attribute
// when one is passed to Error.
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("ProfileStore", "Found %d profiles in %s", n, dir)
//	logging.Debug("Watcher", "Raw event %s", ev)
//	logging.Error("Applier", err, "Failed to apply profile %s", id)
//
// The serve command switches to JSON output with Init(level, FormatJSON, w)
// when configured to, which is convenient under journald.
//
// Calls made before initialization drop debug and info entries and write
// warnings and errors to stderr.
package logging
