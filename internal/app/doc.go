// Package app bootstraps tlpswitch.
//
// It loads the configuration file, initializes logging and builds the
// reconciliation engine: the profile store, the active profile resolver,
// the privileged applier, the optional directory watcher and the
// controller that ties them together.
//
// # Execution
//
// Application.Run starts the controller with the directory watcher and
// blocks until SIGINT, SIGTERM or context cancellation. Published states
// and apply outcomes are logged. When started by systemd as a notify
// service, readiness and shutdown are reported through sd_notify.
//
// One-shot commands use Application.Snapshot instead, which runs a single
// reconciliation pass and returns the resulting state. The controller keeps
// running until Close so that an Apply can follow.
//
// # Configuration
//
// Configuration is read from ~/.config/tlpswitch/config.yaml unless
// Config.ConfigPath names another file. Config.ProfileDir overrides the
// profile directory from the file, and Config.Debug forces debug logging.
package app
