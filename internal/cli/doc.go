// Package cli provides the output and interaction helpers used by the
// tlpswitch commands.
//
// Printer renders controller state as a styled table (go-pretty), JSON or
// YAML. Profile names are truncated to the configured display width.
//
// RunApply drives an apply from the command line: it shows a spinner while
// the privileged process waits for authorization and reports the outcome.
// A declined or failed apply is returned as *ApplyFailedError so commands
// can exit with a dedicated code.
//
// SelectProfile offers an interactive picker (huh) when a command needs a
// profile and none was given on the command line.
package cli
