// Package applier performs the privileged part of switching profiles.
//
// Apply runs, through a privilege escalation helper such as pkexec:
//
//	sh -c 'cp -- "$1" "$2" && <reload command>' tlpswitch-apply <profile> <live config>
//
// The exit status is the only success signal. Every failure, whether the
// user dismissed the prompt, the copy failed, the reload failed or the helper
// could not be started, is reported uniformly as profile.KindApplyFailed with
// a human-readable detail. The profile content is not validated.
package applier
