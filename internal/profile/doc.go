// Package profile discovers TLP profile files and works out which of them, if
// any, is the one currently active.
//
// A profile is a file named <id>.conf in the profile directory. Store lists
// them in locale-aware order. Normalize and Equivalent compare configuration
// texts semantically: line order, blank lines, comments and surrounding
// whitespace do not matter, any change to a KEY=VALUE line does. Resolver reads
// the live configuration (normally /etc/tlp.conf) and returns the first
// profile in set order that is equivalent to it.
//
// Nothing in this package is fatal. A missing directory, a missing live
// config or a profile deleted mid-scan all degrade to "no profiles" or "no
// active profile" and are reported through *Error values carrying an
// ErrorKind.
package profile
