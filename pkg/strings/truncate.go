package strings

import (
	"strings"
)

// Ellipsis marks a truncated name.
const Ellipsis = "…"

// TruncateName shortens a display name to at most width characters and
// ensures single-line output. Runs of whitespace, including newlines and
// tabs that can appear in file names, collapse to a single space, and a
// truncated name ends in Ellipsis.
//
// The function operates on runes rather than bytes so multi-byte characters
// are never split. A width of zero or less disables truncation but still
// sanitizes whitespace.
//
// Args:
//   - s: The name to truncate
//   - width: Maximum number of characters in the result, including Ellipsis
//
// Returns:
//   - Truncated and sanitized name
func TruncateName(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")

	if width <= 0 {
		return s
	}

	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + Ellipsis
}
