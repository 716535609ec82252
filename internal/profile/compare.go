package profile

import (
	"sort"
	"strings"
)

// Normalize reduces a TLP configuration text to its sorted key/value lines.
//
// Lines are trimmed; empty lines, comment lines and lines without '=' are
// dropped; the rest are sorted bytewise and joined with '\n'. A text without
// any key/value line normalizes to "".
func Normalize(content string) string {
	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || !strings.Contains(trimmed, "=") {
			continue
		}
		kept = append(kept, trimmed)
	}
	sort.Strings(kept)
	return strings.Join(kept, "\n")
}

// Equivalent reports whether two configuration texts have the same
// normalized form. Two texts without key/value lines are equivalent.
func Equivalent(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
