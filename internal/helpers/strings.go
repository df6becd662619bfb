package helpers

import "unicode/utf8"

// TruncateString returns at most max bytes of s without splitting a
// multibyte rune; the cut moves back to the nearest rune boundary.
func TruncateString(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
