// Package fitted measures and trims terminal text.
// Widths are counted in printable columns; ANSI control sequences take no room.
package fitted

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"
)

// Strip removes all ANSI escape sequences from s.
func Strip(s string) string {
	if !strings.ContainsRune(s, '\x1b') {
		return s
	}
	return ansi.Strip(s)
}

// Width returns the number of terminal columns s occupies once printed.
func Width(s string) int {
	if s == "" {
		return 0
	}
	return uniseg.StringWidth(Strip(s))
}

// Truncate shortens s so that it fits within cols columns. Escape sequences
// are preserved so colors carry over, but they do not count toward the width.
func Truncate(s string, cols int) string {
	if cols <= 0 {
		return ""
	}
	if Width(s) <= cols {
		return s
	}
	return ansi.Truncate(s, cols, "")
}

// Sanitize flattens s onto a single plain line: ANSI sequences and control
// characters are dropped, runs of whitespace collapse to one space, and the
// result is trimmed.
func Sanitize(s string) string {
	s = Strip(s)

	var b strings.Builder
	b.Grow(len(s))

	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsControl(r), r == unicode.ReplacementChar:
			continue
		default:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		}
	}

	return b.String()
}
