package formatting

import "strings"

// Separator returns a line separator of given width
func Separator(width int) string {
	return strings.Repeat("─", width)
}

// Truncate shortens a string to max runes for table output
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
