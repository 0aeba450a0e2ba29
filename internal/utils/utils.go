package utils

import (
	"fmt"
	"strings"
)

// ShortenString truncates s to l characters, appending "..." if anything
// was cut off. A length of 0 means no limit.
func ShortenString(s string, l int) string {
	if len(s) > l && l != 0 {
		return fmt.Sprintf("%s...", s[:l])
	}
	return s
}

// CollapseWhitespace replaces every run of whitespace with a single space
// and trims the ends, for one line previews of node text.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
