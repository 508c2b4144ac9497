package lexcov

import (
	"strings"
	"unicode/utf8"
)

// NormalizeText collapses every run of whitespace into a single space and
// trims the result.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TextLen returns the length of s in characters.
func TextLen(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate returns at most n characters of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
