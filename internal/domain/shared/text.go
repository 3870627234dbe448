package shared

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold returns the caseless form of s for case-insensitive comparisons.
// A new Caser is built per call because Casers are not safe for concurrent use.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// ContainsFold reports whether needle is a case-insensitive substring of haystack
func ContainsFold(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}
