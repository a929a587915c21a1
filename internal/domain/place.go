package domain

import "strings"

// NormalizePlace collapses runs of whitespace so that equivalent place names share cache keys.
func NormalizePlace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
