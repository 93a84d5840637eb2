package nutrition

import "strings"

// NormalizeName canonicalizes a food name for cache keys and lookups:
// lowercased, trimmed, inner whitespace collapsed to single spaces.
// "Apple  Juice " and "apple juice" resolve to the same entry.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
