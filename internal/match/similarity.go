package match

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Ratio returns a 0-100 similarity between two strings based on edit
// distance over the longer string's length. Empty input scores 0.
func Ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	return int(float64(maxLen-dist) / float64(maxLen) * 100)
}

// TokenSortRatio compares strings with their whitespace-separated tokens
// sorted, so word order does not affect the score. "Kumar Ramesh" and
// "Ramesh Kumar" score 100.
func TokenSortRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	return Ratio(sortTokens(a), sortTokens(b))
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
