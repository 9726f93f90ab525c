package util

import (
	"strings"
)

// LevenshteinDistance calculates the Levenshtein distance between two strings
func LevenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(s2)]
}

// ClosestMatch returns the candidate nearest to term, ignoring case and
// surrounding space, provided it is within maxDistance edits. Ties go to the
// earlier candidate.
func ClosestMatch(term string, candidates []string, maxDistance int) (string, bool) {
	term = strings.ToLower(strings.TrimSpace(term))
	best, bestDistance := "", maxDistance+1
	for _, c := range candidates {
		d := LevenshteinDistance(term, strings.ToLower(c))
		if d < bestDistance {
			best, bestDistance = c, d
		}
	}
	return best, best != ""
}
