// Package similarity finds near-matches between identifiers using edit distance.
package similarity

import "github.com/agnivade/levenshtein"

// Distance returns the minimum number of single-rune insertions, deletions
// or substitutions needed to turn a into b.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// CloseMatches returns every candidate within maxDistance of query,
// preserving the order of candidates.
func CloseMatches(query string, candidates []string, maxDistance int) []string {
	var matches []string
	for _, c := range candidates {
		if Distance(query, c) <= maxDistance {
			matches = append(matches, c)
		}
	}
	return matches
}

// First returns the first candidate within maxDistance of query.
// Earlier candidates win even when a later one is closer.
func First(query string, candidates []string, maxDistance int) (string, bool) {
	for _, c := range candidates {
		if Distance(query, c) <= maxDistance {
			return c, true
		}
	}
	return "", false
}
