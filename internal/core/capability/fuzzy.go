package capability

import (
	"context"
)

// LevenshteinFuzzy is the in-tree FuzzyMatcher: normalized edit-distance
// similarity on a 0..1 scale. Good enough to catch misspellings the fixed typo
// table does not know; the cascade only accepts scores >= its configured floor
type LevenshteinFuzzy struct{}

// BestMatch returns the candidate with the highest similarity to text.
// With no candidates it reports unavailable rather than inventing a match
func (LevenshteinFuzzy) BestMatch(ctx context.Context, text string, candidates []string) (Match, error) {
	if len(candidates) == 0 {
		return Match{}, ErrUnavailable
	}
	best := Match{Score: -1}
	for _, c := range candidates {
		select {
		case <-ctx.Done():
			return Match{}, ErrUnavailable
		default:
		}
		s := Similarity(text, c)
		if s > best.Score {
			best = Match{Candidate: c, Score: s}
		}
	}
	return best, nil
}

// Similarity is 1 - dist/maxLen over runes; identical strings score 1.0
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 || lb == 0 {
		return 0
	}
	d := levenshtein(ra, rb)
	denom := la
	if lb > denom {
		denom = lb
	}
	return 1.0 - float64(d)/float64(denom)
}

// levenshtein computes edit distance with a rolling single-row buffer
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(a); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			up := row[j]
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			m := diag + cost
			if up+1 < m {
				m = up + 1
			}
			if row[j-1]+1 < m {
				m = row[j-1] + 1
			}
			row[j] = m
			diag = up
		}
	}
	return row[len(b)]
}
