// Package suggest implements Bop's "did you mean" matching (spec §4.7):
// an edit-distance lookup over a candidate set of names, used for unknown
// identifiers, unknown methods, and unknown function calls.
//
// No edit-distance library in the retrieved example pack computes
// Damerau-Levenshtein distance (transposition as a single edit). The
// nearest relative seen in the corpus, agnivade/levenshtein, is a plain
// Levenshtein implementation without transposition, and substituting it
// would silently change which typos get suggestions (e.g. "pirnt" for
// "print" is a single transposition away under Damerau-Levenshtein but
// two edits away otherwise). This is core spec logic, not ambient
// plumbing, so it is hand-rolled here rather than routed through a
// library that computes a different metric.
package suggest

import "sort"

// maxDistance returns the largest edit distance spec §4.7 still considers
// a match: max(1, floor(len(name)/3)).
func maxDistance(name string) int {
	n := len([]rune(name)) / 3
	if n < 1 {
		return 1
	}
	return n
}

// Find returns the candidate closest to name by Damerau-Levenshtein
// distance, provided that distance is within spec §4.7's threshold; ties
// are broken lexicographically. It returns "", false if candidates is
// empty or no candidate is close enough.
func Find(name string, candidates []string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	sorted := make([]string, len(candidates))
	copy(sorted, candidates)
	sort.Strings(sorted)

	threshold := maxDistance(name)
	best := ""
	bestDist := threshold + 1
	for _, c := range sorted {
		d := damerauLevenshtein(name, c)
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	if bestDist > threshold {
		return "", false
	}
	return best, true
}

// damerauLevenshtein computes the optimal-string-alignment distance
// between a and b: insertions, deletions, substitutions, and adjacent
// transpositions each cost one edit.
func damerauLevenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)

	// d[i][j] = distance between ra[:i] and rb[:j].
	d := make([][]int, la+1)
	for i := range d {
		d[i] = make([]int, lb+1)
		d[i][0] = i
	}
	for j := 0; j <= lb; j++ {
		d[0][j] = j
	}

	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := d[i-1][j] + 1
			ins := d[i][j-1] + 1
			sub := d[i-1][j-1] + cost
			best := del
			if ins < best {
				best = ins
			}
			if sub < best {
				best = sub
			}
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				if trans := d[i-2][j-2] + 1; trans < best {
					best = trans
				}
			}
			d[i][j] = best
		}
	}
	return d[la][lb]
}
