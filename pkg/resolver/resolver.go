// Package resolver maps free-text license strings to canonical SPDX
// identifiers. Resolution is a pure function of the input string and the
// loaded catalog: deterministic text folding, then an exact catalog
// lookup, then a bounded Levenshtein-ratio fallback.
package resolver

import (
	"github.com/agnivade/levenshtein"

	"github.com/fulmenhq/licomply/pkg/catalog"
)

// Threshold is the minimum similarity ratio for a fuzzy catalog match.
// Below it the raw input is returned unchanged and flows downstream as an
// unresolved license.
const Threshold = 0.6

// Normalize resolves a raw license string against the catalog. It returns
// the canonical SPDX identifier on an exact or fuzzy match, or the raw
// input unchanged when nothing in the catalog is close enough.
func Normalize(raw string, cat *catalog.Catalog) string {
	folded := catalog.Fold(raw)
	if id, ok := cat.Lookup(folded); ok {
		return id
	}

	// Fuzzy fallback: best ratio over catalog keys in insertion order.
	// Strictly-greater comparison keeps the first-seen key on ties.
	bestID := ""
	bestScore := 0.0
	for _, entry := range cat.Entries() {
		score := Similarity(folded, entry.Key)
		if score > bestScore {
			bestScore = score
			bestID = entry.ID
		}
	}

	if bestScore >= Threshold {
		return bestID
	}
	return raw
}

// Similarity is the normalized edit-distance ratio between two strings:
// 1 - levenshtein(a,b)/max(len(a),len(b)). Two empty strings score 1.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
