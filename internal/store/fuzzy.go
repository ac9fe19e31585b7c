package store

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/draftbill/draftbill/internal/catalog"
)

// NameMatchThreshold is the minimum similarity score a fuzzy name locator
// must reach to match a record. Below it, the locator reports not-found
// rather than guessing.
const NameMatchThreshold = 0.6

// Locator identifies one record in the store. Exactly one of ID, Name, or
// Index should be set; Kind scopes Name and Index lookups and is ignored for
// ID lookups.
type Locator struct {
	Kind  catalog.EntityKind
	ID    string
	Name  string
	Index *int
}

// Find resolves a locator to a record. Name locators use fuzzy matching:
// the best-scoring candidate at or above NameMatchThreshold wins, ties
// broken by smallest positional index.
func (s *Store) Find(loc Locator) (*catalog.Record, bool) {
	switch {
	case loc.ID != "":
		return s.Get(loc.ID)
	case loc.Index != nil:
		return s.ByIndex(loc.Kind, *loc.Index)
	case loc.Name != "":
		return s.findByName(loc.Kind, loc.Name)
	}
	return nil, false
}

func (s *Store) findByName(kind catalog.EntityKind, query string) (*catalog.Record, bool) {
	var best *catalog.Record
	bestScore := 0.0
	for _, r := range s.records {
		if kind != "" && r.Kind != kind {
			continue
		}
		v, ok := r.Fields.Get("Name")
		if !ok {
			continue
		}
		c, ok := v.(catalog.Concrete)
		if !ok {
			continue
		}
		name, ok := c.V.(string)
		if !ok {
			continue
		}
		score := NameSimilarity(query, name)
		if score < NameMatchThreshold {
			continue
		}
		// Strictly-greater keeps the earliest (smallest-index) record on ties:
		// records iterate in append order and indices are monotonic per kind.
		if best == nil || score > bestScore {
			best, bestScore = r, score
		}
	}
	return best, best != nil
}

// NameSimilarity scores how well a query matches a candidate name in [0, 1].
// Both sides are NFC-normalized and case-folded first. Exact matches score
// 1.0; substring containment scores 0.75 plus a length-ratio bonus; anything
// else falls back to normalized edit distance.
func NameSimilarity(query, candidate string) float64 {
	q := foldName(query)
	c := foldName(candidate)
	if q == "" || c == "" {
		return 0
	}
	if q == c {
		return 1.0
	}
	if strings.Contains(c, q) || strings.Contains(q, c) {
		shorter, longer := len([]rune(q)), len([]rune(c))
		if shorter > longer {
			shorter, longer = longer, shorter
		}
		return 0.75 + 0.25*float64(shorter)/float64(longer)
	}
	qr, cr := []rune(q), []rune(c)
	longest := len(qr)
	if len(cr) > longest {
		longest = len(cr)
	}
	return 1.0 - float64(editDistance(qr, cr))/float64(longest)
}

func foldName(s string) string {
	return norm.NFC.String(strings.ToLower(strings.TrimSpace(s)))
}

// editDistance computes Levenshtein distance over runes.
func editDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
