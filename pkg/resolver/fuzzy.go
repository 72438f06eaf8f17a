package resolver

import (
	"context"
	"sort"
	"strings"
)

const nameMatchBonus = 50

// FuzzyResolver scores candidates by keyword overlap. Each query word found
// in a candidate's name or content adds the word's length to the score, and
// a name containing the whole query earns a large bonus.
type FuzzyResolver struct{}

// Resolve implements Resolver. Candidates scoring zero are never selected;
// ties keep candidate order.
func (FuzzyResolver) Resolve(_ context.Context, query string, candidates []Candidate) (string, bool, error) {
	queryLower := strings.ToLower(query)
	queryWords := strings.Fields(queryLower)

	type scored struct {
		score int
		id    string
	}
	var ranked []scored

	for _, cand := range candidates {
		haystack := strings.ToLower(cand.Name + " " + cand.Content)

		score := 0
		for _, word := range queryWords {
			if strings.Contains(haystack, word) {
				score += len(word)
			}
		}
		if strings.Contains(strings.ToLower(cand.Name), queryLower) {
			score += nameMatchBonus
		}

		if score > 0 {
			ranked = append(ranked, scored{score: score, id: cand.ID})
		}
	}

	if len(ranked) == 0 {
		return "", false, nil
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	return ranked[0].id, true, nil
}
