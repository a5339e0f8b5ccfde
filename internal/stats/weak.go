package stats

import (
	"sort"

	"github.com/verte-zerg/typetest/internal/model"
)

// minCharSamples keeps rarely typed characters out of the weakest list.
const minCharSamples = 3

// WeakestChars returns up to top characters with the lowest accuracy.
// Ties are broken by sample count, then by character.
func WeakestChars(aggs []model.CharAggregate, top int) []model.CharAggregate {
	candidates := make([]model.CharAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Correct+agg.Incorrect >= minCharSamples {
			candidates = append(candidates, agg)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai := CharAccuracy(candidates[i])
		aj := CharAccuracy(candidates[j])
		if ai != aj {
			return ai < aj
		}
		ti := candidates[i].Correct + candidates[i].Incorrect
		tj := candidates[j].Correct + candidates[j].Incorrect
		if ti != tj {
			return ti > tj
		}
		return candidates[i].Char < candidates[j].Char
	})
	if top > 0 && top < len(candidates) {
		candidates = candidates[:top]
	}
	return candidates
}

// CharAccuracy returns the share of correct attempts in [0, 1].
func CharAccuracy(agg model.CharAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}
