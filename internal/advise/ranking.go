package advise

import "sort"

// RankRecommendations sorts by ImpactScore descending. Equal scores fall back
// to priority, then to rule order.
func RankRecommendations(recs []Recommendation) []Recommendation {
	sorted := make([]Recommendation, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ImpactScore != sorted[j].ImpactScore {
			return sorted[i].ImpactScore > sorted[j].ImpactScore
		}
		return sorted[i].Priority < sorted[j].Priority
	})
	return sorted
}

// ComputeImpact scores a recommendation.
// Formula: (annualValue * confidence) / effort
//
// Parameters:
//   - annualValue: dollars per year affected by the change
//   - confidence: how likely the estimate holds (0.0-1.0)
//   - effort: relative effort to act on it (1 = trivial)
//
// Returns 0 if effort is not positive.
func ComputeImpact(annualValue, confidence, effort float64) float64 {
	if effort <= 0 {
		return 0
	}
	return annualValue * confidence / effort
}
