package suggest

import "sort"

// RankSuggestions sorts suggestions by ImpactScore in descending order,
// breaking ties by priority.
func RankSuggestions(suggestions []Suggestion) []Suggestion {
	sorted := make([]Suggestion, len(suggestions))
	copy(sorted, suggestions)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ImpactScore != sorted[j].ImpactScore {
			return sorted[i].ImpactScore > sorted[j].ImpactScore
		}
		return sorted[i].Priority < sorted[j].Priority
	})
	return sorted
}

// ComputeImpact calculates an impact score for a suggestion.
// Formula: (affectedLines * severity * benefit) / effort
//
// Parameters:
//   - affectedLines: lines of code touched by the issue
//   - severity: how far past its threshold the metric is (0.0-1.0)
//   - benefit: relative value of fixing the issue
//   - effort: relative cost of the refactoring
//
// Returns 0 if effort is zero to avoid division by zero.
func ComputeImpact(affectedLines int, severity float64, benefit float64, effort float64) float64 {
	if effort <= 0 {
		return 0
	}
	return (float64(affectedLines) * severity * benefit) / effort
}
