// Package suggest provides the refactoring recommendation engine and rule
// types.
package suggest

import "github.com/blackwell-systems/platovue/internal/analyzer"

// Priority levels for suggestions.
const (
	PriorityCritical = 1
	PriorityHigh     = 2
	PriorityMedium   = 3
	PriorityLow      = 4
)

var priorityNames = map[int]string{
	PriorityCritical: "CRITICAL",
	PriorityHigh:     "HIGH",
	PriorityMedium:   "MEDIUM",
	PriorityLow:      "LOW",
}

// PriorityName returns the display name of a priority level.
func PriorityName(p int) string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "UNKNOWN"
}

// Suggestion represents an actionable improvement recommendation.
type Suggestion struct {
	Category    string  `json:"category"`
	Priority    int     `json:"priority"`
	File        string  `json:"file,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImpactScore float64 `json:"impact_score"`
}

// AnalysisContext provides all data needed by suggest rules to generate
// recommendations. It is populated from a finished analysis and, when run
// history is available, the previous run of the same target.
type AnalysisContext struct {
	// Results are the per-file rows of the current analysis.
	Results []analyzer.Result `json:"results"`

	// Summary aggregates Results.
	Summary analyzer.Summary `json:"summary"`

	// Skipped lists component files that had no script section.
	Skipped []string `json:"skipped"`

	// Deltas maps display name to the maintainability change since the
	// previous recorded run. Nil when there is no history.
	Deltas map[string]float64 `json:"deltas,omitempty"`
}

// Rule is a function that examines the analysis context and produces
// zero or more suggestions.
type Rule func(ctx *AnalysisContext) []Suggestion
