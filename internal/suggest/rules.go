package suggest

import (
	"fmt"
	"math"
	"sort"

	"github.com/blackwell-systems/platovue/internal/analyzer"
	"github.com/blackwell-systems/platovue/internal/scanner"
)

// Rule thresholds.
const (
	// ComplexityThreshold is the average cyclomatic complexity per function
	// above which branching logic should be split up.
	ComplexityThreshold = 10.0

	// LargeFileLines is the size above which a file is worth breaking up.
	LargeFileLines = 300

	// HeavyComponentLines is the script size above which a component should
	// move logic into composables or plain modules.
	HeavyComponentLines = 200

	// RegressionThreshold is the maintainability drop since the previous run
	// that is worth investigating.
	RegressionThreshold = 5.0

	// HealthyAverage is the project average below which a project-wide
	// suggestion is made.
	HealthyAverage = 65.0
)

// LowMaintainability suggests refactoring every file in the low tier. The
// further below the moderate band a file scores, the higher its impact.
func LowMaintainability(ctx *AnalysisContext) []Suggestion {
	var suggestions []Suggestion
	for _, r := range ctx.Results {
		if r.Tier != analyzer.TierLow || math.IsNaN(r.Maintainability) {
			continue
		}
		severity := clamp01((50 - r.Maintainability) / 50)
		suggestions = append(suggestions, Suggestion{
			Category: "maintainability",
			Priority: PriorityCritical,
			File:     r.DisplayName,
			Title:    fmt.Sprintf("Refactor %s", r.DisplayName),
			Description: fmt.Sprintf(
				"%s has a maintainability index of %.2f (%d lines, complexity %.2f). "+
					"Split long functions, remove duplicated logic and name intermediate values "+
					"to bring it above 50.",
				r.DisplayName, r.Maintainability, r.LinesOfCode, r.Complexity,
			),
			ImpactScore: ComputeImpact(r.LinesOfCode, 0.5+severity/2, 4.0, 2.0),
		})
	}
	return suggestions
}

// HighComplexity suggests splitting branching logic in files whose average
// complexity per function exceeds ComplexityThreshold.
func HighComplexity(ctx *AnalysisContext) []Suggestion {
	var suggestions []Suggestion
	for _, r := range ctx.Results {
		if r.Complexity <= ComplexityThreshold {
			continue
		}
		severity := clamp01((r.Complexity - ComplexityThreshold) / ComplexityThreshold)
		suggestions = append(suggestions, Suggestion{
			Category: "complexity",
			Priority: PriorityHigh,
			File:     r.DisplayName,
			Title:    fmt.Sprintf("Reduce branching in %s", r.DisplayName),
			Description: fmt.Sprintf(
				"Functions in %s average %.2f decision paths. "+
					"Replace nested conditionals with early returns or lookup tables, "+
					"and move independent branches into their own functions.",
				r.DisplayName, r.Complexity,
			),
			ImpactScore: ComputeImpact(r.LinesOfCode, 0.5+severity/2, 3.0, 2.0),
		})
	}
	return suggestions
}

// LargeFiles suggests breaking up plain script files longer than
// LargeFileLines. Components are covered by HeavyComponents.
func LargeFiles(ctx *AnalysisContext) []Suggestion {
	var suggestions []Suggestion
	for _, r := range ctx.Results {
		if r.Category == scanner.CategoryComponent || r.LinesOfCode <= LargeFileLines {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Category: "size",
			Priority: PriorityMedium,
			File:     r.DisplayName,
			Title:    fmt.Sprintf("Break up %s", r.DisplayName),
			Description: fmt.Sprintf(
				"%s is %d lines long. Group related exports into smaller modules.",
				r.DisplayName, r.LinesOfCode,
			),
			ImpactScore: ComputeImpact(r.LinesOfCode, 0.5, 2.0, 4.0),
		})
	}
	return suggestions
}

// HeavyComponents suggests moving logic out of components whose script
// section exceeds HeavyComponentLines.
func HeavyComponents(ctx *AnalysisContext) []Suggestion {
	var suggestions []Suggestion
	for _, r := range ctx.Results {
		if r.Category != scanner.CategoryComponent || r.LinesOfCode <= HeavyComponentLines {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Category: "size",
			Priority: PriorityMedium,
			File:     r.DisplayName,
			Title:    fmt.Sprintf("Extract logic from %s", r.DisplayName),
			Description: fmt.Sprintf(
				"The script section of %s is %d lines. Move reusable state and helpers "+
					"into composables or plain modules and split the component by responsibility.",
				r.DisplayName, r.LinesOfCode,
			),
			ImpactScore: ComputeImpact(r.LinesOfCode, 0.5, 2.5, 4.0),
		})
	}
	return suggestions
}

// Regressions suggests reviewing files whose maintainability dropped by at
// least RegressionThreshold since the previous recorded run.
func Regressions(ctx *AnalysisContext) []Suggestion {
	if len(ctx.Deltas) == 0 {
		return nil
	}
	lines := make(map[string]int, len(ctx.Results))
	for _, r := range ctx.Results {
		lines[r.DisplayName] = r.LinesOfCode
	}

	names := make([]string, 0, len(ctx.Deltas))
	for name := range ctx.Deltas {
		names = append(names, name)
	}
	sort.Strings(names)

	var suggestions []Suggestion
	for _, name := range names {
		delta := ctx.Deltas[name]
		if math.IsNaN(delta) || delta > -RegressionThreshold {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Category: "regression",
			Priority: PriorityHigh,
			File:     name,
			Title:    fmt.Sprintf("Review recent changes to %s", name),
			Description: fmt.Sprintf(
				"Maintainability of %s fell by %.2f since the previous run. "+
					"Recent changes are cheapest to restructure while they are fresh.",
				name, -delta,
			),
			ImpactScore: ComputeImpact(lines[name], clamp01(-delta/20), 3.0, 1.0),
		})
	}
	return suggestions
}

// ProjectHealth makes a project-wide suggestion when the average
// maintainability is below HealthyAverage.
func ProjectHealth(ctx *AnalysisContext) []Suggestion {
	s := ctx.Summary
	if s.TotalFiles == 0 || s.AverageMaintainability >= HealthyAverage {
		return nil
	}

	low := 0
	total := 0
	for _, r := range ctx.Results {
		total += r.LinesOfCode
		if r.Tier == analyzer.TierLow {
			low++
		}
	}
	return []Suggestion{{
		Category: "project",
		Priority: PriorityMedium,
		Title:    "Raise the project's average maintainability",
		Description: fmt.Sprintf(
			"The average maintainability index is %.2f across %d files, %d of them low. "+
				"Start with the lowest-scoring files and add a maintainability check to code review.",
			s.AverageMaintainability, s.TotalFiles, low,
		),
		ImpactScore: ComputeImpact(total, clamp01((HealthyAverage-s.AverageMaintainability)/HealthyAverage), 1.0, 5.0),
	}}
}

// TemplateOnlyComponents notes components that were skipped because they
// have no script section.
func TemplateOnlyComponents(ctx *AnalysisContext) []Suggestion {
	if len(ctx.Skipped) == 0 {
		return nil
	}
	return []Suggestion{{
		Category: "coverage",
		Priority: PriorityLow,
		Title:    fmt.Sprintf("%d component(s) were not analyzed", len(ctx.Skipped)),
		Description: "Components without a <script> section have no logic to measure. " +
			"If any of them should hold behavior, it is currently living in the template.",
		ImpactScore: 0,
	}}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
