package analyzer

import (
	"encoding/json"
	"math"

	"github.com/blackwell-systems/platovue/internal/extract"
	"github.com/blackwell-systems/platovue/internal/scanner"
)

// Tier is a maintainability quality band.
type Tier string

const (
	TierExcellent Tier = "Excellent"
	TierGood      Tier = "Good"
	TierModerate  Tier = "Moderate"
	TierLow       Tier = "Low"
)

// Label returns the terminal label for the tier.
func (t Tier) Label() string {
	switch t {
	case TierExcellent:
		return "🟢 Excellent"
	case TierGood:
		return "🟡 Good"
	case TierModerate:
		return "🟠 Moderate"
	default:
		return "🔴 Low (needs refactoring)"
	}
}

// Categorize maps a maintainability index onto a quality tier.
//
//	mi >= 85  Excellent
//	mi >= 65  Good
//	mi >= 50  Moderate
//	otherwise Low
func Categorize(mi float64) Tier {
	switch {
	case mi >= 85:
		return TierExcellent
	case mi >= 65:
		return TierGood
	case mi >= 50:
		return TierModerate
	default:
		return TierLow
	}
}

// Result is the per-file row of the report.
type Result struct {
	DisplayName     string           `json:"file"`
	Category        scanner.Category `json:"type"`
	Maintainability float64          `json:"maintainability"`
	Complexity      float64          `json:"complexity"`
	LinesOfCode     int              `json:"sloc"`
	Tier            Tier             `json:"tier"`
}

// MarshalJSON writes a non-finite maintainability or complexity as null.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		DisplayName     string           `json:"file"`
		Category        scanner.Category `json:"type"`
		Maintainability *float64         `json:"maintainability"`
		Complexity      *float64         `json:"complexity"`
		LinesOfCode     int              `json:"sloc"`
		Tier            Tier             `json:"tier"`
	}{r.DisplayName, r.Category, finite(r.Maintainability), finite(r.Complexity), r.LinesOfCode, r.Tier})
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Summary aggregates results with a usable maintainability value.
type Summary struct {
	AverageMaintainability float64 `json:"average_maintainability"`
	AverageComplexity      float64 `json:"average_complexity"`
	TotalFiles             int     `json:"total_files"`
}

// Process pairs reports[i] with staged[i]. Pairs whose report is missing or
// carries no complexity data are dropped.
func Process(reports []*FileReport, staged []extract.StagedFile) []Result {
	results := make([]Result, 0, len(staged))
	for i, sf := range staged {
		if i >= len(reports) {
			break
		}
		r := reports[i]
		if r == nil || r.Complexity == nil {
			continue
		}
		c := r.Complexity
		results = append(results, Result{
			DisplayName:     sf.DisplayName,
			Category:        sf.Category,
			Maintainability: c.Maintainability,
			Complexity:      c.MethodAverage.Cyclomatic,
			LinesOfCode:     c.LineEnd - c.LineStart + 1,
			Tier:            Categorize(c.Maintainability),
		})
	}
	return results
}

// Summarize averages maintainability and complexity over results whose
// maintainability is a number. TotalFiles counts only those results, so an
// input with no usable values yields a zero summary.
func Summarize(results []Result) Summary {
	var sumMI, sumCC float64
	n := 0
	for _, r := range results {
		if math.IsNaN(r.Maintainability) {
			continue
		}
		sumMI += r.Maintainability
		sumCC += r.Complexity
		n++
	}
	if n == 0 {
		return Summary{}
	}
	return Summary{
		AverageMaintainability: sumMI / float64(n),
		AverageComplexity:      sumCC / float64(n),
		TotalFiles:             n,
	}
}
