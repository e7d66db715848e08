package watcher

import (
	"fmt"
	"sort"
	"time"

	"github.com/blackwell-systems/platovue/internal/analyzer"
)

const (
	// AverageDropThreshold is the fall in average maintainability, in index
	// points, that raises a warning.
	AverageDropThreshold = 2.0

	// FileDropThreshold is the fall in a single file's maintainability that
	// raises a warning.
	FileDropThreshold = 10.0

	// ComplexityRiseRatio is the relative increase in average cyclomatic
	// complexity that raises a warning.
	ComplexityRiseRatio = 0.20
)

// Compare detects notable changes between two states and returns alerts,
// critical first.
func Compare(prev, curr *State) []Alert {
	var alerts []Alert

	alerts = append(alerts, compareCritical(prev, curr)...)
	alerts = append(alerts, compareWarning(prev, curr)...)
	alerts = append(alerts, compareInfo(prev, curr)...)

	return alerts
}

// compareCritical reports files that entered the low tier.
func compareCritical(prev, curr *State) []Alert {
	var alerts []Alert
	now := time.Now()

	for _, name := range sortedNames(curr.Files) {
		r := curr.Files[name]
		if r.Tier != analyzer.TierLow {
			continue
		}
		old, existed := prev.Files[name]
		switch {
		case !existed:
			alerts = append(alerts, Alert{
				Level:   "critical",
				Title:   fmt.Sprintf("Low maintainability: %s", name),
				Message: fmt.Sprintf("New file scores %.2f", r.Maintainability),
				Time:    now,
			})
		case old.Tier != analyzer.TierLow:
			alerts = append(alerts, Alert{
				Level:   "critical",
				Title:   fmt.Sprintf("Low maintainability: %s", name),
				Message: fmt.Sprintf("Dropped from %.2f to %.2f", old.Maintainability, r.Maintainability),
				Time:    now,
			})
		}
	}

	return alerts
}

// compareWarning reports drops in average or per-file maintainability and
// rising complexity.
func compareWarning(prev, curr *State) []Alert {
	var alerts []Alert
	now := time.Now()

	drop := prev.Summary.AverageMaintainability - curr.Summary.AverageMaintainability
	if prev.Summary.TotalFiles > 0 && curr.Summary.TotalFiles > 0 && drop >= AverageDropThreshold {
		alerts = append(alerts, Alert{
			Level:   "warning",
			Title:   "Average maintainability dropped",
			Message: fmt.Sprintf("%.2f → %.2f (-%.2f)", prev.Summary.AverageMaintainability, curr.Summary.AverageMaintainability, drop),
			Time:    now,
		})
	}

	for _, name := range sortedNames(curr.Files) {
		r := curr.Files[name]
		old, existed := prev.Files[name]
		if !existed || r.Tier == analyzer.TierLow && old.Tier != analyzer.TierLow {
			continue
		}
		if d := old.Maintainability - r.Maintainability; d >= FileDropThreshold {
			alerts = append(alerts, Alert{
				Level:   "warning",
				Title:   fmt.Sprintf("Maintainability drop: %s", name),
				Message: fmt.Sprintf("%.2f → %.2f (-%.2f)", old.Maintainability, r.Maintainability, d),
				Time:    now,
			})
		}
	}

	prevCC, currCC := prev.Summary.AverageComplexity, curr.Summary.AverageComplexity
	if prevCC > 0 && currCC > prevCC {
		if rise := (currCC - prevCC) / prevCC; rise > ComplexityRiseRatio {
			alerts = append(alerts, Alert{
				Level:   "warning",
				Title:   "Complexity spike",
				Message: fmt.Sprintf("Average cyclomatic complexity %.2f → %.2f (+%.0f%%)", prevCC, currCC, rise*100),
				Time:    now,
			})
		}
	}

	return alerts
}

// compareInfo reports added and removed files, recoveries out of the low
// tier, and average improvements.
func compareInfo(prev, curr *State) []Alert {
	var alerts []Alert
	now := time.Now()

	var added, removed int
	for name := range curr.Files {
		if _, ok := prev.Files[name]; !ok {
			added++
		}
	}
	for name := range prev.Files {
		if _, ok := curr.Files[name]; !ok {
			removed++
		}
	}
	if added > 0 || removed > 0 {
		alerts = append(alerts, Alert{
			Level:   "info",
			Title:   "Files changed",
			Message: fmt.Sprintf("%d added, %d removed (%d analyzed)", added, removed, len(curr.Files)),
			Time:    now,
		})
	}

	for _, name := range sortedNames(curr.Files) {
		r := curr.Files[name]
		if old, ok := prev.Files[name]; ok && old.Tier == analyzer.TierLow && r.Tier != analyzer.TierLow {
			alerts = append(alerts, Alert{
				Level:   "info",
				Title:   fmt.Sprintf("Recovered: %s", name),
				Message: fmt.Sprintf("%.2f → %.2f (%s)", old.Maintainability, r.Maintainability, r.Tier.Label()),
				Time:    now,
			})
		}
	}

	gain := curr.Summary.AverageMaintainability - prev.Summary.AverageMaintainability
	if prev.Summary.TotalFiles > 0 && gain >= AverageDropThreshold {
		alerts = append(alerts, Alert{
			Level:   "info",
			Title:   "Average maintainability improved",
			Message: fmt.Sprintf("%.2f → %.2f (+%.2f)", prev.Summary.AverageMaintainability, curr.Summary.AverageMaintainability, gain),
			Time:    now,
		})
	}

	return alerts
}

func sortedNames(files map[string]analyzer.Result) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
