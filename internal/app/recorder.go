package app

import (
	"context"
	"fmt"
	"math"

	"github.com/blackwell-systems/platovue/internal/config"
	"github.com/blackwell-systems/platovue/internal/output"
	"github.com/blackwell-systems/platovue/internal/pipeline"
	"github.com/blackwell-systems/platovue/internal/store"
)

// historyRecorder stores finished runs in the history database.
type historyRecorder struct {
	db      *store.DB
	version string
}

func (r *historyRecorder) Record(_ context.Context, o *pipeline.Outcome) error {
	run, results := toRun(o, r.version)
	if _, err := r.db.RecordRun(run, results); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// openRecorder opens the history database when history is enabled. The
// returned close function is always safe to call. A database that cannot be
// opened disables history rather than failing the run.
func openRecorder(cfg *config.Config, log *output.Logger) (*historyRecorder, func()) {
	if !cfg.History.Enabled {
		return nil, func() {}
	}
	db, err := store.Open(cfg.History.DBPath)
	if err != nil {
		log.Debugf("Run history disabled: %v", err)
		return nil, func() {}
	}
	return &historyRecorder{db: db, version: appVersion}, func() { _ = db.Close() }
}

func toRun(o *pipeline.Outcome, version string) (*store.Run, []store.FileResult) {
	run := &store.Run{
		StartedAt:              o.StartedAt,
		Target:                 o.Target,
		Output:                 o.Output,
		Version:                version,
		DiscoveredFiles:        o.Scan.Total(),
		StagedFiles:            len(o.Staged),
		AnalyzedFiles:          o.Summary.TotalFiles,
		AverageMaintainability: o.Summary.AverageMaintainability,
		AverageComplexity:      o.Summary.AverageComplexity,
	}

	results := make([]store.FileResult, 0, len(o.Results))
	for _, r := range o.Results {
		// Unscored files are left out of the averages and out of history.
		if math.IsNaN(r.Maintainability) || math.IsNaN(r.Complexity) {
			continue
		}
		results = append(results, store.FileResult{
			File:            r.DisplayName,
			Category:        string(r.Category),
			Maintainability: r.Maintainability,
			Complexity:      r.Complexity,
			SLOC:            r.LinesOfCode,
			Tier:            string(r.Tier),
		})
	}
	return run, results
}
