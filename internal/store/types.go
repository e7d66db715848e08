// Package store provides SQLite persistence for analysis run history.
package store

import "time"

// Run is one recorded analysis run.
type Run struct {
	ID                     int64     `json:"id"`
	StartedAt              time.Time `json:"started_at"`
	Target                 string    `json:"target"`
	Output                 string    `json:"output"`
	Version                string    `json:"version"`
	DiscoveredFiles        int       `json:"discovered_files"`
	StagedFiles            int       `json:"staged_files"`
	AnalyzedFiles          int       `json:"analyzed_files"`
	AverageMaintainability float64   `json:"avg_maintainability"`
	AverageComplexity      float64   `json:"avg_complexity"`
}

// FileResult is the stored per-file outcome of a run.
type FileResult struct {
	ID              int64   `json:"id"`
	RunID           int64   `json:"run_id"`
	File            string  `json:"file"`
	Category        string  `json:"category"`
	Maintainability float64 `json:"maintainability"`
	Complexity      float64 `json:"complexity"`
	SLOC            int     `json:"sloc"`
	Tier            string  `json:"tier"`
}

// FileDelta compares a file's maintainability between two runs.
type FileDelta struct {
	File     string  `json:"file"`
	Previous float64 `json:"previous"`
	Current  float64 `json:"current"`
	Delta    float64 `json:"delta"`
}
