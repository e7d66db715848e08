// Package watcher re-runs maintainability analysis on an interval and emits
// alerts when a project's scores change notably.
package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"time"

	"github.com/blackwell-systems/platovue/internal/analyzer"
)

// State captures the analysis of a project at one point in time.
type State struct {
	Timestamp   time.Time
	Fingerprint string
	Summary     analyzer.Summary
	Files       map[string]analyzer.Result // display name -> result
}

// Alert represents a notable event detected by the watcher.
type Alert struct {
	Level   string // "info", "warning", "critical"
	Title   string
	Message string
	Time    time.Time
}

// Source supplies the watcher with a cheap change fingerprint and a full
// analysis of the watched project.
type Source interface {
	Fingerprint(ctx context.Context) (string, error)
	Analyze(ctx context.Context) ([]analyzer.Result, error)
}

// Watcher analyzes a project at a regular interval and emits alerts when
// notable changes are detected.
type Watcher struct {
	source        Source
	interval      time.Duration
	previous      *State
	alertFn       func(Alert)     // callback for emitting alerts
	lastAlertKeys map[string]bool // dedup: suppress repeated identical alerts
}

// New creates a Watcher over the given source.
func New(source Source, interval time.Duration, alertFn func(Alert)) *Watcher {
	return &Watcher{
		source:        source,
		interval:      interval,
		alertFn:       alertFn,
		lastAlertKeys: make(map[string]bool),
	}
}

// Previous returns the last recorded state, or nil before the first snapshot.
func (w *Watcher) Previous() *State {
	return w.previous
}

// Run takes an initial snapshot, then checks at every interval. Blocks until
// ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w.previous == nil {
		initial, err := w.Snapshot(ctx)
		if err != nil {
			return fmt.Errorf("initial snapshot: %w", err)
		}
		w.previous = initial
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, a := range w.Check(ctx) {
				if w.alertFn != nil {
					w.alertFn(a)
				}
			}
		}
	}
}

// Check performs a single cycle: takes a new snapshot, compares it against
// the previous state, updates the previous state, and returns any alerts.
// Identical alerts are suppressed until the underlying data changes.
func (w *Watcher) Check(ctx context.Context) []Alert {
	var raw []Alert
	curr, err := w.Snapshot(ctx)
	switch {
	case err != nil:
		raw = []Alert{{
			Level:   "warning",
			Title:   "Analysis failed",
			Message: err.Error(),
			Time:    time.Now(),
		}}
	case w.previous != nil:
		raw = Compare(w.previous, curr)
	}
	if err == nil {
		w.previous = curr
	}
	return w.dedup(raw)
}

// dedup drops alerts already emitted by the previous cycle.
func (w *Watcher) dedup(raw []Alert) []Alert {
	currentKeys := make(map[string]bool, len(raw))
	var alerts []Alert
	for _, a := range raw {
		key := a.Level + ":" + a.Title + ":" + a.Message
		currentKeys[key] = true
		if !w.lastAlertKeys[key] {
			alerts = append(alerts, a)
		}
	}
	w.lastAlertKeys = currentKeys
	return alerts
}

// Snapshot captures the current state. When the source fingerprint matches
// the previous state the analysis is skipped and the previous results are
// carried forward.
func (w *Watcher) Snapshot(ctx context.Context) (*State, error) {
	fp, err := w.source.Fingerprint(ctx)
	if err != nil {
		return nil, fmt.Errorf("fingerprinting: %w", err)
	}

	if w.previous != nil && w.previous.Fingerprint == fp {
		same := *w.previous
		same.Timestamp = time.Now()
		return &same, nil
	}

	results, err := w.source.Analyze(ctx)
	if err != nil {
		return nil, err
	}
	return NewState(fp, results), nil
}

// NewState indexes results by display name.
func NewState(fingerprint string, results []analyzer.Result) *State {
	state := &State{
		Timestamp:   time.Now(),
		Fingerprint: fingerprint,
		Summary:     analyzer.Summarize(results),
		Files:       make(map[string]analyzer.Result, len(results)),
	}
	for _, r := range results {
		state.Files[r.DisplayName] = r
	}
	return state
}

// Fingerprint hashes the path, size and modification time of every file.
// Files that disappeared since discovery still contribute their path.
func Fingerprint(files []string) (string, error) {
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	h := sha256.New()
	for _, f := range sorted {
		info, err := os.Stat(f)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			fmt.Fprintf(h, "%s\x00-\n", f)
		case err != nil:
			return "", err
		default:
			fmt.Fprintf(h, "%s\x00%d\x00%d\n", f, info.Size(), info.ModTime().UnixNano())
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
