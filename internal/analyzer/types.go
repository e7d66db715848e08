// Package analyzer adapts the maintainability analysis engine and turns its
// per-file reports into categorized results and a run summary.
package analyzer

import "context"

// DefaultTitle is the report title handed to the engine.
const DefaultTitle = "Plato Vue.js Maintainability Report"

// FileReport is the engine's result for one input file.
type FileReport struct {
	Info       FileInfo          `json:"info"`
	Complexity *ComplexityReport `json:"complexity,omitempty"`
}

// FileInfo identifies the analyzed file.
type FileInfo struct {
	File string `json:"file"`
}

// ComplexityReport carries the metrics the result processor consumes.
type ComplexityReport struct {
	Maintainability float64       `json:"maintainability"`
	MethodAverage   MethodAverage `json:"methodAverage"`
	LineStart       int           `json:"lineStart"`
	LineEnd         int           `json:"lineEnd"`
}

// MethodAverage holds per-function averages.
type MethodAverage struct {
	Cyclomatic float64 `json:"cyclomatic"`
}

// LintOptions configures the engine's lint pass.
type LintOptions struct {
	Rules map[string]int `json:"rules"`
}

// Options is the static configuration passed to the engine.
type Options struct {
	Title string      `json:"title"`
	Lint  LintOptions `json:"lint"`
}

// DefaultOptions returns the engine configuration used for every run.
// Staged sources are fragments, so undefined- and unused-variable checks
// are disabled.
func DefaultOptions() Options {
	return Options{
		Title: DefaultTitle,
		Lint: LintOptions{
			Rules: map[string]int{
				"no-undef":       0,
				"no-unused-vars": 0,
			},
		},
	}
}

// Callback receives the engine's completion. Engines are inconsistent about
// which parameter carries the reports: a successful list may arrive through
// failure. See Resolve.
type Callback func(failure any, reports []*FileReport)

// Engine is a maintainability analysis engine. Inspect must eventually
// invoke done exactly once; it may do so from another goroutine.
// reports[i] corresponds to files[i].
//
// Analyze stops waiting as soon as ctx is done, and callers then remove the
// staged input files. Inspect must therefore stop reading files and writing
// outputs once ctx is done.
type Engine interface {
	Inspect(ctx context.Context, files []string, outputDir string, opts Options, done Callback)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, files []string, outputDir string, opts Options, done Callback)

// Inspect calls f.
func (f EngineFunc) Inspect(ctx context.Context, files []string, outputDir string, opts Options, done Callback) {
	f(ctx, files, outputDir, opts, done)
}
