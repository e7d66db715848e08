// Package engine implements a maintainability analysis engine for staged
// JavaScript files.
//
// Line and decision-point counts come from scc's processor package; Halstead
// measures come from a JavaScript token stream. Each file's maintainability
// index combines both.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/boyter/scc/v3/processor"
	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/platovue/internal/analyzer"
)

// Output files written into the engine's output directory.
const (
	ReportFile = "report.json"
	IndexFile  = "index.html"
)

const javaScript = "JavaScript"

var initOnce sync.Once

// Native analyzes files in-process.
type Native struct {
	// Workers bounds concurrent file analysis. Zero means GOMAXPROCS.
	Workers int
}

// NewNative returns a Native engine. scc's language tables are loaded once
// per process.
func NewNative() *Native {
	loadLanguages()
	return &Native{}
}

func loadLanguages() {
	initOnce.Do(func() {
		processor.ProcessConstants()
	})
}

// Metrics is the full per-file measurement behind a report.
type Metrics struct {
	File            string   `json:"file"`
	Lines           int64    `json:"lines"`
	Code            int64    `json:"sloc"`
	Decisions       int64    `json:"decisions"`
	Cyclomatic      float64  `json:"cyclomatic"`
	Halstead        Halstead `json:"halstead"`
	Effort          float64  `json:"effort"`
	Maintainability float64  `json:"maintainability"`
}

// Inspect analyzes files concurrently and calls done from a separate
// goroutine once report.json and index.html are written.
func (n *Native) Inspect(ctx context.Context, files []string, outputDir string, opts analyzer.Options, done analyzer.Callback) {
	go func() {
		reports, err := n.run(ctx, files, outputDir, opts)
		if err != nil {
			done(err, nil)
			return
		}
		done(nil, reports)
	}()
}

func (n *Native) run(ctx context.Context, files []string, outputDir string, opts analyzer.Options) ([]*analyzer.FileReport, error) {
	metrics := make([]Metrics, len(files))

	g, gctx := errgroup.WithContext(ctx)
	workers := n.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := AnalyzeFile(path)
			if err != nil {
				return err
			}
			metrics[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reports := make([]*analyzer.FileReport, len(metrics))
	for i, m := range metrics {
		reports[i] = m.Report()
	}

	if err := writeOutputs(outputDir, opts, metrics, reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// AnalyzeFile measures a single JavaScript file.
func AnalyzeFile(path string) (Metrics, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Metrics{}, fmt.Errorf("reading %s: %w", path, err)
	}
	m := Measure(filepath.Base(path), content)
	m.File = path
	return m, nil
}

// Measure computes metrics for source content. name is used only for
// language detection and falls back to JavaScript.
func Measure(name string, content []byte) Metrics {
	loadLanguages()

	possible, _ := processor.DetectLanguage(name)
	job := &processor.FileJob{
		Filename:          name,
		Content:           content,
		Bytes:             int64(len(content)),
		PossibleLanguages: possible,
	}
	job.Language = processor.DetermineLanguage(job.Filename, job.Language, job.PossibleLanguages, job.Content)
	if job.Language == "" {
		job.Language = javaScript
	}
	processor.CountStats(job)

	h := MeasureHalstead(content)
	m := Metrics{
		File:       name,
		Lines:      job.Lines,
		Code:       job.Code,
		Decisions:  job.Complexity,
		Cyclomatic: 1 + float64(job.Complexity)/float64(max(h.Functions, 1)),
		Halstead:   h,
		Effort:     h.Effort(),
	}
	m.Maintainability = Maintainability(m.Effort, m.Cyclomatic, m.Code)
	return m
}

// Maintainability computes the maintainability index
//
//	171 - 3.42 ln(effort) - 0.23 cyclomatic - 16.2 ln(sloc)
//
// rescaled to 0..100.
func Maintainability(effort, cyclomatic float64, sloc int64) float64 {
	mi := 171 - 3.42*safeLog(effort) - 0.23*cyclomatic - 16.2*safeLog(float64(sloc))
	mi = mi * 100 / 171
	return math.Max(0, math.Min(100, mi))
}

func safeLog(v float64) float64 {
	if v <= 1 {
		return 0
	}
	return math.Log(v)
}

// Report converts metrics into the engine's per-file report.
func (m Metrics) Report() *analyzer.FileReport {
	return &analyzer.FileReport{
		Info: analyzer.FileInfo{File: m.File},
		Complexity: &analyzer.ComplexityReport{
			Maintainability: m.Maintainability,
			MethodAverage:   analyzer.MethodAverage{Cyclomatic: m.Cyclomatic},
			LineStart:       1,
			LineEnd:         int(m.Lines),
		},
	}
}

type reportDocument struct {
	Title   string                 `json:"title"`
	Summary documentSummary        `json:"summary"`
	Reports []*analyzer.FileReport `json:"reports"`
	Metrics []Metrics              `json:"metrics"`
}

type documentSummary struct {
	Files                  int     `json:"files"`
	TotalSloc              int64   `json:"totalSloc"`
	AverageMaintainability float64 `json:"averageMaintainability"`
}

func writeOutputs(outputDir string, opts analyzer.Options, metrics []Metrics, reports []*analyzer.FileReport) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	doc := reportDocument{
		Title:   opts.Title,
		Summary: summarize(metrics),
		Reports: reports,
		Metrics: metrics,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, ReportFile), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", ReportFile, err)
	}

	if err := writeIndex(filepath.Join(outputDir, IndexFile), doc); err != nil {
		return fmt.Errorf("writing %s: %w", IndexFile, err)
	}
	return nil
}

func summarize(metrics []Metrics) documentSummary {
	s := documentSummary{Files: len(metrics)}
	var total float64
	for _, m := range metrics {
		s.TotalSloc += m.Code
		total += m.Maintainability
	}
	if len(metrics) > 0 {
		s.AverageMaintainability = total / float64(len(metrics))
	}
	return s
}
