// Package pipeline runs one analysis end to end: discovery, staging,
// analysis, reporting and cleanup.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/blackwell-systems/platovue/internal/analyzer"
	"github.com/blackwell-systems/platovue/internal/extract"
	"github.com/blackwell-systems/platovue/internal/output"
	"github.com/blackwell-systems/platovue/internal/report"
	"github.com/blackwell-systems/platovue/internal/scanner"
	"github.com/blackwell-systems/platovue/internal/staging"
)

// DefaultOutputDir is the output directory name used when none is given.
const DefaultOutputDir = "plato-report"

// Config is the per-run configuration.
type Config struct {
	// TargetPath is the directory to analyze. Empty means the working
	// directory.
	TargetPath string

	// OutputPath receives the engine's report. Empty means
	// <working directory>/plato-report.
	OutputPath string

	// WorkDir resolves relative paths. Empty means os.Getwd.
	WorkDir string

	ExcludeDirs    []string
	MaxDepth       int
	ComponentExt   string
	ScriptExt      string
	StagingDirName string
	Title          string
}

// Recorder persists a finished run.
type Recorder interface {
	Record(ctx context.Context, o *Outcome) error
}

// Deps are the collaborators of a run.
type Deps struct {
	Engine analyzer.Engine

	// Stdout receives the report. Defaults to os.Stdout.
	Stdout io.Writer

	// Logger receives progress, warnings and debug lines. May be nil.
	Logger *output.Logger

	// Recorder stores successful runs. May be nil.
	Recorder Recorder

	// JSON replaces the text report with a JSON document on Stdout.
	JSON bool
}

// Outcome describes a finished run.
type Outcome struct {
	StartedAt time.Time
	Target    string
	Output    string
	Scan      scanner.Result
	Staged    []extract.StagedFile
	Skipped   []string
	Results   []analyzer.Result
	Summary   analyzer.Summary
}

// Run executes the pipeline. Fatal conditions (nothing discovered, nothing
// staged, engine failure) are returned as errors. Staged files are removed
// whether or not the run succeeds.
func Run(ctx context.Context, cfg Config, deps Deps) (_ *Outcome, err error) {
	if deps.Engine == nil {
		return nil, fmt.Errorf("no analysis engine configured")
	}
	stdout := deps.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	log := deps.Logger
	p := report.New(stdout)
	text := !deps.JSON

	out := &Outcome{StartedAt: time.Now()}

	if text {
		p.Banner()
	}

	target, outputDir, err := resolvePaths(cfg)
	if err != nil {
		return nil, err
	}
	out.Target, out.Output = target, outputDir

	// Step 1: discover.
	out.Scan = scanner.Scan(target, scanOptions(cfg, outputDir, log))
	if out.Scan.Fallback {
		log.Debugf("Directory walk found nothing; used glob fallback")
	}
	if err := scanner.Validate(out.Scan); err != nil {
		if text {
			p.Usage()
		}
		return nil, err
	}

	if text {
		p.Paths(target, outputDir)
	}

	// Step 2: stage.
	stagingName := cfg.StagingDirName
	if stagingName == "" {
		stagingName = staging.DirName
	}
	stagingDir := filepath.Join(outputDir, stagingName)
	if err := staging.EnsureDir(outputDir); err != nil {
		return nil, err
	}
	if err := staging.EnsureDir(stagingDir); err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			staging.Remove(out.Staged, stagingDir, log)
		}
	}()

	extracted, err := extract.Extract(out.Scan.ComponentFiles, out.Scan.ScriptFiles, target, stagingDir, extract.Options{
		ComponentExt: cfg.ComponentExt,
		ScriptExt:    cfg.ScriptExt,
		Logger:       log,
	})
	if extracted != nil {
		out.Staged, out.Skipped = extracted.Files, extracted.Skipped
	}
	if err != nil {
		return nil, err
	}
	if err := extract.Validate(out.Staged); err != nil {
		return nil, err
	}

	if text {
		p.Discovery(out.Scan, out.Staged)
	}

	// Step 3: analyze.
	paths := make([]string, len(out.Staged))
	for i, sf := range out.Staged {
		paths[i] = sf.StagedPath
	}
	engineOpts := analyzer.DefaultOptions()
	if cfg.Title != "" {
		engineOpts.Title = cfg.Title
	}
	reports, err := analyzer.Analyze(ctx, deps.Engine, paths, outputDir, engineOpts)
	if err != nil {
		return nil, err
	}

	// Step 4: process and present.
	out.Results = analyzer.Process(reports, out.Staged)
	out.Summary = analyzer.Summarize(out.Results)

	if text {
		p.Results(out.Results, out.Summary)
		p.OutputPath(outputDir)
	} else if err := p.JSON(report.Document{
		Target:  target,
		Output:  outputDir,
		Results: out.Results,
		Summary: out.Summary,
		Skipped: out.Skipped,
	}); err != nil {
		return nil, fmt.Errorf("writing JSON report: %w", err)
	}

	if deps.Recorder != nil {
		if rerr := deps.Recorder.Record(ctx, out); rerr != nil {
			log.Warnf("Could not record run history: %v", rerr)
		}
	}

	// Step 5: clean up.
	staging.Cleanup(out.Staged, stagingDir, log)

	return out, nil
}

// Discover resolves the configured paths and scans the target without
// staging or analyzing anything.
func Discover(cfg Config, log *output.Logger) (scanner.Result, error) {
	target, outputDir, err := resolvePaths(cfg)
	if err != nil {
		return scanner.Result{}, err
	}
	return scanner.Scan(target, scanOptions(cfg, outputDir, log)), nil
}

func scanOptions(cfg Config, outputDir string, log *output.Logger) scanner.Options {
	return scanner.Options{
		ComponentExt: cfg.ComponentExt,
		ScriptExt:    cfg.ScriptExt,
		Exclude:      excludeSet(cfg.ExcludeDirs, outputDir),
		MaxDepth:     cfg.MaxDepth,
		Logger:       log,
	}
}

func resolvePaths(cfg Config) (target, outputDir string, err error) {
	wd := cfg.WorkDir
	if wd == "" {
		if wd, err = os.Getwd(); err != nil {
			return "", "", fmt.Errorf("resolving working directory: %w", err)
		}
	}

	target = cfg.TargetPath
	if target == "" {
		target = "."
	}
	outputDir = cfg.OutputPath
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}

	return absFrom(wd, target), absFrom(wd, outputDir), nil
}

func absFrom(wd, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(wd, p)
}

// excludeSet returns the configured exclusions, or the defaults, plus the
// output directory's own name so reports are never re-scanned.
func excludeSet(configured []string, outputDir string) []string {
	base := configured
	if len(base) == 0 {
		base = scanner.DefaultExcludes
	}
	out := append([]string(nil), base...)
	if name := filepath.Base(outputDir); name != "" && name != "." && name != string(filepath.Separator) {
		out = append(out, name)
	}
	return out
}
