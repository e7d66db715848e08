package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/blackwell-systems/platovue/internal/analyzer"
	"github.com/blackwell-systems/platovue/internal/pipeline"
	"github.com/blackwell-systems/platovue/internal/store"
)

// AnalyzeResult is the outcome of an analyze_project call.
type AnalyzeResult struct {
	Target  string            `json:"target"`
	Output  string            `json:"output"`
	Summary analyzer.Summary  `json:"summary"`
	Results []analyzer.Result `json:"results"`
	Skipped []string          `json:"skipped,omitempty"`
}

// HistoryResult holds recent runs, newest first.
type HistoryResult struct {
	Runs []store.Run `json:"runs"`
}

// CompareResult holds the per-file maintainability changes between two runs.
type CompareResult struct {
	Previous *store.Run        `json:"previous"`
	Current  *store.Run        `json:"current"`
	Changes  []store.FileDelta `json:"changes"`
}

var (
	analyzeSchema = json.RawMessage(`{"type":"object","properties":{"path":{"type":"string","description":"Directory to analyze (default: server working directory)"},"output":{"type":"string","description":"Directory that receives report.json and index.html (default: plato-report)"}},"additionalProperties":false}`)
	historySchema = json.RawMessage(`{"type":"object","properties":{"path":{"type":"string","description":"Only runs of this target (default: all targets)"},"n":{"type":"integer","description":"Number of runs to return (default 10)"}},"additionalProperties":false}`)
	compareSchema = json.RawMessage(`{"type":"object","properties":{"path":{"type":"string","description":"Target whose two latest runs are compared (default: server working directory)"},"previous_id":{"type":"integer"},"current_id":{"type":"integer"}},"additionalProperties":false}`)
)

const (
	defaultHistoryN = 10
	maxHistoryN     = 100
)

// addTools registers the MCP tool handlers on s.
func addTools(s *Server) {
	s.registerTool(toolDef{
		Name:        "analyze_project",
		Description: "Maintainability index, cyclomatic complexity and size for every .vue and .js file under a directory.",
		InputSchema: analyzeSchema,
		Handler:     s.handleAnalyzeProject,
	})
	s.registerTool(toolDef{
		Name:        "get_history",
		Description: "Recent recorded analysis runs with average maintainability and complexity.",
		InputSchema: historySchema,
		Handler:     s.handleGetHistory,
	})
	s.registerTool(toolDef{
		Name:        "compare_runs",
		Description: "Per-file maintainability changes between two recorded runs, largest drops first.",
		InputSchema: compareSchema,
		Handler:     s.handleCompareRuns,
	})
}

// decodeArgs unmarshals optional tool arguments into v.
func decodeArgs(args json.RawMessage, v any) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// handleAnalyzeProject runs a full analysis and returns its results.
func (s *Server) handleAnalyzeProject(ctx context.Context, args json.RawMessage) (any, error) {
	var params struct {
		Path   string `json:"path"`
		Output string `json:"output"`
	}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	cfg := s.deps.Base
	if params.Path != "" {
		cfg.TargetPath = params.Path
	}
	if params.Output != "" {
		cfg.OutputPath = params.Output
	}

	out, err := pipeline.Run(ctx, cfg, pipeline.Deps{
		Engine:   s.deps.Engine,
		Stdout:   io.Discard,
		Recorder: s.deps.Recorder,
	})
	if err != nil {
		return nil, err
	}

	results := out.Results
	if results == nil {
		results = []analyzer.Result{}
	}
	return AnalyzeResult{
		Target:  out.Target,
		Output:  out.Output,
		Summary: out.Summary,
		Results: results,
		Skipped: out.Skipped,
	}, nil
}

// handleGetHistory returns the latest recorded runs.
func (s *Server) handleGetHistory(_ context.Context, args json.RawMessage) (any, error) {
	if s.deps.DB == nil {
		return nil, errors.New("run history is disabled")
	}
	var params struct {
		Path string `json:"path"`
		N    *int   `json:"n"`
	}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	n := defaultHistoryN
	if params.N != nil && *params.N > 0 {
		n = *params.N
	}
	if n > maxHistoryN {
		n = maxHistoryN
	}

	target := ""
	if params.Path != "" {
		abs, err := filepath.Abs(params.Path)
		if err != nil {
			return nil, fmt.Errorf("resolving path: %w", err)
		}
		target = abs
	}

	runs, err := s.deps.DB.RecentRuns(target, n)
	if err != nil {
		return nil, err
	}
	if runs == nil {
		runs = []store.Run{}
	}
	return HistoryResult{Runs: runs}, nil
}

// handleCompareRuns compares two runs by id, or the two latest runs of a
// target when no ids are given.
func (s *Server) handleCompareRuns(_ context.Context, args json.RawMessage) (any, error) {
	db := s.deps.DB
	if db == nil {
		return nil, errors.New("run history is disabled")
	}
	var params struct {
		Path       string `json:"path"`
		PreviousID int64  `json:"previous_id"`
		CurrentID  int64  `json:"current_id"`
	}
	if err := decodeArgs(args, &params); err != nil {
		return nil, err
	}

	var prev, curr *store.Run
	if params.PreviousID > 0 && params.CurrentID > 0 {
		var err error
		if prev, err = db.GetRun(params.PreviousID); err != nil {
			return nil, err
		}
		if curr, err = db.GetRun(params.CurrentID); err != nil {
			return nil, err
		}
		if prev == nil || curr == nil {
			return nil, errors.New("run not found")
		}
	} else {
		path := params.Path
		if path == "" {
			path = "."
		}
		target, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolving path: %w", err)
		}
		runs, err := db.RecentRuns(target, 2)
		if err != nil {
			return nil, err
		}
		if len(runs) < 2 {
			return nil, fmt.Errorf("need two recorded runs of %s, found %d", target, len(runs))
		}
		curr, prev = &runs[0], &runs[1]
	}

	changes, err := db.CompareRuns(prev.ID, curr.ID)
	if err != nil {
		return nil, err
	}
	if changes == nil {
		changes = []store.FileDelta{}
	}
	return CompareResult{Previous: prev, Current: curr, Changes: changes}, nil
}
