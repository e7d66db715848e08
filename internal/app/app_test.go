package app

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/platovue/internal/analyzer"
	"github.com/blackwell-systems/platovue/internal/config"
	"github.com/blackwell-systems/platovue/internal/extract"
	"github.com/blackwell-systems/platovue/internal/output"
	"github.com/blackwell-systems/platovue/internal/pipeline"
	"github.com/blackwell-systems/platovue/internal/scanner"
	"github.com/blackwell-systems/platovue/internal/store"
)

func TestSubcommands_Registered(t *testing.T) {
	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range []string{"history", "watch", "mcp", "suggest"} {
		assert.True(t, registered[name], "%s subcommand not registered on rootCmd", name)
	}
}

func TestRootCmd_RejectsExtraArgs(t *testing.T) {
	assert.Error(t, rootCmd.Args(rootCmd, []string{"a", "b", "c"}))
	assert.NoError(t, rootCmd.Args(rootCmd, []string{"a", "b"}))
	assert.NoError(t, rootCmd.Args(rootCmd, nil))
}

func TestPipelineConfig(t *testing.T) {
	cfg := &config.Config{
		OutputDir:      "plato-report",
		ExcludeDirs:    []string{"node_modules"},
		MaxDepth:       12,
		ComponentExt:   ".vue",
		ScriptExt:      ".js",
		StagingDirName: "temp-analysis",
		ReportTitle:    "Title",
	}

	rc := pipelineConfig(cfg, nil)
	assert.Empty(t, rc.TargetPath)
	assert.Equal(t, "plato-report", rc.OutputPath)
	assert.Equal(t, 12, rc.MaxDepth)
	assert.Equal(t, "Title", rc.Title)

	rc = pipelineConfig(cfg, []string{"src"})
	assert.Equal(t, "src", rc.TargetPath)
	assert.Equal(t, "plato-report", rc.OutputPath)

	rc = pipelineConfig(cfg, []string{"src", "out"})
	assert.Equal(t, "src", rc.TargetPath)
	assert.Equal(t, "out", rc.OutputPath)
}

func TestToRun(t *testing.T) {
	started := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	o := &pipeline.Outcome{
		StartedAt: started,
		Target:    "/work",
		Output:    "/work/plato-report",
		Scan: scanner.Result{
			ComponentFiles: []string{"/work/a.vue", "/work/b.vue"},
			ScriptFiles:    []string{"/work/c.js"},
		},
		Staged: []extract.StagedFile{{}, {}},
		Results: []analyzer.Result{
			{DisplayName: "a.vue", Category: scanner.CategoryComponent, Maintainability: 80, Complexity: 2, LinesOfCode: 10, Tier: analyzer.TierGood},
		},
		Summary: analyzer.Summary{AverageMaintainability: 80, AverageComplexity: 2, TotalFiles: 1},
	}

	run, results := toRun(o, "1.2.3")
	assert.Equal(t, started, run.StartedAt)
	assert.Equal(t, "1.2.3", run.Version)
	assert.Equal(t, 3, run.DiscoveredFiles)
	assert.Equal(t, 2, run.StagedFiles)
	assert.Equal(t, 1, run.AnalyzedFiles)
	require.Len(t, results, 1)
	assert.Equal(t, store.FileResult{
		File: "a.vue", Category: "vue", Maintainability: 80, Complexity: 2, SLOC: 10, Tier: "Good",
	}, results[0])
}

func TestToRun_SkipsUnscoredFiles(t *testing.T) {
	o := &pipeline.Outcome{
		Target: "/work",
		Results: []analyzer.Result{
			{DisplayName: "a.js", Category: scanner.CategoryScript, Maintainability: math.NaN(), Tier: analyzer.TierLow},
			{DisplayName: "b.js", Category: scanner.CategoryScript, Maintainability: 70, Complexity: 1, Tier: analyzer.TierGood},
		},
		Summary: analyzer.Summary{AverageMaintainability: 70, AverageComplexity: 1, TotalFiles: 1},
	}

	_, results := toRun(o, "dev")
	require.Len(t, results, 1)
	assert.Equal(t, "b.js", results[0].File)
}

func TestHistoryRecorder(t *testing.T) {
	db, err := store.OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	rec := &historyRecorder{db: db, version: "dev"}
	o := &pipeline.Outcome{
		Target:  "/work",
		Output:  "/work/plato-report",
		Results: []analyzer.Result{{DisplayName: "a.js", Category: scanner.CategoryScript, Maintainability: 70, Tier: analyzer.TierGood}},
		Summary: analyzer.Summary{AverageMaintainability: 70, TotalFiles: 1},
	}
	require.NoError(t, rec.Record(context.Background(), o))

	runs, err := db.RecentRuns("/work", 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	files, err := db.FileResults(runs[0].ID)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a.js", files[0].File)
}

func seedRuns(t *testing.T, db *store.DB) {
	t.Helper()
	_, err := db.RecordRun(&store.Run{Target: "/work", Output: "/o", Version: "dev", AnalyzedFiles: 2, AverageMaintainability: 70, AverageComplexity: 2}, []store.FileResult{
		{File: "a.js", Category: "js", Maintainability: 80, Tier: "Good"},
		{File: "b.js", Category: "js", Maintainability: 60, Tier: "Moderate"},
	})
	require.NoError(t, err)
	_, err = db.RecordRun(&store.Run{Target: "/work", Output: "/o", Version: "dev", AnalyzedFiles: 2, AverageMaintainability: 72.5, AverageComplexity: 1.5}, []store.FileResult{
		{File: "a.js", Category: "js", Maintainability: 75, Tier: "Good"},
		{File: "b.js", Category: "js", Maintainability: 70, Tier: "Good"},
	})
	require.NoError(t, err)
}

func TestRenderHistory(t *testing.T) {
	output.SetNoColor(true)
	db, err := store.OpenInMemory()
	require.NoError(t, err)
	defer db.Close()
	seedRuns(t, db)

	var buf bytes.Buffer
	require.NoError(t, renderHistory(&buf, db, "/work", 10, 5))

	got := buf.String()
	assert.Contains(t, got, "History: Maintainability")
	assert.Contains(t, got, "#1")
	assert.Contains(t, got, "#2")
	assert.Contains(t, got, "72.50")
	assert.Contains(t, got, "▲ +2.50")
	assert.Contains(t, got, "Changes: run #1 → #2")
	assert.Contains(t, got, "▼ -5.00")
	assert.Contains(t, got, "▲ +10.00")
}

func TestRenderHistory_Empty(t *testing.T) {
	output.SetNoColor(true)
	db, err := store.OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	require.NoError(t, renderHistory(&buf, db, "", 10, 5))
	assert.Contains(t, buf.String(), "No runs recorded yet")
}

func TestOutputHistoryJSON(t *testing.T) {
	db, err := store.OpenInMemory()
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	require.NoError(t, outputHistoryJSON(&buf, db, "", 10))
	assert.JSONEq(t, `{"runs": []}`, buf.String())

	seedRuns(t, db)
	buf.Reset()
	require.NoError(t, outputHistoryJSON(&buf, db, "/work", 1))
	assert.Contains(t, buf.String(), `"avg_maintainability": 72.5`)
	assert.NotContains(t, buf.String(), `"avg_maintainability": 70`)
}

func TestRootCmd_AnalyzesAndRecords(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	target := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "report")
	require.NoError(t, os.WriteFile(filepath.Join(target, "App.vue"),
		[]byte("<template><p/></template>\n<script>\nexport default { name: 'App' }\n</script>\n"), 0o644))

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetArgs([]string{target, outDir, "--no-color"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	assert.Contains(t, stdout.String(), "📁 App.vue (Vue):")
	assert.Contains(t, stdout.String(), "✅ Analysis complete!")
	assert.NoDirExists(t, filepath.Join(outDir, "temp-analysis"))

	db, err := store.Open(config.DBPath())
	require.NoError(t, err)
	defer db.Close()
	runs, err := db.RecentRuns(target, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].AnalyzedFiles)
}
