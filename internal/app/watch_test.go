package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/platovue/internal/analyzer"
	"github.com/blackwell-systems/platovue/internal/engine"
	"github.com/blackwell-systems/platovue/internal/output"
	"github.com/blackwell-systems/platovue/internal/pipeline"
	"github.com/blackwell-systems/platovue/internal/scanner"
	"github.com/blackwell-systems/platovue/internal/watcher"
)

func TestProjectSource(t *testing.T) {
	target := t.TempDir()
	file := filepath.Join(target, "util.js")
	require.NoError(t, os.WriteFile(file, []byte("export const one = () => 1\n"), 0o644))

	src := &projectSource{
		cfg: pipeline.Config{TargetPath: target, OutputPath: filepath.Join(t.TempDir(), "report")},
		deps: pipeline.Deps{
			Engine: engine.NewNative(),
			Stdout: &bytes.Buffer{},
		},
	}

	fp, err := src.Fingerprint(context.Background())
	require.NoError(t, err)
	again, err := src.Fingerprint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fp, again)

	results, err := src.Analyze(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "util.js", results[0].DisplayName)

	require.NoError(t, os.WriteFile(file, []byte("export const one = () => 1\nexport const two = () => 2\n"), 0o644))
	changed, err := src.Fingerprint(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, fp, changed)
}

func TestPrintAlert(t *testing.T) {
	output.SetNoColor(true)
	var buf bytes.Buffer
	printAlert(&buf, watcher.Alert{
		Level:   "critical",
		Title:   "Low maintainability: Cart.vue",
		Message: "Dropped from 58.00 to 42.00",
		Time:    time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local),
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[09:30:00] 🔴 Low maintainability: Cart.vue", lines[0])
	assert.Equal(t, "         Dropped from 58.00 to 42.00", lines[1])
}

func TestAlertPrinter_JSON(t *testing.T) {
	flagJSON = true
	t.Cleanup(func() { flagJSON = false })

	var buf bytes.Buffer
	emit := alertPrinter(&buf)
	emit(watcher.Alert{Level: "warning", Title: "Complexity spike", Message: "2.00 → 3.00"})
	emit(watcher.Alert{Level: "info", Title: "Files changed"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "warning", first["level"])
	assert.Equal(t, "Complexity spike", first["title"])
}

type staticSource struct {
	results []analyzer.Result
	err     error
}

func (s staticSource) Fingerprint(context.Context) (string, error) { return "fixed", nil }

func (s staticSource) Analyze(context.Context) ([]analyzer.Result, error) {
	return s.results, s.err
}

func TestWatchProject_BaselineAndStop(t *testing.T) {
	src := staticSource{results: []analyzer.Result{{DisplayName: "a.js", Maintainability: 80, Complexity: 2}}}
	wt := watcher.New(src, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	var buf bytes.Buffer
	require.NoError(t, watchProject(ctx, &buf, wt, 10*time.Millisecond))

	out := buf.String()
	assert.Contains(t, out, "platovue watching... (checking every 10ms)")
	assert.Contains(t, out, "Baseline: 1 files, average maintainability 80.00")
	assert.Contains(t, out, "Stopped.")
}

func TestWatchProject_InitialFailure(t *testing.T) {
	src := staticSource{err: scanner.ErrNoFiles}
	wt := watcher.New(src, time.Minute, nil)

	var buf bytes.Buffer
	err := watchProject(context.Background(), &buf, wt, time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initial analysis failed")
}
