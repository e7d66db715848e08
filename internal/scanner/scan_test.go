package scanner

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/platovue/internal/output"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// ---------------------------------------------------------------------------
// Scan
// ---------------------------------------------------------------------------

func TestScan_ClassifiesFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "App.vue"), "<script></script>")
	writeFile(t, filepath.Join(root, "main.js"), "x()")
	writeFile(t, filepath.Join(root, "src", "components", "Button.vue"), "<script></script>")
	writeFile(t, filepath.Join(root, "src", "utils", "format.js"), "y()")
	writeFile(t, filepath.Join(root, "README.md"), "# readme")
	writeFile(t, filepath.Join(root, "src", "style.css"), "a{}")

	res := Scan(root, DefaultOptions("plato-report"))

	assert.ElementsMatch(t, []string{
		filepath.Join(root, "App.vue"),
		filepath.Join(root, "src", "components", "Button.vue"),
	}, res.ComponentFiles)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "main.js"),
		filepath.Join(root, "src", "utils", "format.js"),
	}, res.ScriptFiles)
	assert.Equal(t, 4, res.Total())
	assert.Zero(t, res.Unreadable)
	assert.False(t, res.Fallback)
}

func TestScan_SkipsExcludedDirectories(t *testing.T) {
	root := t.TempDir()
	opts := DefaultOptions("plato-report")

	for _, dir := range opts.Exclude {
		writeFile(t, filepath.Join(root, dir, "hidden.js"), "x()")
		writeFile(t, filepath.Join(root, "nested", dir, "deep", "hidden.vue"), "<script>x</script>")
	}
	writeFile(t, filepath.Join(root, "nested", "kept.js"), "x()")

	res := Scan(root, opts)

	assert.Equal(t, []string{filepath.Join(root, "nested", "kept.js")}, res.ScriptFiles)
	assert.Empty(t, res.ComponentFiles)
	for _, f := range res.All() {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		for _, seg := range strings.Split(filepath.Dir(rel), string(filepath.Separator)) {
			assert.False(t, opts.ShouldSkipDirectory(seg), rel)
		}
	}
}

func TestScan_DepthCeiling(t *testing.T) {
	root := t.TempDir()

	// A chain of 100 nested directories, each holding one script file.
	dir := root
	writeFile(t, filepath.Join(dir, "f.js"), "x()")
	for i := 1; i <= 100; i++ {
		dir = filepath.Join(dir, "d")
		writeFile(t, filepath.Join(dir, "f.js"), "x()")
	}

	res := Scan(root, DefaultOptions(""))

	// Depths 0 through 50 are read.
	require.Len(t, res.ScriptFiles, DefaultMaxDepth+1)
	for _, f := range res.ScriptFiles {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		depth := strings.Count(rel, string(filepath.Separator))
		assert.LessOrEqual(t, depth, DefaultMaxDepth)
	}
}

func TestScan_CustomDepth(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "b", "c", "deep.js"), "x()")
	writeFile(t, filepath.Join(root, "a", "shallow.js"), "x()")

	opts := DefaultOptions("")
	opts.MaxDepth = 1

	res := Scan(root, opts)
	assert.Equal(t, []string{filepath.Join(root, "a", "shallow.js")}, res.ScriptFiles)
}

func TestScan_BrokenSymlinkIsSkipped(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ok.js"), "x()")
	require.NoError(t, os.Symlink(filepath.Join(root, "missing.js"), filepath.Join(root, "broken-symlink")))

	var buf bytes.Buffer
	opts := DefaultOptions("")
	opts.Logger = output.NewLogger(&buf, true)

	res := Scan(root, opts)

	assert.Equal(t, []string{filepath.Join(root, "ok.js")}, res.ScriptFiles)
	assert.Equal(t, 1, res.Unreadable)
	assert.Contains(t, buf.String(), "Could not stat broken-symlink")
}

func TestScan_SymlinkLoopTerminates(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "f.js"), "x()")
	require.NoError(t, os.Symlink(filepath.Join(root, "a"), filepath.Join(root, "a", "loop")))

	res := Scan(root, DefaultOptions(""))

	// a/f.js, a/loop/f.js, a/loop/loop/f.js ... until the depth ceiling or
	// the platform's symlink resolution limit stops the descent.
	require.NotEmpty(t, res.ScriptFiles)
	assert.LessOrEqual(t, len(res.ScriptFiles), DefaultMaxDepth)
	for _, f := range res.ScriptFiles {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		dirDepth := len(strings.Split(filepath.Dir(rel), string(filepath.Separator)))
		assert.LessOrEqual(t, dirDepth, DefaultMaxDepth, rel)
	}
}

func TestScan_UnreadableDirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ok.js"), "x()")
	locked := filepath.Join(root, "locked")
	writeFile(t, filepath.Join(locked, "secret.js"), "x()")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	var buf bytes.Buffer
	opts := DefaultOptions("")
	opts.Logger = output.NewLogger(&buf, true)

	res := Scan(root, opts)

	assert.Equal(t, []string{filepath.Join(root, "ok.js")}, res.ScriptFiles)
	assert.Equal(t, 1, res.Unreadable)
	assert.Contains(t, buf.String(), "Could not read directory "+locked)
}

func TestScan_MissingRoot(t *testing.T) {
	res := Scan(filepath.Join(t.TempDir(), "does-not-exist"), DefaultOptions(""))

	assert.Zero(t, res.Total())
	assert.Equal(t, 1, res.Unreadable)
	assert.ErrorIs(t, Validate(res), ErrNoFiles)
}

// ---------------------------------------------------------------------------
// Glob fallback
// ---------------------------------------------------------------------------

func TestGlobFallback_AppliesSameRules(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "App.vue"), "<script></script>")
	writeFile(t, filepath.Join(root, "src", "x.js"), "x()")
	writeFile(t, filepath.Join(root, "node_modules", "lib", "y.js"), "y()")
	writeFile(t, filepath.Join(root, "src", "dist", "z.vue"), "<script></script>")

	res := globFallback(root, DefaultOptions("").withDefaults())

	assert.True(t, res.Fallback)
	assert.Equal(t, []string{filepath.Join(root, "App.vue")}, res.ComponentFiles)
	assert.Equal(t, []string{filepath.Join(root, "src", "x.js")}, res.ScriptFiles)
}

func TestAllowedByFallback(t *testing.T) {
	opts := DefaultOptions("plato-report")
	opts.MaxDepth = 2

	tests := []struct {
		rel  string
		want bool
	}{
		{"a.js", true},
		{"src/a.js", true},
		{"src/lib/a.js", true},
		{"src/lib/deep/a.js", false},
		{"node_modules/a.js", false},
		{"src/plato-report/a.js", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, allowedByFallback(tc.rel, opts), tc.rel)
	}
}

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

func TestShouldSkipDirectory(t *testing.T) {
	opts := DefaultOptions("plato-report")

	skip := []string{"node_modules", "dist", "build", ".git", "test-output", "plato-report",
		".vscode", ".idea", "coverage", "temp", "tmp", "cache", "logs", "uploads", "downloads"}
	for _, name := range skip {
		assert.True(t, opts.ShouldSkipDirectory(name), name)
	}
	for _, name := range []string{"src", "components", "utils", "tests"} {
		assert.False(t, opts.ShouldSkipDirectory(name), name)
	}
}

func TestIsTargetFile(t *testing.T) {
	opts := DefaultOptions("")

	for _, name := range []string{"component.vue", "Component.vue", "path/to/file.vue", "script.js", "Script.js"} {
		assert.True(t, opts.IsTargetFile(name), name)
	}
	for _, name := range []string{"file.txt", "style.css", "image.png", "document.pdf", "types.ts"} {
		assert.False(t, opts.IsTargetFile(name), name)
	}

	cat, ok := opts.Classify("Button.vue")
	assert.True(t, ok)
	assert.Equal(t, CategoryComponent, cat)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(Result{ComponentFiles: []string{"a.vue"}}))
	assert.NoError(t, Validate(Result{ScriptFiles: []string{"a.js"}}))
	assert.ErrorIs(t, Validate(Result{}), ErrNoFiles)
}
