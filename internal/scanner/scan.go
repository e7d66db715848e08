package scanner

import (
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoFiles is returned by Validate when a scan found nothing to analyze.
var ErrNoFiles = errors.New("no .vue or .js files found in the specified directory")

// frame is a pending directory on the walk stack.
type frame struct {
	dir   string
	depth int
}

// Scan walks root depth-first and classifies component and script files.
// Excluded directories are never entered, and directories deeper than
// opts.MaxDepth are never read. Unreadable entries are logged and skipped;
// Scan itself never fails.
//
// When the walk finds nothing but hit unreadable entries, a glob-based
// fallback is tried under the same exclusion and depth rules.
func Scan(root string, opts Options) Result {
	opts = opts.withDefaults()
	res := Result{Root: root}

	stack := []frame{{dir: root, depth: 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// The depth ceiling wins over everything else.
		if f.depth > opts.MaxDepth {
			continue
		}

		entries, err := os.ReadDir(f.dir)
		if err != nil {
			opts.Logger.Debugf("Could not read directory %s: %v", f.dir, err)
			res.Unreadable++
			continue
		}

		var subdirs []string
		for _, entry := range entries {
			name := entry.Name()
			p := filepath.Join(f.dir, name)

			// Stat follows symlinks so broken links surface here.
			info, err := os.Stat(p)
			if err != nil {
				opts.Logger.Debugf("Could not stat %s: %v", name, err)
				res.Unreadable++
				continue
			}

			if info.IsDir() {
				if opts.ShouldSkipDirectory(name) {
					continue
				}
				subdirs = append(subdirs, p)
				continue
			}

			switch cat, _ := opts.Classify(name); cat {
			case CategoryComponent:
				res.ComponentFiles = append(res.ComponentFiles, p)
			case CategoryScript:
				res.ScriptFiles = append(res.ScriptFiles, p)
			}
		}

		// Push in reverse so the first subdirectory is visited first.
		for i := len(subdirs) - 1; i >= 0; i-- {
			stack = append(stack, frame{dir: subdirs[i], depth: f.depth + 1})
		}
	}

	if res.Total() == 0 && res.Unreadable > 0 {
		if fb := globFallback(root, opts); fb.Total() > 0 {
			fb.Unreadable = res.Unreadable
			return fb
		}
	}
	return res
}

// globFallback matches **/*<ext> patterns against root and applies the
// exclusion set and depth ceiling to every match.
func globFallback(root string, opts Options) Result {
	res := Result{Root: root, Fallback: true}
	fsys := os.DirFS(root)

	for _, ext := range []string{opts.ComponentExt, opts.ScriptExt} {
		matches, err := doublestar.Glob(fsys, "**/*"+ext)
		if err != nil {
			opts.Logger.Debugf("Glob fallback failed for *%s: %v", ext, err)
			continue
		}
		for _, m := range matches {
			if !allowedByFallback(m, opts) {
				continue
			}
			abs := filepath.Join(root, filepath.FromSlash(m))
			info, err := os.Stat(abs)
			if err != nil || info.IsDir() {
				continue
			}
			switch cat, _ := opts.Classify(path.Base(m)); cat {
			case CategoryComponent:
				res.ComponentFiles = appendUnique(res.ComponentFiles, abs)
			case CategoryScript:
				res.ScriptFiles = appendUnique(res.ScriptFiles, abs)
			}
		}
	}
	return res
}

// allowedByFallback applies the walk's pruning rules to a slash-separated
// path relative to the scan root.
func allowedByFallback(rel string, opts Options) bool {
	dirs := strings.Split(path.Dir(rel), "/")
	if len(dirs) == 1 && dirs[0] == "." {
		return true
	}
	if len(dirs) > opts.MaxDepth {
		return false
	}
	for _, d := range dirs {
		if opts.ShouldSkipDirectory(d) {
			return false
		}
	}
	return true
}

func appendUnique(list []string, p string) []string {
	for _, existing := range list {
		if existing == p {
			return list
		}
	}
	return append(list, p)
}

// Validate returns ErrNoFiles when the scan found neither component nor
// script files.
func Validate(res Result) error {
	if res.Total() == 0 {
		return ErrNoFiles
	}
	return nil
}
