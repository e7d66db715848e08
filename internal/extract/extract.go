// Package extract stages analyzable script content from discovered files.
//
// Component files contribute the body of their first <script> section;
// script files are copied verbatim. Every staged file gets a flat,
// collision-free name inside the staging directory.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/blackwell-systems/platovue/internal/output"
	"github.com/blackwell-systems/platovue/internal/scanner"
)

// ErrNothingToAnalyze is returned by Validate when no file was staged.
var ErrNothingToAnalyze = errors.New("no Vue files with script blocks or JavaScript files found to analyze")

// scriptSection matches the first <script ...>...</script> pair, non-greedy,
// across lines.
var scriptSection = regexp.MustCompile(`<script[^>]*>([\s\S]*?)</script>`)

// StagedFile correlates a source file with its staged counterpart.
type StagedFile struct {
	OriginalPath string           `json:"original_path"`
	StagedPath   string           `json:"staged_path"`
	StagedName   string           `json:"staged_name"`
	DisplayName  string           `json:"display_name"`
	Category     scanner.Category `json:"category"`
}

// Options configures extraction.
type Options struct {
	ComponentExt string
	ScriptExt    string

	// Logger receives one line per processed or skipped file. May be nil.
	Logger *output.Logger
}

// Result is the outcome of Extract.
type Result struct {
	// Files are the staged files, component files first.
	Files []StagedFile

	// Skipped are display names of component files without a usable
	// script section.
	Skipped []string
}

// ScriptSection returns the body of the first script section in text.
// The second return value is false when there is no section or the body is
// blank.
func ScriptSection(text string) (string, bool) {
	m := scriptSection.FindStringSubmatch(text)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return "", false
	}
	return m[1], true
}

// StagedName flattens a path relative to the scan root into a staging file
// name: separators become underscores and a trailing component or script
// extension becomes the script extension.
func StagedName(rel, componentExt, scriptExt string) string {
	name := strings.NewReplacer("/", "_", `\`, "_").Replace(rel)
	if strings.HasSuffix(name, componentExt) {
		name = strings.TrimSuffix(name, componentExt) + scriptExt
	}
	return name
}

// Extract writes staged copies of componentFiles and scriptFiles into
// stagingDir. Component files without a non-blank script section are
// skipped with a warning. Read or write failures abort the extraction; the
// returned result still lists the files staged before the failure.
func Extract(componentFiles, scriptFiles []string, scanRoot, stagingDir string, opts Options) (*Result, error) {
	if opts.ComponentExt == "" {
		opts.ComponentExt = ".vue"
	}
	if opts.ScriptExt == "" {
		opts.ScriptExt = ".js"
	}

	res := &Result{}
	names := newNameSet()

	for _, file := range componentFiles {
		rel := displayName(scanRoot, file)

		data, err := os.ReadFile(file)
		if err != nil {
			return res, fmt.Errorf("reading %s: %w", rel, err)
		}

		body, ok := ScriptSection(string(data))
		if !ok {
			opts.Logger.Warnf("%s: (no <script> block found)", rel)
			res.Skipped = append(res.Skipped, rel)
			continue
		}

		staged, err := stage(file, rel, body, scanner.CategoryComponent, stagingDir, names, opts)
		if err != nil {
			return res, err
		}
		res.Files = append(res.Files, staged)
		opts.Logger.Infof("✅ Processed Vue: %s", rel)
	}

	for _, file := range scriptFiles {
		rel := displayName(scanRoot, file)

		data, err := os.ReadFile(file)
		if err != nil {
			return res, fmt.Errorf("reading %s: %w", rel, err)
		}

		staged, err := stage(file, rel, string(data), scanner.CategoryScript, stagingDir, names, opts)
		if err != nil {
			return res, err
		}
		res.Files = append(res.Files, staged)
		opts.Logger.Infof("✅ Processed JS: %s", rel)
	}

	return res, nil
}

func stage(file, rel, content string, cat scanner.Category, stagingDir string, names *nameSet, opts Options) (StagedFile, error) {
	name := names.claim(StagedName(rel, opts.ComponentExt, opts.ScriptExt), opts.ScriptExt)
	path := filepath.Join(stagingDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return StagedFile{}, fmt.Errorf("staging %s: %w", rel, err)
	}
	return StagedFile{
		OriginalPath: file,
		StagedPath:   path,
		StagedName:   name,
		DisplayName:  rel,
		Category:     cat,
	}, nil
}

// displayName returns file relative to root, or file itself when no
// relative form exists.
func displayName(root, file string) string {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return file
	}
	return rel
}

// nameSet hands out unique staging names. Flattening maps both a/b/x.vue
// and a_b/x.vue to a_b_x.js; the later claim gets a numeric suffix.
type nameSet struct {
	used map[string]bool
}

func newNameSet() *nameSet {
	return &nameSet{used: make(map[string]bool)}
}

func (s *nameSet) claim(name, ext string) string {
	if !s.used[name] {
		s.used[name] = true
		return name
	}
	base := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate := base + "." + strconv.Itoa(i) + ext
		if !s.used[candidate] {
			s.used[candidate] = true
			return candidate
		}
	}
}

// Validate returns ErrNothingToAnalyze when no file was staged.
func Validate(files []StagedFile) error {
	if len(files) == 0 {
		return ErrNothingToAnalyze
	}
	return nil
}
