package scanner

import (
	"strings"

	"github.com/blackwell-systems/platovue/internal/output"
)

// Options configures a scan.
type Options struct {
	// ComponentExt is the component file extension, including the dot.
	ComponentExt string

	// ScriptExt is the script file extension, including the dot.
	ScriptExt string

	// Exclude lists directory names that are pruned.
	Exclude []string

	// MaxDepth is the deepest directory level that is read.
	MaxDepth int

	// Logger receives debug lines for unreadable entries. May be nil.
	Logger *output.Logger
}

// DefaultOptions returns options for .vue/.js discovery with the default
// exclusion set plus outputDirName, when non-empty.
func DefaultOptions(outputDirName string) Options {
	exclude := append([]string(nil), DefaultExcludes...)
	if outputDirName != "" {
		exclude = append(exclude, outputDirName)
	}
	return Options{
		ComponentExt: ".vue",
		ScriptExt:    ".js",
		Exclude:      exclude,
		MaxDepth:     DefaultMaxDepth,
	}
}

// withDefaults fills zero-valued fields.
func (o Options) withDefaults() Options {
	if o.ComponentExt == "" {
		o.ComponentExt = ".vue"
	}
	if o.ScriptExt == "" {
		o.ScriptExt = ".js"
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}

// ShouldSkipDirectory reports whether a directory with the given bare name
// is pruned from the walk.
func (o Options) ShouldSkipDirectory(name string) bool {
	for _, ex := range o.Exclude {
		if ex == name {
			return true
		}
	}
	return false
}

// Classify returns the category of a file name and whether it is a target
// file at all.
func (o Options) Classify(name string) (Category, bool) {
	o = o.withDefaults()
	switch {
	case strings.HasSuffix(name, o.ComponentExt):
		return CategoryComponent, true
	case strings.HasSuffix(name, o.ScriptExt):
		return CategoryScript, true
	default:
		return "", false
	}
}

// IsTargetFile reports whether name carries a component or script extension.
func (o Options) IsTargetFile(name string) bool {
	_, ok := o.Classify(name)
	return ok
}
