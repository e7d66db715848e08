// Package scanner discovers component and script files under a directory tree.
package scanner

// Category classifies a discovered file.
type Category string

const (
	// CategoryComponent marks a single-file component with an embedded script section.
	CategoryComponent Category = "vue"

	// CategoryScript marks a plain script file.
	CategoryScript Category = "js"
)

// DefaultMaxDepth is the deepest directory level the scanner will read.
// The scan root is depth 0.
const DefaultMaxDepth = 50

// DefaultExcludes are directory names that are never descended into.
var DefaultExcludes = []string{
	"node_modules", "dist", "build", ".git", "test-output",
	".vscode", ".idea", "coverage", "temp", "tmp", "cache",
	"logs", "uploads", "downloads",
}

// Result holds the files found by a scan.
type Result struct {
	// Root is the directory the scan started from.
	Root string `json:"root"`

	// ComponentFiles are absolute paths of component files.
	ComponentFiles []string `json:"component_files"`

	// ScriptFiles are absolute paths of plain script files.
	ScriptFiles []string `json:"script_files"`

	// Unreadable counts entries that could not be read or stat'ed.
	Unreadable int `json:"unreadable"`

	// Fallback is set when the files came from the glob fallback strategy.
	Fallback bool `json:"fallback,omitempty"`
}

// Total returns the number of discovered files of both categories.
func (r Result) Total() int {
	return len(r.ComponentFiles) + len(r.ScriptFiles)
}

// All returns component files followed by script files.
func (r Result) All() []string {
	all := make([]string, 0, r.Total())
	all = append(all, r.ComponentFiles...)
	return append(all, r.ScriptFiles...)
}
