// Package report renders discovery, per-file results and run summaries to a
// terminal, or as JSON for scripting.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/platovue/internal/analyzer"
	"github.com/blackwell-systems/platovue/internal/extract"
	"github.com/blackwell-systems/platovue/internal/output"
	"github.com/blackwell-systems/platovue/internal/scanner"
)

// Presenter writes report sections to w.
type Presenter struct {
	w io.Writer
}

// New returns a Presenter writing to w.
func New(w io.Writer) *Presenter {
	if w == nil {
		w = os.Stdout
	}
	return &Presenter{w: w}
}

func (p *Presenter) println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

func (p *Presenter) printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

// Banner prints the tool banner.
func (p *Presenter) Banner() {
	p.println(output.StyleHeader.Render("🔍 Plato Vue.js Maintainability Analyzer"))
}

// Paths prints the resolved target and output locations.
func (p *Presenter) Paths(target, outputDir string) {
	p.printf("📁 Analyzing: %s\n", target)
	p.printf("📊 Output: %s\n\n", outputDir)
}

// Discovery lists the discovered files relative to the scan root, grouped
// by category, followed by how many of them were staged.
func (p *Presenter) Discovery(scan scanner.Result, staged []extract.StagedFile) {
	p.group("Vue", scan.Root, scan.ComponentFiles)
	p.group("JavaScript", scan.Root, scan.ScriptFiles)
	p.println()
	p.printf("📊 Summary: %d files processed out of %d total files (Vue + JS)\n", len(staged), scan.Total())
}

func (p *Presenter) group(label, root string, files []string) {
	if len(files) == 0 {
		return
	}
	p.printf("🔍 Found %d %s file(s):\n", len(files), label)
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			rel = f
		}
		p.printf("   %s\n", rel)
	}
}

// Results prints one block per file followed by the summary.
func (p *Presenter) Results(results []analyzer.Result, summary analyzer.Summary) {
	p.println("📊 Plato Analysis Results:")
	p.println()

	for _, r := range results {
		p.printf("📁 %s (%s):\n", r.DisplayName, categoryLabel(r.Category))
		p.printf("   Maintainability Index: %s\n", tierStyle(r.Tier).Render(fmt.Sprintf("%.2f", r.Maintainability)))
		p.printf("   Cyclomatic Complexity: %.2f\n", r.Complexity)
		p.printf("   Lines of Code: %d\n", r.LinesOfCode)
		p.printf("   Status: %s\n\n", r.Tier.Label())
	}

	p.Summary(summary)
}

// Summary prints the aggregate block.
func (p *Presenter) Summary(s analyzer.Summary) {
	p.println("📈 Summary:")
	p.printf("   Average Maintainability Index: %.2f\n", s.AverageMaintainability)
	p.printf("   Average Cyclomatic Complexity: %.2f\n", s.AverageComplexity)
	p.printf("   Total Files Analyzed: %d\n", s.TotalFiles)
}

// OutputPath points at the HTML report when the engine produced one.
func (p *Presenter) OutputPath(outputDir string) {
	index := filepath.Join(outputDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		return
	}
	abs, err := filepath.Abs(index)
	if err != nil {
		abs = index
	}
	p.printf("\n🌐 HTML Report generated at: %s\n", abs)
	p.println("   Open this file in your browser for detailed analysis!")
}

// Usage explains how to invoke the tool when nothing was found to analyze.
func (p *Presenter) Usage() {
	p.println(output.StyleError.Render("❌ No .vue or .js files found in the specified directory."))
	p.println("   Usage: platovue [source-path] [output-path]")
	p.println("   Example: platovue . plato-report")
	p.println("   Example: platovue src")
}

// Document is the JSON form of a run.
type Document struct {
	Target  string            `json:"target"`
	Output  string            `json:"output"`
	Results []analyzer.Result `json:"results"`
	Summary analyzer.Summary  `json:"summary"`
	Skipped []string          `json:"skipped,omitempty"`
}

// JSON writes doc as indented JSON.
func (p *Presenter) JSON(doc Document) error {
	if doc.Results == nil {
		doc.Results = []analyzer.Result{}
	}
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func categoryLabel(c scanner.Category) string {
	if c == scanner.CategoryComponent {
		return "Vue"
	}
	return "JS"
}

func tierStyle(t analyzer.Tier) lipgloss.Style {
	switch t {
	case analyzer.TierExcellent, analyzer.TierGood:
		return output.StyleSuccess
	case analyzer.TierModerate:
		return output.StyleModerate
	default:
		return output.StyleError
	}
}
