package app

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/platovue/internal/config"
	"github.com/blackwell-systems/platovue/internal/engine"
	"github.com/blackwell-systems/platovue/internal/output"
	"github.com/blackwell-systems/platovue/internal/pipeline"
	"github.com/blackwell-systems/platovue/internal/store"
	"github.com/blackwell-systems/platovue/internal/suggest"
)

var (
	suggestLimit    int
	suggestCategory string
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [targetPath] [outputPath]",
	Short: "Generate ranked refactoring recommendations",
	Long: `Analyze the project and turn the results into actionable, ranked
refactoring recommendations: low-scoring files, branch-heavy functions,
oversized modules and components, and files that regressed since the previous
recorded run. Suggestions are scored by impact and sorted from highest to
lowest.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().IntVar(&suggestLimit, "limit", 10, "Maximum number of suggestions to show")
	suggestCmd.Flags().StringVar(&suggestCategory, "category", "", "Filter by category (maintainability, complexity, size, regression, project, coverage)")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyColor(cfg)

	log := output.NewLogger(cmd.ErrOrStderr(), flagVerbose)
	deps := pipeline.Deps{
		Engine: engine.NewNative(),
		Stdout: io.Discard,
		Logger: output.NewLogger(io.Discard, false),
	}

	rec, closeRec := openRecorder(cfg, log)
	defer closeRec()

	runCfg := pipelineConfig(cfg, args)
	var previous []store.FileResult
	if rec != nil {
		deps.Recorder = rec
		// Look up the previous run before this one is recorded.
		if res, err := pipeline.Discover(runCfg, nil); err == nil {
			previous = latestFileResults(rec.db, res.Root, log)
		}
	}

	out, err := pipeline.Run(cmd.Context(), runCfg, deps)
	if err != nil {
		return err
	}

	suggestions := suggest.NewEngine().Run(buildAnalysisContext(out, previous))
	if suggestCategory != "" {
		suggestions = filterByCategory(suggestions, suggestCategory)
	}
	if suggestLimit > 0 && len(suggestions) > suggestLimit {
		suggestions = suggestions[:suggestLimit]
	}

	if flagJSON {
		return outputSuggestJSON(cmd.OutOrStdout(), suggestions)
	}
	renderSuggestions(cmd.OutOrStdout(), suggestions)
	return nil
}

// latestFileResults returns the per-file rows of the most recent recorded
// run of target, or nil when there is none.
func latestFileResults(db *store.DB, target string, log *output.Logger) []store.FileResult {
	runs, err := db.RecentRuns(target, 1)
	if err != nil || len(runs) == 0 {
		if err != nil {
			log.Debugf("Could not load previous run: %v", err)
		}
		return nil
	}
	results, err := db.FileResults(runs[0].ID)
	if err != nil {
		log.Debugf("Could not load previous run: %v", err)
		return nil
	}
	return results
}

// buildAnalysisContext constructs the AnalysisContext needed by the suggest
// engine from a finished run and the file rows of the previous run.
func buildAnalysisContext(out *pipeline.Outcome, previous []store.FileResult) *suggest.AnalysisContext {
	ctx := &suggest.AnalysisContext{
		Results: out.Results,
		Summary: out.Summary,
		Skipped: out.Skipped,
	}
	if len(previous) == 0 {
		return ctx
	}

	before := make(map[string]float64, len(previous))
	for _, fr := range previous {
		before[fr.File] = fr.Maintainability
	}
	ctx.Deltas = make(map[string]float64)
	for _, r := range out.Results {
		if p, ok := before[r.DisplayName]; ok {
			ctx.Deltas[r.DisplayName] = r.Maintainability - p
		}
	}
	return ctx
}

func filterByCategory(suggestions []suggest.Suggestion, category string) []suggest.Suggestion {
	var filtered []suggest.Suggestion
	for _, s := range suggestions {
		if s.Category == category {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

func outputSuggestJSON(w io.Writer, suggestions []suggest.Suggestion) error {
	if suggestions == nil {
		suggestions = []suggest.Suggestion{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"suggestions": suggestions})
}

func renderSuggestions(w io.Writer, suggestions []suggest.Suggestion) {
	if len(suggestions) == 0 {
		fmt.Fprintln(w, output.Section("Suggestions"))
		fmt.Fprintln(w)
		fmt.Fprintln(w, " No suggestions. Every file is in good shape!")
		return
	}

	fmt.Fprintln(w, output.Section("Refactoring Suggestions"))
	fmt.Fprintln(w)

	for i, s := range suggestions {
		label := priorityLabel(s.Priority)
		fmt.Fprintf(w, " #%d %s %s\n", i+1, label, output.StyleBold.Render(s.Title))
		fmt.Fprintf(w, "    Impact: %.1f  |  Category: %s\n", s.ImpactScore, s.Category)
		fmt.Fprintf(w, "    %s\n", s.Description)
		fmt.Fprintln(w)
	}
}

// priorityLabel renders "[NAME]" in the severity color of the priority.
func priorityLabel(priority int) string {
	label := "[" + suggest.PriorityName(priority) + "]"
	style := output.StyleMuted
	if priority == suggest.PriorityCritical || priority == suggest.PriorityHigh {
		style = output.StyleError
	} else if priority == suggest.PriorityMedium {
		style = output.StyleWarning
	}
	return style.Render(label)
}
