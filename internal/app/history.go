package app

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/platovue/internal/config"
	"github.com/blackwell-systems/platovue/internal/output"
	"github.com/blackwell-systems/platovue/internal/store"
)

var (
	historyLimit int
	historyFiles int
)

var historyCmd = &cobra.Command{
	Use:   "history [targetPath]",
	Short: "Show maintainability trends across recorded runs",
	Long: `List recent analysis runs with their average maintainability and the
change since the previous run of the same target. With a target, also show the
files whose maintainability moved the most between the two latest runs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "Number of runs to show (default: history.limit)")
	historyCmd.Flags().IntVar(&historyFiles, "files", 5, "Number of changed files to show for a target")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyColor(cfg)

	db, err := store.Open(cfg.History.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	target := ""
	if len(args) > 0 {
		if target, err = filepath.Abs(args[0]); err != nil {
			return fmt.Errorf("resolving target: %w", err)
		}
	}
	limit := historyLimit
	if limit <= 0 {
		limit = cfg.History.Limit
	}

	if flagJSON {
		return outputHistoryJSON(cmd.OutOrStdout(), db, target, limit)
	}
	return renderHistory(cmd.OutOrStdout(), db, target, limit, historyFiles)
}

func outputHistoryJSON(w io.Writer, db *store.DB, target string, limit int) error {
	runs, err := db.RecentRuns(target, limit)
	if err != nil {
		return fmt.Errorf("loading runs: %w", err)
	}
	if runs == nil {
		runs = []store.Run{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"runs": runs})
}

// renderHistory prints runs oldest first with a trend column comparing each
// run to the previous run of the same target.
func renderHistory(w io.Writer, db *store.DB, target string, limit, files int) error {
	runs, err := db.RecentRuns(target, limit)
	if err != nil {
		return fmt.Errorf("loading runs: %w", err)
	}

	fmt.Fprintln(w, output.Section("History: Maintainability"))
	fmt.Fprintln(w)

	if len(runs) == 0 {
		fmt.Fprintln(w, " No runs recorded yet. Run 'platovue' to analyze a project.")
		return nil
	}

	// Reverse so oldest is first.
	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}

	tbl := output.NewTable("Run", "Date", "Target", "Files", "Avg MI", "Avg CC", "Trend").AlignRight(3, 4, 5)
	last := map[string]float64{}
	for _, r := range runs {
		trend := output.StyleMuted.Render("─")
		if prev, ok := last[r.Target]; ok {
			trend = output.TrendArrow(r.AverageMaintainability-prev, true)
		}
		last[r.Target] = r.AverageMaintainability

		tbl.AddRow(
			fmt.Sprintf("#%d", r.ID),
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.Target,
			fmt.Sprintf("%d", r.AnalyzedFiles),
			fmt.Sprintf("%.2f", r.AverageMaintainability),
			fmt.Sprintf("%.2f", r.AverageComplexity),
			trend,
		)
	}
	tbl.Fprint(w)

	latest := runs[len(runs)-1]
	fmt.Fprintf(w, "\n Latest: %s\n", output.ScoreBar(latest.AverageMaintainability, 20))

	if target == "" || len(runs) < 2 || files <= 0 {
		return nil
	}
	return renderFileChanges(w, db, runs[len(runs)-2], latest, files)
}

// renderFileChanges lists the files whose maintainability changed most
// between two runs.
func renderFileChanges(w io.Writer, db *store.DB, prev, cur store.Run, n int) error {
	deltas, err := db.CompareRuns(prev.ID, cur.ID)
	if err != nil {
		return fmt.Errorf("comparing runs: %w", err)
	}

	var changed []store.FileDelta
	for _, d := range deltas {
		if d.Delta != 0 {
			changed = append(changed, d)
		}
	}

	fmt.Fprintln(w, output.Section(fmt.Sprintf("Changes: run #%d → #%d", prev.ID, cur.ID)))
	fmt.Fprintln(w)
	if len(changed) == 0 {
		fmt.Fprintln(w, " No file changed maintainability.")
		return nil
	}

	// Regressions sort first; show the head and the tail.
	if len(changed) > n {
		head := changed[:(n+1)/2]
		tail := changed[len(changed)-n/2:]
		changed = append(append([]store.FileDelta(nil), head...), tail...)
	}

	tbl := output.NewTable("File", "Previous", "Current", "Trend").AlignRight(1, 2)
	for _, d := range changed {
		tbl.AddRow(
			d.File,
			fmt.Sprintf("%.2f", d.Previous),
			fmt.Sprintf("%.2f", d.Current),
			output.TrendArrow(d.Delta, true),
		)
	}
	tbl.Fprint(w)
	return nil
}
