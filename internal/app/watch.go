package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/platovue/internal/analyzer"
	"github.com/blackwell-systems/platovue/internal/config"
	"github.com/blackwell-systems/platovue/internal/engine"
	"github.com/blackwell-systems/platovue/internal/output"
	"github.com/blackwell-systems/platovue/internal/pipeline"
	"github.com/blackwell-systems/platovue/internal/watcher"
)

var (
	watchInterval string
	watchQuiet    bool
	watchNotify   bool
)

// minWatchInterval bounds how often the project is re-scanned.
const minWatchInterval = time.Second

var watchCmd = &cobra.Command{
	Use:   "watch [targetPath] [outputPath]",
	Short: "Re-analyze on change and alert on maintainability regressions",
	Long: `Scan the project at a regular interval. When a .vue or .js file is
added, removed or modified, the analysis is re-run (refreshing the report in
outputPath) and alerts are emitted for files that enter the low tier,
maintainability drops, complexity spikes and recoveries.

Examples:
  platovue watch                      # watch the current directory (ctrl-c to stop)
  platovue watch src --interval 30s   # check every 30 seconds (default: 10s)
  platovue watch --notify             # also send desktop notifications
  platovue watch --json               # one JSON alert per line`,
	Args: cobra.MaximumNArgs(2),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchInterval, "interval", "10s", "Check interval as duration string (e.g. 30s, 5m)")
	watchCmd.Flags().BoolVar(&watchQuiet, "quiet", false, "Suppress terminal output, only send notifications")
	watchCmd.Flags().BoolVar(&watchNotify, "notify", false, "Send desktop notifications for alerts")
	rootCmd.AddCommand(watchCmd)
}

// projectSource adapts the analysis pipeline to the watcher.
type projectSource struct {
	cfg  pipeline.Config
	deps pipeline.Deps
}

func (s *projectSource) Fingerprint(_ context.Context) (string, error) {
	res, err := pipeline.Discover(s.cfg, s.deps.Logger)
	if err != nil {
		return "", err
	}
	return watcher.Fingerprint(res.All())
}

func (s *projectSource) Analyze(ctx context.Context) ([]analyzer.Result, error) {
	out, err := pipeline.Run(ctx, s.cfg, s.deps)
	if err != nil {
		return nil, err
	}
	return out.Results, nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyColor(cfg)

	interval, err := time.ParseDuration(watchInterval)
	if err != nil {
		return fmt.Errorf("invalid interval %q: %w", watchInterval, err)
	}
	if interval < minWatchInterval {
		return fmt.Errorf("interval must be at least %s, got %s", minWatchInterval, interval)
	}

	stdout := cmd.OutOrStdout()
	logOut := io.Discard
	if flagVerbose {
		logOut = cmd.ErrOrStderr()
	}
	log := output.NewLogger(logOut, flagVerbose)

	src := &projectSource{
		cfg: pipelineConfig(cfg, args),
		deps: pipeline.Deps{
			Engine: engine.NewNative(),
			Stdout: io.Discard,
			Logger: log,
		},
	}
	rec, closeRec := openRecorder(cfg, log)
	defer closeRec()
	if rec != nil {
		src.deps.Recorder = rec
	}

	emit := alertPrinter(stdout)
	notifier := watcher.NewNotifier()
	alertFn := func(a watcher.Alert) {
		if watchNotify {
			_ = notifier.Send(cmd.Context(), a)
		}
		if !watchQuiet {
			emit(a)
		}
	}

	return watchProject(cmd.Context(), stdout, watcher.New(src, interval, alertFn), interval)
}

// watchProject takes the baseline snapshot, reports it, and runs the watcher
// until ctx is cancelled.
func watchProject(ctx context.Context, w io.Writer, wt *watcher.Watcher, interval time.Duration) error {
	if !watchQuiet && !flagJSON {
		fmt.Fprintf(w, "platovue watching... (checking every %s)\n", interval)
	}

	if alerts := wt.Check(ctx); wt.Previous() == nil {
		if len(alerts) > 0 {
			return fmt.Errorf("initial analysis failed: %s", alerts[0].Message)
		}
		return fmt.Errorf("initial analysis failed")
	}

	if !watchQuiet && !flagJSON {
		base := wt.Previous()
		fmt.Fprintf(w, "[%s] %s Baseline: %d files, average maintainability %.2f\n",
			base.Timestamp.Format("15:04:05"),
			checkMark(),
			base.Summary.TotalFiles,
			base.Summary.AverageMaintainability)
	}

	err := wt.Run(ctx)
	if errors.Is(err, context.Canceled) {
		if !watchQuiet && !flagJSON {
			fmt.Fprintln(w, "\nStopped.")
		}
		return nil
	}
	return err
}

// alertPrinter returns a function writing alerts as text or, with --json,
// as one JSON object per line.
func alertPrinter(w io.Writer) func(watcher.Alert) {
	if flagJSON {
		enc := json.NewEncoder(w)
		return func(a watcher.Alert) {
			_ = enc.Encode(struct {
				Level   string    `json:"level"`
				Title   string    `json:"title"`
				Message string    `json:"message"`
				Time    time.Time `json:"time"`
			}{a.Level, a.Title, a.Message, a.Time})
		}
	}
	return func(a watcher.Alert) { printAlert(w, a) }
}

// printAlert formats and prints an alert to the terminal.
func printAlert(w io.Writer, a watcher.Alert) {
	timestamp := a.Time.Format("15:04:05")
	fmt.Fprintf(w, "[%s] %s %s\n", timestamp, alertStyle(a.Level).Render(alertIcon(a.Level)), a.Title)
	if a.Message != "" {
		fmt.Fprintf(w, "         %s\n", output.StyleMuted.Render(a.Message))
	}
}

// alertIcon returns the terminal indicator for an alert level.
func alertIcon(level string) string {
	switch level {
	case "critical":
		return "\xf0\x9f\x94\xb4" // red circle
	case "warning":
		return "\xe2\x9a\xa0\xef\xb8\x8f" // warning sign
	case "info":
		return "\xe2\x9c\x93" // check mark
	default:
		return " "
	}
}

func alertStyle(level string) lipgloss.Style {
	switch level {
	case "critical":
		return output.StyleError
	case "warning":
		return output.StyleWarning
	default:
		return output.StyleSuccess
	}
}

// checkMark returns a terminal check mark indicator.
func checkMark() string {
	return "\xe2\x9c\x93"
}
