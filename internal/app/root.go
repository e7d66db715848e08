// Package app contains the Cobra command tree for platovue.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/platovue/internal/config"
	"github.com/blackwell-systems/platovue/internal/engine"
	"github.com/blackwell-systems/platovue/internal/output"
	"github.com/blackwell-systems/platovue/internal/pipeline"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "platovue [targetPath] [outputPath]",
	Short: "Maintainability analysis for Vue.js and JavaScript projects",
	Long: `platovue scans a project for .vue and .js files, extracts the script
section of every component, and reports a maintainability index, cyclomatic
complexity and size for each file, with an HTML report in the output directory.

targetPath defaults to the current directory; outputPath defaults to
./plato-report.`,
	Example: `  platovue
  platovue src
  platovue . plato-report`,
	Args:          cobra.MaximumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAnalyze,
}

// Execute is the entry point called from main. It returns the process exit
// code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		output.Errorf(os.Stderr, err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/platovue/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
}

// applyColor disables styling when asked to or when stdout is not a terminal.
func applyColor(cfg *config.Config) {
	fd := os.Stdout.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	if flagNoColor || !cfg.Output.Color || !tty {
		output.SetNoColor(true)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyColor(cfg)

	stdout := cmd.OutOrStdout()
	logOut := stdout
	if flagJSON {
		logOut = cmd.ErrOrStderr()
	}
	log := output.NewLogger(logOut, flagVerbose)

	runCfg := pipelineConfig(cfg, args)

	deps := pipeline.Deps{
		Engine: engine.NewNative(),
		Stdout: stdout,
		Logger: log,
		JSON:   flagJSON,
	}

	rec, closeRec := openRecorder(cfg, log)
	defer closeRec()
	if rec != nil {
		deps.Recorder = rec
	}

	_, err = pipeline.Run(cmd.Context(), runCfg, deps)
	return err
}

// pipelineConfig maps configuration and positional arguments onto a run.
func pipelineConfig(cfg *config.Config, args []string) pipeline.Config {
	rc := pipeline.Config{
		OutputPath:     cfg.OutputDir,
		ExcludeDirs:    cfg.ExcludeDirs,
		MaxDepth:       cfg.MaxDepth,
		ComponentExt:   cfg.ComponentExt,
		ScriptExt:      cfg.ScriptExt,
		StagingDirName: cfg.StagingDirName,
		Title:          cfg.ReportTitle,
	}
	if len(args) > 0 {
		rc.TargetPath = args[0]
	}
	if len(args) > 1 {
		rc.OutputPath = args[1]
	}
	return rc
}
