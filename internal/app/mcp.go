package app

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/platovue/internal/config"
	"github.com/blackwell-systems/platovue/internal/engine"
	"github.com/blackwell-systems/platovue/internal/mcp"
	"github.com/blackwell-systems/platovue/internal/output"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP stdio server exposing analysis and history tools",
	Long: `Start a Model Context Protocol stdio server that editors and agents
can query. The server exposes three tools:

  analyze_project  Maintainability, complexity and size for every .vue and .js file
  get_history      Recent recorded runs with average scores
  compare_runs     Per-file maintainability changes between two runs

Example MCP configuration:
  {"mcpServers":{"platovue":{"command":"platovue","args":["mcp"]}}}`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// stdout carries the protocol; diagnostics go to stderr only.
	logOut := io.Discard
	if flagVerbose {
		logOut = os.Stderr
	}
	log := output.NewLogger(logOut, flagVerbose)

	deps := mcp.Deps{
		Engine:  engine.NewNative(),
		Base:    pipelineConfig(cfg, nil),
		Version: appVersion,
	}
	rec, closeRec := openRecorder(cfg, log)
	defer closeRec()
	if rec != nil {
		deps.DB = rec.db
		deps.Recorder = rec
	}

	srv := mcp.NewServer(deps)
	return srv.Run(cmd.Context(), os.Stdin, os.Stdout)
}
