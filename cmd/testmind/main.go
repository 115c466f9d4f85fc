// Package main implements the testmind CLI.
//
// This file is the entry point and command registration hub. Each
// subcommand's implementation lives in its own cmd_*.go file.
//
// # File Index
//
//   - main.go           - entry point, rootCmd, global flags, init()
//   - cmd_init.go       - init command: workspace config + index bootstrap
//   - cmd_generate.go   - generate command: plan -> prompt -> LLM -> test file
//   - cmd_validate.go   - validate command: sandboxed execution + auto-correct
//   - cmd_heal.go       - heal command: failure classification + locator repair
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"testmind/internal/logging"
)

var (
	verbose    bool
	workspace  string
	configPath string
	timeout    time.Duration

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "testmind",
	Short: "testmind - AI-assisted test generation and self-healing",
	Long: `testmind analyzes a codebase, retrieves relevant context, and drives an
LLM to produce test suites grounded in the target function's own signature,
dependencies, and side effects. It validates what it generates, can replay
and auto-correct against real test runs, and can self-heal UI tests whose
selectors have gone stale.

Logic determines what gets generated; the model only fills in the prose.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		ws := workspace
		if ws == "" {
			ws, _ = os.Getwd()
		}
		logging.Configure(ws+"/.testmind/logs", logging.LevelInfo)

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "testmind.yaml", "Path to project config file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout")

	rootCmd.AddCommand(
		initCmd,
		generateCmd,
		validateCmd,
		healCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
