package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/saturn/pkg/telemetry/logging"
)

var (
	// Global flags
	logLevel  string
	logFormat string

	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "saturn",
	Short: "Saturn - bounded, deterministic policy decision engine",
	Long: `Saturn evaluates access requests against ordered Allow/Deny policies under
strict structural bounds: every policy build and every evaluation is
deny-overriding, fail-closed, and free of unbounded recursion or allocation.

The CLI works with legacy YAML policy files through the translation bridge:
  - evaluate a single request and print the decision
  - validate a policy file against the engine bounds
  - shadow-compare the legacy reference evaluator against the engine
  - fuzz for semantic divergences between the two`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(logging.Config{
			Level:  logLevel,
			Format: logFormat,
			Writer: os.Stderr,
		})
		if err != nil {
			return err
		}
		logger = l
		slog.SetDefault(l)
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
}
