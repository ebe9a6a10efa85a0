package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/saturn/pkg/bridge"
	"mercator-hq/saturn/pkg/engine"
)

var fuzzFlags struct {
	iterations  int
	seed        int64
	artifactDir string
}

var fuzzCmd = &cobra.Command{
	Use:   "fuzz",
	Short: "Hunt for divergences with the differential fuzzer",
	Long: `Generate random policy files and requests, shadow-evaluate each pair, and
save YAML/JSON artifacts for any decision mismatch. A fixed seed makes runs
reproducible. Exits non-zero when mismatches were found.`,
	RunE: runFuzz,
}

func init() {
	fuzzCmd.Flags().IntVarP(&fuzzFlags.iterations, "iterations", "n", 10000, "number of iterations")
	fuzzCmd.Flags().Int64Var(&fuzzFlags.seed, "seed", 0, "random seed (0 picks one)")
	fuzzCmd.Flags().StringVar(&fuzzFlags.artifactDir, "artifacts", "fuzz_failures", "mismatch artifact directory")

	rootCmd.AddCommand(fuzzCmd)
}

func runFuzz(cmd *cobra.Command, args []string) error {
	config := bridge.FuzzConfig{
		Iterations:  fuzzFlags.iterations,
		Seed:        fuzzFlags.seed,
		ArtifactDir: fuzzFlags.artifactDir,
		Limits:      engine.DefaultLimits(),
	}

	report, err := bridge.NewFuzzer(config, logger).Run()
	if err != nil {
		return err
	}

	fmt.Printf("iterations: %d\n", report.Iterations)
	fmt.Printf("mismatches: %d\n", report.Mismatches)
	fmt.Printf("errors:     %d\n", report.Errors)

	if report.Mismatches > 0 {
		return fmt.Errorf("%d decision mismatches found, artifacts in %s",
			report.Mismatches, fuzzFlags.artifactDir)
	}
	return nil
}
