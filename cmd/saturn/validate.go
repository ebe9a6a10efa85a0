package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/saturn/pkg/bridge"
	"mercator-hq/saturn/pkg/engine"
)

var validateFlags struct {
	policyPath string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a policy file against the engine bounds",
	Long: `Parse the legacy policy file, translate it, and build the engine policy.
Construction errors are reported with the violated bound and the observed
value. Exits non-zero when the file is invalid.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateFlags.policyPath, "policy", "p", "", "policy file path (required)")
	_ = validateCmd.MarkFlagRequired("policy")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	pf, err := bridge.LoadPolicyFile(validateFlags.policyPath)
	if err != nil {
		return fmt.Errorf("invalid policy file: %w", err)
	}

	limits := engine.DefaultLimits()
	policy, err := bridge.Translate(pf, limits)
	if err != nil {
		var consErr *engine.ConstructionError
		if errors.As(err, &consErr) {
			return fmt.Errorf("policy violates engine bounds: %s", consErr.Error())
		}
		return fmt.Errorf("translation failed: %w", err)
	}
	defer policy.Close()

	fmt.Printf("%s: valid\n", validateFlags.policyPath)
	fmt.Printf("  legacy policies: %d\n", len(pf.Policies))
	fmt.Printf("  engine rules:    %d\n", policy.Len())
	fmt.Printf("  bounds:          rules<=%d depth<=%d attrs<=%d set<=%d strlen<=%d\n",
		limits.MaxRules, limits.MaxConditionDepth, limits.MaxContextAttrs,
		limits.MaxMatcherSet, limits.MaxStringLen)
	return nil
}
