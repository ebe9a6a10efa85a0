package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/saturn/pkg/bridge"
	"mercator-hq/saturn/pkg/engine"
)

var shadowFlags struct {
	policyPath  string
	requestPath string
}

var shadowCmd = &cobra.Command{
	Use:   "shadow",
	Short: "Shadow-compare the reference evaluator and the engine",
	Long: `Run the legacy reference evaluator and the translated engine policy on the
same request and compare the decisions. The request is a JSON document with
the legacy identity and context fields. Exits non-zero on divergence.`,
	RunE: runShadow,
}

func init() {
	shadowCmd.Flags().StringVarP(&shadowFlags.policyPath, "policy", "p", "", "policy file path (required)")
	shadowCmd.Flags().StringVarP(&shadowFlags.requestPath, "request", "r", "", "request JSON file path (required)")
	_ = shadowCmd.MarkFlagRequired("policy")
	_ = shadowCmd.MarkFlagRequired("request")

	rootCmd.AddCommand(shadowCmd)
}

func runShadow(cmd *cobra.Command, args []string) error {
	pf, err := bridge.LoadPolicyFile(shadowFlags.policyPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(shadowFlags.requestPath)
	if err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	var req bridge.EvalRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("parse request: %w", err)
	}

	result, err := bridge.ShadowEvaluate(pf, &req, engine.DefaultLimits())
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if !result.Match {
		return fmt.Errorf("decision mismatch between reference evaluator and engine")
	}
	return nil
}
