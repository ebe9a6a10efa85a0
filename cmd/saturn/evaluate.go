package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/saturn/pkg/bridge"
	"mercator-hq/saturn/pkg/manager"
)

var evaluateFlags struct {
	policyPath string

	username string
	email    string
	groups   []string

	sourceIP    string
	currentTime string
	webauthnID  string
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate one request against a policy file",
	Long: `Load a legacy policy file, translate it into a bounded engine policy, and
evaluate a single request built from the identity and context flags. Prints
the decision, the granting policy, and the evaluation counters.`,
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVarP(&evaluateFlags.policyPath, "policy", "p", "", "policy file path (required)")
	evaluateCmd.Flags().StringVar(&evaluateFlags.username, "username", "", "local username")
	evaluateCmd.Flags().StringVar(&evaluateFlags.email, "email", "", "email address")
	evaluateCmd.Flags().StringSliceVar(&evaluateFlags.groups, "group", nil, "OIDC group (repeatable)")
	evaluateCmd.Flags().StringVar(&evaluateFlags.sourceIP, "source-ip", "", "source IP address")
	evaluateCmd.Flags().StringVar(&evaluateFlags.currentTime, "time", "", "wall clock as HH:MM (default: now)")
	evaluateCmd.Flags().StringVar(&evaluateFlags.webauthnID, "webauthn-id", "", "verified WebAuthn credential ID")
	_ = evaluateCmd.MarkFlagRequired("policy")

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	config := manager.DefaultLoaderConfig()
	config.Path = evaluateFlags.policyPath

	loaded, err := manager.Load(config)
	if err != nil {
		return err
	}
	defer loaded.Close()

	clock := evaluateFlags.currentTime
	if clock == "" {
		clock = time.Now().Format("15:04")
	}

	req := &bridge.EvalRequest{
		OIDCGroups:    evaluateFlags.groups,
		Email:         evaluateFlags.email,
		LocalUsername: evaluateFlags.username,
		SourceIP:      evaluateFlags.sourceIP,
		CurrentTime:   clock,
		WebAuthnID:    evaluateFlags.webauthnID,
	}

	start := time.Now()
	decision, stats, err := loaded.Policy.EvaluateWithStats(bridge.FlattenRequest(loaded.File, req))
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	fmt.Printf("Decision:  %s\n", decision.Effect)
	switch {
	case decision.Reason == bridge.DefaultGrantReason:
		fmt.Printf("Policy:    (default grant)\n")
		fmt.Printf("Principals: %s\n", strings.Join(loaded.File.Default.Principals, ", "))
		fmt.Printf("Duration:  %s\n", loaded.File.Default.MaxDuration)
	case int(decision.Reason) < len(loaded.File.Policies):
		matched := &loaded.File.Policies[decision.Reason]
		fmt.Printf("Policy:    %s (index %d)\n", matched.Name, decision.Reason)
		fmt.Printf("Principals: %s\n", strings.Join(matched.Principals, ", "))
		fmt.Printf("Duration:  %s\n", matched.MaxDuration)
	default:
		fmt.Printf("Reason:    %d\n", uint32(decision.Reason))
	}
	fmt.Printf("Checked:   %d rules, %d condition evals in %s\n",
		stats.RulesChecked, stats.ConditionEvals, elapsed)
	return nil
}
