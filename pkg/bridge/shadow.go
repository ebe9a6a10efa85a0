package bridge

import (
	"fmt"

	"mercator-hq/saturn/pkg/engine"
)

// ShadowResult is the outcome of one dual evaluation.
type ShadowResult struct {
	Reference ReferenceDecision `json:"reference_decision"`
	Engine    EngineDecision    `json:"engine_decision"`

	// Match is true when the engine's decision corresponds bit for bit to
	// the reference outcome: both allow, and the reason code identifies the
	// same policy (or the default grant).
	Match bool `json:"match"`

	Stats ShadowStats `json:"stats"`
}

// ReferenceDecision summarizes the oracle's outcome.
type ReferenceDecision struct {
	Effect      string `json:"effect"`
	PolicyName  string `json:"policy_name,omitempty"`
	PolicyIndex int    `json:"policy_index"`
}

// EngineDecision summarizes the engine's outcome.
type EngineDecision struct {
	Effect     string `json:"effect"`
	ReasonCode uint32 `json:"reason_code"`
}

// ShadowStats carries the engine's work counters for the run.
type ShadowStats struct {
	RulesChecked   int `json:"rules_checked"`
	ConditionEvals int `json:"condition_evals"`
}

// ShadowEvaluate runs the reference evaluator and the engine on the same
// policy file and request, then compares the decisions. The legacy grant
// model always allows (with differing principals), so agreement means the
// engine picked the same policy index the oracle did, or the default grant
// when the oracle fell through.
func ShadowEvaluate(pf *PolicyFile, req *EvalRequest, limits engine.Limits) (*ShadowResult, error) {
	refResult := ReferenceEvaluate(pf, req)

	policy, err := Translate(pf, limits)
	if err != nil {
		return nil, fmt.Errorf("shadow translation: %w", err)
	}
	defer policy.Close()

	decision, stats, err := policy.EvaluateWithStats(FlattenRequest(pf, req))
	if err != nil {
		return nil, fmt.Errorf("shadow evaluation: %w", err)
	}

	expected := DefaultGrantReason
	if refResult.Matched {
		expected = engine.ReasonCode(refResult.PolicyIndex)
	}
	match := decision.IsAllow() && decision.Reason == expected

	return &ShadowResult{
		Reference: ReferenceDecision{
			Effect:      "allow",
			PolicyName:  refResult.PolicyName,
			PolicyIndex: refResult.PolicyIndex,
		},
		Engine: EngineDecision{
			Effect:     decision.Effect.String(),
			ReasonCode: uint32(decision.Reason),
		},
		Match: match,
		Stats: ShadowStats{
			RulesChecked:   stats.RulesChecked,
			ConditionEvals: stats.ConditionEvals,
		},
	}, nil
}
