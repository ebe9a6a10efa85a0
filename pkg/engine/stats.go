package engine

// EvaluationStats reports how much work one evaluation call performed.
// Both counters are bounded by construction: RulesChecked by the policy's
// rule count and ConditionEvals by rule count times the per-rule node count.
type EvaluationStats struct {
	// RulesChecked is the number of rules whose target was examined before
	// the scan completed or short-circuited.
	RulesChecked int

	// ConditionEvals is the number of condition nodes evaluated across all
	// rules.
	ConditionEvals int
}
