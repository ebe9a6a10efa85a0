package engine

import "fmt"

// ConstructionErrorKind enumerates the closed set of policy build failures.
type ConstructionErrorKind string

const (
	// RuleCountExceeded: more rules than Limits.MaxRules.
	RuleCountExceeded ConstructionErrorKind = "rule_count_exceeded"

	// ConditionDepthExceeded: a condition tree deeper than
	// Limits.MaxConditionDepth.
	ConditionDepthExceeded ConstructionErrorKind = "condition_depth_exceeded"

	// MatcherSetTooLarge: a OneOf matcher with more members than
	// Limits.MaxMatcherSet.
	MatcherSetTooLarge ConstructionErrorKind = "matcher_set_too_large"

	// StringTooLong: an identifier or literal longer than
	// Limits.MaxStringLen.
	StringTooLong ConstructionErrorKind = "string_too_long"

	// InvalidLimits: the Limits themselves are malformed (non-positive
	// bound). This is a caller configuration defect, reported before any
	// rule is examined.
	InvalidLimits ConstructionErrorKind = "invalid_limits"
)

// ConstructionError reports the first structural bound violated while
// building a policy. It carries the bound and the observed value so callers
// can produce precise diagnostics; no partially usable Policy exists when it
// is returned.
type ConstructionError struct {
	// Kind names the violated bound.
	Kind ConstructionErrorKind

	// RuleIndex is the zero-based index of the offending rule, or -1 when
	// the failure is not attributable to a single rule.
	RuleIndex int

	// Limit is the configured bound.
	Limit int

	// Observed is the value that exceeded the bound.
	Observed int

	// Detail optionally narrows the location (e.g. which matcher field or
	// attribute name was too long).
	Detail string
}

// Error returns the error message.
func (e *ConstructionError) Error() string {
	msg := fmt.Sprintf("policy construction: %s (limit: %d, observed: %d)", e.Kind, e.Limit, e.Observed)
	if e.RuleIndex >= 0 {
		msg = fmt.Sprintf("%s at rule %d", msg, e.RuleIndex)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	return msg
}

// EvaluationErrorKind enumerates the closed set of evaluation failures.
type EvaluationErrorKind string

const (
	// ContextTooLarge: the request carries more context attributes than
	// Limits.MaxContextAttrs.
	ContextTooLarge EvaluationErrorKind = "context_too_large"

	// ValueTooLong: a request field, attribute name, or attribute value is
	// longer than Limits.MaxStringLen.
	ValueTooLong EvaluationErrorKind = "value_too_long"

	// InternalBoundViolation: an evaluation-time invariant was breached.
	// This never occurs on input accepted by Build and exists only as a
	// defensive, non-panicking fallback.
	InternalBoundViolation EvaluationErrorKind = "internal_bound_violation"
)

// EvaluationError reports a dynamic bound violation detected while
// evaluating a request. Evaluation aborts without a partial decision; by
// convention callers should treat any EvaluationError as Deny.
type EvaluationError struct {
	// Kind names the violated bound.
	Kind EvaluationErrorKind

	// Limit is the configured bound (0 for internal violations).
	Limit int

	// Observed is the value that exceeded the bound (0 for internal
	// violations).
	Observed int

	// Detail optionally narrows the location.
	Detail string
}

// Error returns the error message.
func (e *EvaluationError) Error() string {
	msg := fmt.Sprintf("policy evaluation: %s", e.Kind)
	if e.Limit > 0 || e.Observed > 0 {
		msg = fmt.Sprintf("%s (limit: %d, observed: %d)", msg, e.Limit, e.Observed)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	return msg
}
