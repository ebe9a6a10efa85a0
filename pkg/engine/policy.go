package engine

import (
	"fmt"
	"sync"

	"mercator-hq/saturn/pkg/engine/stack"
)

// Policy is an immutable, validated, ordered sequence of rules. It is
// constructed once via Build and is read-only for its lifetime, so it is
// safe to share across any number of concurrent Evaluate calls without
// locking: evaluation never mutates policy state and each call allocates
// its own work stack.
//
// A Policy owns its rules' condition trees exclusively. When the policy is
// no longer needed, Close dismantles the trees iteratively (see teardown.go)
// so that releasing a maximally deep tree cannot exhaust the native call
// stack.
type Policy struct {
	rules  []Rule
	limits Limits

	// maxDepth is the deepest condition tree across all rules, recorded at
	// build time so the evaluation work stack can be sized exactly.
	maxDepth int

	// nodeCount is the total condition node count, recorded at build time
	// so the teardown work stack can be sized exactly.
	nodeCount int

	closeOnce sync.Once
	closed    bool
}

// Len returns the number of rules in the policy.
func (p *Policy) Len() int {
	return len(p.rules)
}

// Limits returns the bounds this policy was built with and enforces on
// every request.
func (p *Policy) Limits() Limits {
	return p.limits
}

// Evaluate evaluates the request and returns a Decision or a typed
// EvaluationError. It is pure: no side effects, no I/O, no retained state.
//
// Resolution is deny-overrides with first-match-within-class tie-breaks:
// the scan short-circuits on the first matching Deny rule; otherwise the
// first matching Allow rule decides; otherwise the result is Deny with the
// reserved NoMatchingRule reason.
func (p *Policy) Evaluate(req *Request) (Decision, error) {
	decision, _, err := p.EvaluateWithStats(req)
	return decision, err
}

// EvaluateWithStats is Evaluate plus counters describing how much work the
// scan performed, for shadow harnesses and instrumentation.
func (p *Policy) EvaluateWithStats(req *Request) (Decision, EvaluationStats, error) {
	var stats EvaluationStats

	if p.closed {
		return Decision{}, stats, &EvaluationError{
			Kind:   InternalBoundViolation,
			Detail: "evaluate called on closed policy",
		}
	}
	if req == nil {
		return Decision{}, stats, &EvaluationError{
			Kind:   InternalBoundViolation,
			Detail: "nil request",
		}
	}

	if err := p.checkRequestBounds(req); err != nil {
		return Decision{}, stats, err
	}

	// One work stack per call, sized to the deepest tree this policy can
	// contain, reused across rules. Policies without conditions never touch
	// it.
	var work *stack.Stack[evalFrame]
	if p.maxDepth > 0 {
		work = stack.New[evalFrame](p.maxDepth)
	}

	haveAllow := false
	var allowReason ReasonCode

	for i := range p.rules {
		rule := &p.rules[i]
		stats.RulesChecked++

		if !rule.Target.Matches(req) {
			continue
		}

		matched := true
		if rule.Condition != nil {
			m, err := evalCondition(rule.Condition, req, work, &stats)
			if err != nil {
				return Decision{}, stats, err
			}
			matched = m
		}
		if !matched {
			continue
		}

		// Deny overrides: the first matching Deny wins immediately, even if
		// an Allow matched earlier in the scan.
		if rule.Effect == EffectDeny {
			return Decision{Effect: EffectDeny, Reason: rule.Reason}, stats, nil
		}
		if !haveAllow {
			haveAllow = true
			allowReason = rule.Reason
		}
	}

	if haveAllow {
		return Decision{Effect: EffectAllow, Reason: allowReason}, stats, nil
	}

	// Fail-closed default.
	return Decision{Effect: EffectDeny, Reason: NoMatchingRule}, stats, nil
}

// checkRequestBounds re-validates the dynamic request bounds. Rule-shaped
// bounds were fully enforced at build time and are not re-checked here.
func (p *Policy) checkRequestBounds(req *Request) error {
	fields := []struct {
		name  string
		value string
	}{
		{"principal", req.Principal},
		{"action", req.Action},
		{"resource", req.Resource},
	}
	for _, f := range fields {
		if len(f.value) > p.limits.MaxStringLen {
			return &EvaluationError{
				Kind:     ValueTooLong,
				Limit:    p.limits.MaxStringLen,
				Observed: len(f.value),
				Detail:   f.name,
			}
		}
	}

	if len(req.attrs) > p.limits.MaxContextAttrs {
		return &EvaluationError{
			Kind:     ContextTooLarge,
			Limit:    p.limits.MaxContextAttrs,
			Observed: len(req.attrs),
		}
	}

	for i := range req.attrs {
		attr := &req.attrs[i]
		if len(attr.Name) > p.limits.MaxStringLen {
			return &EvaluationError{
				Kind:     ValueTooLong,
				Limit:    p.limits.MaxStringLen,
				Observed: len(attr.Name),
				Detail:   "attribute name",
			}
		}
		if n := attr.Value.stringLen(); n > p.limits.MaxStringLen {
			return &EvaluationError{
				Kind:     ValueTooLong,
				Limit:    p.limits.MaxStringLen,
				Observed: n,
				Detail:   fmt.Sprintf("attribute %q", attr.Name),
			}
		}
	}

	return nil
}
