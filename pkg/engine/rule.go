package engine

import "math"

// Effect is the outcome a rule contributes when it matches.
type Effect uint8

const (
	// EffectDeny denies the request. Any matching Deny rule overrides every
	// Allow match.
	EffectDeny Effect = iota

	// EffectAllow allows the request unless a Deny rule also matches.
	EffectAllow
)

// String returns the effect name.
func (e Effect) String() string {
	if e == EffectAllow {
		return "allow"
	}
	return "deny"
}

// ReasonCode is an opaque identifier correlating a decision to the deciding
// rule. The engine treats it as inert data; callers map codes to their policy
// documentation for audit purposes.
type ReasonCode uint32

// NoMatchingRule is the reserved reason returned when no rule matches a
// request and the fail-closed default applies. Policies must not assign it
// to their own rules.
const NoMatchingRule ReasonCode = math.MaxUint32

// Rule pairs a Target (fast-path match on the identity triple), an optional
// Condition tree over the context, an Effect, and the ReasonCode reported
// when this rule decides the request. Rule order within a policy is
// semantically significant: it breaks ties within an effect class.
type Rule struct {
	Target    Target
	Condition *Condition
	Effect    Effect
	Reason    ReasonCode
}

// Allow returns an unconditional Allow rule for the given target.
func Allow(target Target, reason ReasonCode) Rule {
	return Rule{Target: target, Effect: EffectAllow, Reason: reason}
}

// Deny returns an unconditional Deny rule for the given target.
func Deny(target Target, reason ReasonCode) Rule {
	return Rule{Target: target, Effect: EffectDeny, Reason: reason}
}

// NewRule returns a rule with an explicit effect and condition tree. The
// condition may be nil, in which case the target alone decides the match.
func NewRule(effect Effect, target Target, condition *Condition, reason ReasonCode) Rule {
	return Rule{Target: target, Condition: condition, Effect: effect, Reason: reason}
}

// Decision is the result of evaluating a policy against a request: an effect
// plus the reason code of the deciding rule (or NoMatchingRule under the
// fail-closed default).
type Decision struct {
	Effect Effect
	Reason ReasonCode
}

// IsAllow reports whether the decision allows the request.
func (d Decision) IsAllow() bool {
	return d.Effect == EffectAllow
}

// IsDeny reports whether the decision denies the request.
func (d Decision) IsDeny() bool {
	return d.Effect == EffectDeny
}
