package bridge

import (
	"fmt"
	"math"

	"mercator-hq/saturn/pkg/engine"
)

// DefaultGrantReason is the reason code assigned to the translated default
// grant rule. It sits just below the engine's reserved NoMatchingRule value,
// which translated policies never use; ordinary policies get their index as
// their reason code.
const DefaultGrantReason = engine.ReasonCode(math.MaxUint32 - 1)

// Fixed identity triple for translated evaluations. The legacy format has no
// principal/action/resource axes; all discrimination happens through the
// flattened context.
const (
	bridgeAction   = "ssh_login"
	bridgeResource = "default"
	anonPrincipal  = "legacy_user"
)

// TranslationError reports why a policy file could not be expressed within
// the engine's bounds.
type TranslationError struct {
	Message string
	Cause   error
}

// Error returns the error message.
func (e *TranslationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("translate: %s: %v", e.Message, e.Cause)
	}
	return "translate: " + e.Message
}

// Unwrap returns the underlying cause.
func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// Translate compiles a legacy policy file into an engine Policy. One Allow
// rule per legacy policy, gated on the flattened boolean attribute
// FlattenRequest computes for it, with the policy's index as the reason
// code; a final unconditional Allow carries the default grant. The legacy
// model has no denies, so the engine's fail-closed default is unreachable
// for translated policies.
//
// The caller owns the returned Policy and must Close it.
func Translate(pf *PolicyFile, limits engine.Limits) (*engine.Policy, error) {
	// Every legacy policy consumes one flattened context attribute, and the
	// translated reason codes must stay clear of the reserved range.
	if len(pf.Policies) > limits.MaxContextAttrs {
		return nil, &TranslationError{
			Message: fmt.Sprintf("%d policies exceed the %d flattened context attributes available",
				len(pf.Policies), limits.MaxContextAttrs),
		}
	}
	if engine.ReasonCode(len(pf.Policies)) >= DefaultGrantReason {
		return nil, &TranslationError{Message: "too many policies for the reason code space"}
	}

	builder := engine.NewBuilder().WithLimits(limits)
	for i := range pf.Policies {
		builder.Rule(engine.NewRule(
			engine.EffectAllow,
			engine.AnyTarget(),
			engine.Equals(matchAttr(i), engine.BoolValue(true)),
			engine.ReasonCode(i),
		))
	}
	builder.Rule(engine.Allow(engine.AnyTarget(), DefaultGrantReason))

	policy, err := builder.Build()
	if err != nil {
		return nil, &TranslationError{Message: "policy exceeds engine bounds", Cause: err}
	}
	return policy, nil
}

// FlattenRequest lowers a legacy request into an engine request: the fixed
// identity triple plus one boolean attribute per legacy policy recording
// whether that policy's match block accepts the request. All rich matching
// (group sets, CIDR-style lists, hour windows, WebAuthn IDs) is resolved
// here so the engine only ever sees primitives.
func FlattenRequest(pf *PolicyFile, req *EvalRequest) *engine.Request {
	principal := req.LocalUsername
	if principal == "" {
		principal = anonPrincipal
	}

	out := engine.NewRequest(principal, bridgeAction, bridgeResource)
	for i := range pf.Policies {
		out.WithBool(matchAttr(i), matchPolicy(&pf.Policies[i], req))
	}
	return out
}

// matchAttr names the flattened attribute for the policy at index.
func matchAttr(index int) string {
	return fmt.Sprintf("policy_%d_matched", index)
}
