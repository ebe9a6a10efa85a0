package engine

import "fmt"

// Limits are the structural bounds enforced by the engine. They are explicit
// build-time parameters, not process-wide constants, so multiple bound
// profiles can coexist in one process and tests can exercise small bounds
// cheaply.
//
// Rule-shaped bounds (MaxRules, MaxConditionDepth, MaxMatcherSet,
// MaxStringLen) are enforced once at policy construction. Request-shaped
// bounds (MaxContextAttrs, MaxStringLen) are re-checked on every Evaluate
// call, since the request is supplied afresh each time.
type Limits struct {
	// MaxRules bounds the number of rules in a policy.
	// Default: 1000.
	MaxRules int

	// MaxConditionDepth bounds the nesting depth of any condition tree,
	// counting nodes along the deepest path. Default: 10.
	MaxConditionDepth int

	// MaxContextAttrs bounds the number of context attributes on a request.
	// Default: 64.
	MaxContextAttrs int

	// MaxMatcherSet bounds the member count of a OneOf target matcher.
	// Default: 16.
	MaxMatcherSet int

	// MaxStringLen bounds the byte length of every identifier and string
	// value anywhere in rules and requests. Default: 256.
	MaxStringLen int
}

// DefaultLimits returns the documented default bounds.
func DefaultLimits() Limits {
	return Limits{
		MaxRules:          1000,
		MaxConditionDepth: 10,
		MaxContextAttrs:   64,
		MaxMatcherSet:     16,
		MaxStringLen:      256,
	}
}

// Validate checks that every bound is positive.
func (l Limits) Validate() error {
	check := func(name string, v int) error {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, v)
		}
		return nil
	}
	if err := check("MaxRules", l.MaxRules); err != nil {
		return err
	}
	if err := check("MaxConditionDepth", l.MaxConditionDepth); err != nil {
		return err
	}
	if err := check("MaxContextAttrs", l.MaxContextAttrs); err != nil {
		return err
	}
	if err := check("MaxMatcherSet", l.MaxMatcherSet); err != nil {
		return err
	}
	return check("MaxStringLen", l.MaxStringLen)
}
