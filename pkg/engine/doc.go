// Package engine provides a deterministic, resource-bounded policy decision
// engine: given an ordered set of access-control rules and a request, it
// produces a single Allow or Deny decision with a stable reason code.
//
// The engine is a pure function from (Policy, Request) to (Decision, error).
// It performs no I/O, no logging, and holds no ambient state. Every structural
// bound (rule count, condition depth, matcher set size, string length, context
// size) is explicit, checked, and surfaced as a typed error; there is no input
// that makes evaluation panic, recurse unboundedly, or fail to terminate.
//
// # Guarantees
//
//   - Termination: bounded rules x bounded condition depth x bounded context.
//   - Determinism: ordered evaluation, stable conflict resolution, no clocks,
//     no randomness, no map iteration on the hot path.
//   - Crash-freedom: all failure paths return typed errors from two closed
//     taxonomies (ConstructionError, EvaluationError).
//   - No native recursion: condition trees are evaluated and dismantled with
//     an explicit fixed-capacity stack (see the stack subpackage), so even an
//     adversarially deep-but-valid tree cannot exhaust the call stack.
//
// # Conflict resolution
//
// Deny overrides Allow. Rules are scanned in declared order; the first
// matching Deny rule short-circuits evaluation and wins regardless of any
// earlier Allow match. If no Deny matches, the first matching Allow wins.
// If nothing matches, the decision is Deny with the reserved NoMatchingRule
// reason (fail-closed).
//
// # Basic usage
//
//	const reasonBlocked = engine.ReasonCode(10)
//	const reasonPublicRead = engine.ReasonCode(1)
//
//	policy, err := engine.NewBuilder().
//	    Rule(engine.Deny(engine.Target{
//	        Principal: engine.Exact("blocked_user"),
//	        Action:    engine.Any(),
//	        Resource:  engine.Any(),
//	    }, reasonBlocked)).
//	    Rule(engine.Allow(engine.Target{
//	        Principal: engine.Any(),
//	        Action:    engine.Exact("read"),
//	        Resource:  engine.Any(),
//	    }, reasonPublicRead)).
//	    Build()
//	if err != nil {
//	    // a specific ConstructionError kind names the violated bound
//	}
//	defer policy.Close()
//
//	req := engine.NewRequest("alice", "read", "document.txt")
//	decision, err := policy.Evaluate(req)
//
// # Thread safety
//
// A built Policy is immutable and safe for any number of concurrent Evaluate
// calls; each call allocates its own work stack. Close must not race with
// in-flight evaluations.
package engine
