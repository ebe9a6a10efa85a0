package engine

import "mercator-hq/saturn/pkg/engine/stack"

// evalFrame is one suspended logical node on the evaluation work stack.
// next is the index of the next child to evaluate once the current subtree
// produces its result.
type evalFrame struct {
	node *Condition
	next int
}

// evalCondition evaluates a condition tree against the request's context
// without native recursion: an explicit work stack holds the suspended
// AND/OR/NOT ancestors while one leaf-to-root path is in flight. The stack
// was sized at build time to the policy's maximum depth, so a push can only
// fail if a build-time invariant was breached, which is reported as
// InternalBoundViolation rather than allowed to panic.
//
// AND and OR short-circuit in child order, which only affects the work
// counted in stats, never the boolean outcome.
func evalCondition(root *Condition, req *Request, work *stack.Stack[evalFrame], stats *EvaluationStats) (bool, error) {
	if root == nil {
		return true, nil
	}
	if work == nil {
		return false, &EvaluationError{
			Kind:   InternalBoundViolation,
			Detail: "condition present but no work stack sized for it",
		}
	}
	work.Reset()

	cur := root
	var result bool

descend:
	for {
		// Evaluate cur: leaves produce a result directly, logical nodes
		// suspend themselves and descend into their first child.
		stats.ConditionEvals++

		switch cur.kind {
		case CondCompare:
			result = evalCompare(cur, req)

		case CondPresent:
			_, result = req.Attribute(cur.attr)

		case CondAnd, CondOr:
			if len(cur.children) > 0 {
				if err := work.Push(evalFrame{node: cur, next: 1}); err != nil {
					return false, &EvaluationError{
						Kind:   InternalBoundViolation,
						Detail: "condition work stack overflow",
					}
				}
				cur = cur.children[0]
				continue descend
			}
			// Empty conjunction is vacuously true, empty disjunction false.
			result = cur.kind == CondAnd

		case CondNot:
			if err := work.Push(evalFrame{node: cur, next: 1}); err != nil {
				return false, &EvaluationError{
					Kind:   InternalBoundViolation,
					Detail: "condition work stack overflow",
				}
			}
			cur = cur.children[0]
			continue descend

		default:
			return false, &EvaluationError{
				Kind:   InternalBoundViolation,
				Detail: "unknown condition kind",
			}
		}

		// Unwind: feed the result to suspended ancestors until one of them
		// needs another child evaluated or the stack drains.
		for {
			frame, ok := work.Peek()
			if !ok {
				return result, nil
			}

			switch frame.node.kind {
			case CondNot:
				result = !result
				work.Pop()

			case CondAnd:
				if !result || frame.next >= len(frame.node.children) {
					// False short-circuits; true with no children left means
					// the conjunction held.
					work.Pop()
					continue
				}
				next := frame.node.children[frame.next]
				work.Pop()
				// Cannot overflow: re-pushing the frame just popped.
				_ = work.Push(evalFrame{node: frame.node, next: frame.next + 1})
				cur = next
				continue descend

			case CondOr:
				if result || frame.next >= len(frame.node.children) {
					work.Pop()
					continue
				}
				next := frame.node.children[frame.next]
				work.Pop()
				// Cannot overflow: re-pushing the frame just popped.
				_ = work.Push(evalFrame{node: frame.node, next: frame.next + 1})
				cur = next
				continue descend

			default:
				return false, &EvaluationError{
					Kind:   InternalBoundViolation,
					Detail: "non-logical node suspended on work stack",
				}
			}
		}
	}
}

// evalCompare evaluates a single attribute-vs-literal comparison. A missing
// attribute makes every comparison false, including !=; callers that need to
// distinguish absence use Present. Mismatched kinds are never equal and never
// orderable.
func evalCompare(c *Condition, req *Request) bool {
	actual, ok := req.Attribute(c.attr)
	if !ok {
		return false
	}

	switch c.op {
	case OpEqual:
		return actual.Equal(c.value)
	case OpNotEqual:
		return !actual.Equal(c.value)
	case OpLessThan:
		ord, orderable := actual.compare(c.value)
		return orderable && ord < 0
	case OpLessEqual:
		ord, orderable := actual.compare(c.value)
		return orderable && ord <= 0
	case OpGreaterThan:
		ord, orderable := actual.compare(c.value)
		return orderable && ord > 0
	case OpGreaterEqual:
		ord, orderable := actual.compare(c.value)
		return orderable && ord >= 0
	default:
		return false
	}
}
