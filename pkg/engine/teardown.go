package engine

import "mercator-hq/saturn/pkg/engine/stack"

// Close dismantles the policy's condition trees and releases its rules.
// It exists because dropping a recursively-shaped structure through
// depth-proportional recursion could exhaust the native call stack on an
// adversarially deep-but-valid tree; Close instead walks every tree
// iteratively with a work stack sized at build time to the policy's total
// node count, detaching children before releasing each parent shell.
//
// Close is idempotent. It must not race with in-flight Evaluate calls; a
// closed policy rejects further evaluation with InternalBoundViolation.
func (p *Policy) Close() error {
	var closeErr error
	p.closeOnce.Do(func() {
		work := stack.New[*Condition](p.nodeCount)

		for i := range p.rules {
			root := p.rules[i].Condition
			p.rules[i].Condition = nil
			if root == nil {
				continue
			}
			if err := releaseTree(root, work); err != nil {
				closeErr = err
				return
			}
		}

		p.rules = nil
		p.closed = true
	})
	return closeErr
}

// ReleaseCondition dismantles a condition tree that never made it into a
// policy (for example, rules rejected at build time). Unlike Policy.Close it
// has no build-time node count to size a bounded stack with, so it uses an
// unbounded worklist; construction-time rejects are not on the adversarial
// hot path.
func ReleaseCondition(root *Condition) {
	if root == nil {
		return
	}
	work := []*Condition{root}
	for len(work) > 0 {
		node := work[len(work)-1]
		work = work[:len(work)-1]

		work = append(work, node.children...)
		node.children = nil
	}
}

// releaseTree detaches and releases every node of one tree using the shared
// bounded work stack. The stack is sized to the policy's total node count,
// so overflow here means a build-time invariant was breached.
func releaseTree(root *Condition, work *stack.Stack[*Condition]) error {
	work.Reset()
	if err := work.Push(root); err != nil {
		return &EvaluationError{
			Kind:   InternalBoundViolation,
			Detail: "teardown work stack overflow",
		}
	}

	for {
		node, ok := work.Pop()
		if !ok {
			return nil
		}

		// Detach children before dropping the parent shell so no release
		// step ever follows a chain deeper than one hop.
		for _, child := range node.children {
			if err := work.Push(child); err != nil {
				return &EvaluationError{
					Kind:   InternalBoundViolation,
					Detail: "teardown work stack overflow",
				}
			}
		}
		node.children = nil
	}
}
