// Package stack provides fixed-capacity stack containers used by the policy
// engine to replace native recursion with explicit, bounded iteration.
//
// A stack is sized once at construction and never reallocates. Pushing past
// capacity fails with a typed error instead of growing or overwriting, which
// is what makes condition evaluation and tree teardown resource-bounded: the
// deepest structure the engine will ever walk is known when the policy is
// built, so the stack that walks it can be allocated exactly once.
//
// Two strategies are provided with identical caller-visible behavior:
//
//   - Stack: lazy initialization. Only the occupied prefix of the backing
//     array is ever written or read; construction is O(1).
//   - EagerStack: eager initialization. The full backing array is
//     zero-initialized up front; construction is O(capacity). Useful when the
//     element type has a meaningful zero value and predictable memory layout
//     matters more than construction cost.
//
// Neither strategy allocates during Push or Pop.
package stack
