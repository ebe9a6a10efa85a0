package engine

import "fmt"

// Builder assembles a Policy from an ordered rule sequence. Rules are
// validated in one static pass at Build time; the first bound violation
// aborts construction with a specific ConstructionError.
type Builder struct {
	rules  []Rule
	limits Limits
}

// NewBuilder returns a Builder with the default Limits.
func NewBuilder() *Builder {
	return &Builder{limits: DefaultLimits()}
}

// WithLimits replaces the bounds the built policy will enforce.
func (b *Builder) WithLimits(limits Limits) *Builder {
	b.limits = limits
	return b
}

// Rule appends a rule. Order is semantically significant: earlier rules win
// ties within their effect class.
func (b *Builder) Rule(r Rule) *Builder {
	b.rules = append(b.rules, r)
	return b
}

// Build validates the accumulated rules and returns an immutable Policy.
func (b *Builder) Build() (*Policy, error) {
	return Build(b.rules, b.limits)
}

// Build validates the rule sequence against the given limits and assembles
// an immutable Policy. Validation performs, in one pass: the rule-count
// check, per-rule condition-depth checks (computed iteratively, never by
// recursion), matcher-set size checks, and string-length checks for every
// identifier and literal in the rule set.
//
// On failure no partially usable Policy is returned. On success the rule
// slice is copied and the condition trees become owned by the Policy; the
// caller must not retain or mutate them.
func Build(rules []Rule, limits Limits) (*Policy, error) {
	if err := limits.Validate(); err != nil {
		return nil, &ConstructionError{
			Kind:      InvalidLimits,
			RuleIndex: -1,
			Detail:    err.Error(),
		}
	}

	if len(rules) > limits.MaxRules {
		return nil, &ConstructionError{
			Kind:      RuleCountExceeded,
			RuleIndex: -1,
			Limit:     limits.MaxRules,
			Observed:  len(rules),
		}
	}

	maxDepth := 0
	nodeCount := 0

	for i := range rules {
		if err := validateTarget(&rules[i].Target, i, limits); err != nil {
			return nil, err
		}

		depth, nodes, err := validateCondition(rules[i].Condition, i, limits)
		if err != nil {
			return nil, err
		}
		if depth > maxDepth {
			maxDepth = depth
		}
		nodeCount += nodes
	}

	owned := make([]Rule, len(rules))
	copy(owned, rules)

	return &Policy{
		rules:     owned,
		limits:    limits,
		maxDepth:  maxDepth,
		nodeCount: nodeCount,
	}, nil
}

// validateTarget checks matcher set sizes and member string lengths for one
// rule's target.
func validateTarget(t *Target, ruleIndex int, limits Limits) error {
	fields := []struct {
		name    string
		matcher *Matcher
	}{
		{"principal", &t.Principal},
		{"action", &t.Action},
		{"resource", &t.Resource},
	}

	for _, f := range fields {
		members := f.matcher.members()
		if f.matcher.Kind() == MatchOneOf && len(members) > limits.MaxMatcherSet {
			return &ConstructionError{
				Kind:      MatcherSetTooLarge,
				RuleIndex: ruleIndex,
				Limit:     limits.MaxMatcherSet,
				Observed:  len(members),
				Detail:    fmt.Sprintf("%s matcher", f.name),
			}
		}
		for _, member := range members {
			if len(member) > limits.MaxStringLen {
				return &ConstructionError{
					Kind:      StringTooLong,
					RuleIndex: ruleIndex,
					Limit:     limits.MaxStringLen,
					Observed:  len(member),
					Detail:    fmt.Sprintf("%s matcher member", f.name),
				}
			}
		}
	}
	return nil
}

// condDepth pairs a condition node with its depth for the iterative walk.
type condDepth struct {
	node  *Condition
	depth int
}

// validateCondition walks a condition tree iteratively (depth-first, explicit
// worklist) and returns its depth and node count. The first bound violation
// encountered aborts the walk.
func validateCondition(root *Condition, ruleIndex int, limits Limits) (int, int, error) {
	if root == nil {
		return 0, 0, nil
	}

	maxDepth := 0
	nodes := 0
	work := []condDepth{{node: root, depth: 1}}

	for len(work) > 0 {
		item := work[len(work)-1]
		work = work[:len(work)-1]

		if item.depth > limits.MaxConditionDepth {
			return 0, 0, &ConstructionError{
				Kind:      ConditionDepthExceeded,
				RuleIndex: ruleIndex,
				Limit:     limits.MaxConditionDepth,
				Observed:  item.depth,
			}
		}
		if item.depth > maxDepth {
			maxDepth = item.depth
		}
		nodes++

		c := item.node
		if len(c.attr) > limits.MaxStringLen {
			return 0, 0, &ConstructionError{
				Kind:      StringTooLong,
				RuleIndex: ruleIndex,
				Limit:     limits.MaxStringLen,
				Observed:  len(c.attr),
				Detail:    "attribute name",
			}
		}
		if n := c.value.stringLen(); n > limits.MaxStringLen {
			return 0, 0, &ConstructionError{
				Kind:      StringTooLong,
				RuleIndex: ruleIndex,
				Limit:     limits.MaxStringLen,
				Observed:  n,
				Detail:    "condition literal",
			}
		}

		for _, child := range c.children {
			work = append(work, condDepth{node: child, depth: item.depth + 1})
		}
	}

	return maxDepth, nodes, nil
}
