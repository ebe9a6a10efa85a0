package engine

// ConditionKind identifies the node type of a Condition.
type ConditionKind uint8

const (
	// CondCompare compares a context attribute against a literal.
	CondCompare ConditionKind = iota

	// CondAnd is true when every child is true. With no children it is true.
	CondAnd

	// CondOr is true when at least one child is true. With no children it is
	// false.
	CondOr

	// CondNot negates its single child.
	CondNot

	// CondPresent is true when the named attribute exists in the context,
	// regardless of its value.
	CondPresent
)

// CompareOp is a comparison operator for CondCompare nodes.
type CompareOp uint8

const (
	// OpEqual is exact equality; mismatched kinds are never equal.
	OpEqual CompareOp = iota

	// OpNotEqual is the negation of OpEqual.
	OpNotEqual

	// OpLessThan orders integers numerically and strings byte-wise.
	OpLessThan

	// OpLessEqual orders integers numerically and strings byte-wise.
	OpLessEqual

	// OpGreaterThan orders integers numerically and strings byte-wise.
	OpGreaterThan

	// OpGreaterEqual orders integers numerically and strings byte-wise.
	OpGreaterEqual
)

// String returns the operator's conventional symbol.
func (op CompareOp) String() string {
	switch op {
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpLessThan:
		return "<"
	case OpLessEqual:
		return "<="
	case OpGreaterThan:
		return ">"
	case OpGreaterEqual:
		return ">="
	default:
		return "?"
	}
}

// Condition is one node of a boolean-logic tree evaluated against a request's
// flattened context. Trees are built with the package constructors (Equals,
// And, Or, Not, Present, ...), are depth-bounded at policy build time, and
// are owned exclusively by the Policy that contains them.
//
// Conditions are evaluated and released iteratively with an explicit stack;
// no engine operation recurses over the tree.
type Condition struct {
	kind     ConditionKind
	attr     string
	op       CompareOp
	value    Value
	children []*Condition
}

// Compare returns a comparison node: attribute op literal.
func Compare(attr string, op CompareOp, value Value) *Condition {
	return &Condition{kind: CondCompare, attr: attr, op: op, value: value}
}

// Equals returns an attribute == literal comparison.
func Equals(attr string, value Value) *Condition {
	return Compare(attr, OpEqual, value)
}

// NotEquals returns an attribute != literal comparison.
func NotEquals(attr string, value Value) *Condition {
	return Compare(attr, OpNotEqual, value)
}

// LessThan returns an attribute < literal comparison.
func LessThan(attr string, value Value) *Condition {
	return Compare(attr, OpLessThan, value)
}

// GreaterThan returns an attribute > literal comparison.
func GreaterThan(attr string, value Value) *Condition {
	return Compare(attr, OpGreaterThan, value)
}

// Present returns a node that is true when the named attribute exists.
func Present(attr string) *Condition {
	return &Condition{kind: CondPresent, attr: attr}
}

// And returns a conjunction over the given children. Nil children are
// dropped; an empty conjunction is true.
func And(children ...*Condition) *Condition {
	return &Condition{kind: CondAnd, children: compactChildren(children)}
}

// Or returns a disjunction over the given children. Nil children are
// dropped; an empty disjunction is false.
func Or(children ...*Condition) *Condition {
	return &Condition{kind: CondOr, children: compactChildren(children)}
}

// Not returns the negation of the given child. A nil child is treated as an
// empty conjunction, so Not(nil) is false.
func Not(child *Condition) *Condition {
	if child == nil {
		child = And()
	}
	return &Condition{kind: CondNot, children: []*Condition{child}}
}

// Kind returns the node type.
func (c *Condition) Kind() ConditionKind {
	return c.kind
}

func compactChildren(children []*Condition) []*Condition {
	out := make([]*Condition, 0, len(children))
	for _, child := range children {
		if child != nil {
			out = append(out, child)
		}
	}
	return out
}
