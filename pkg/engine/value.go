package engine

import "strconv"

// ValueKind identifies the primitive type held by a Value.
type ValueKind uint8

const (
	// ValueInvalid is the kind of the zero Value. It matches nothing.
	ValueInvalid ValueKind = iota

	// ValueString holds a bounded-length string.
	ValueString

	// ValueInt holds a 64-bit signed integer.
	ValueInt

	// ValueBool holds a boolean.
	ValueBool
)

// String returns the kind name for diagnostics.
func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueInt:
		return "int"
	case ValueBool:
		return "bool"
	default:
		return "invalid"
	}
}

// Value is a primitive context value: a string, an integer, or a boolean.
// The engine matches only primitive equality and ordering over these kinds;
// richer domain state (CIDR ranges, regex, MFA state) must be flattened into
// primitives by the caller before evaluation.
//
// Value is a small immutable struct and is copied freely; comparisons never
// allocate.
type Value struct {
	kind ValueKind
	str  string
	num  int64
	b    bool
}

// StringValue returns a string Value.
func StringValue(s string) Value {
	return Value{kind: ValueString, str: s}
}

// IntValue returns an integer Value.
func IntValue(i int64) Value {
	return Value{kind: ValueInt, num: i}
}

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value {
	return Value{kind: ValueBool, b: b}
}

// Kind returns the primitive kind of the value.
func (v Value) Kind() ValueKind {
	return v.kind
}

// Str returns the string payload. Valid only when Kind is ValueString.
func (v Value) Str() string {
	return v.str
}

// Int returns the integer payload. Valid only when Kind is ValueInt.
func (v Value) Int() int64 {
	return v.num
}

// Bool returns the boolean payload. Valid only when Kind is ValueBool.
func (v Value) Bool() bool {
	return v.b
}

// Equal reports exact equality. Values of different kinds are never equal;
// there is no coercion and string comparison is byte-wise, not
// case-insensitive.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case ValueString:
		return v.str == o.str
	case ValueInt:
		return v.num == o.num
	case ValueBool:
		return v.b == o.b
	default:
		return false
	}
}

// compare returns the ordering of v relative to o (-1, 0, +1) and whether the
// two values are orderable at all. Integers use ordinary total ordering,
// strings use byte-wise lexicographic ordering; booleans and mismatched kinds
// are not orderable.
func (v Value) compare(o Value) (int, bool) {
	if v.kind != o.kind {
		return 0, false
	}
	switch v.kind {
	case ValueInt:
		switch {
		case v.num < o.num:
			return -1, true
		case v.num > o.num:
			return 1, true
		default:
			return 0, true
		}
	case ValueString:
		switch {
		case v.str < o.str:
			return -1, true
		case v.str > o.str:
			return 1, true
		default:
			return 0, true
		}
	default:
		return 0, false
	}
}

// stringLen returns the length of the string payload, or 0 for non-string
// values. Used by bound checks.
func (v Value) stringLen() int {
	if v.kind == ValueString {
		return len(v.str)
	}
	return 0
}

// String returns a human-readable rendering for diagnostics.
func (v Value) String() string {
	switch v.kind {
	case ValueString:
		return strconv.Quote(v.str)
	case ValueInt:
		return strconv.FormatInt(v.num, 10)
	case ValueBool:
		return strconv.FormatBool(v.b)
	default:
		return "<invalid>"
	}
}
