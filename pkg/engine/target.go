package engine

// MatcherKind identifies the matching strategy of a Matcher.
type MatcherKind uint8

const (
	// MatchAny matches every value, including the empty string.
	MatchAny MatcherKind = iota

	// MatchExact matches exactly one value, byte-for-byte.
	MatchExact

	// MatchOneOf matches any member of a bounded set.
	MatchOneOf
)

// Matcher is a fast-path matcher over one of the request's fixed fields.
// The zero Matcher matches anything.
//
// Set membership is deterministic and order-independent: the result of a
// OneOf match does not depend on the order members were listed.
type Matcher struct {
	kind  MatcherKind
	value string
	set   []string
}

// Any returns a matcher that matches every value.
func Any() Matcher {
	return Matcher{kind: MatchAny}
}

// Exact returns a matcher that matches only the given value.
func Exact(value string) Matcher {
	return Matcher{kind: MatchExact, value: value}
}

// OneOf returns a matcher that matches any of the given values. The member
// set is copied, so later mutation of the argument slice has no effect. Set
// size is bounded by Limits.MaxMatcherSet, checked at policy build time.
func OneOf(values ...string) Matcher {
	set := make([]string, len(values))
	copy(set, values)
	return Matcher{kind: MatchOneOf, set: set}
}

// Kind returns the matching strategy.
func (m Matcher) Kind() MatcherKind {
	return m.kind
}

// Matches reports whether the matcher accepts the given field value.
func (m Matcher) Matches(s string) bool {
	switch m.kind {
	case MatchAny:
		return true
	case MatchExact:
		return m.value == s
	case MatchOneOf:
		for _, member := range m.set {
			if member == s {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// members returns the matcher's string payloads for bound checking.
func (m Matcher) members() []string {
	switch m.kind {
	case MatchExact:
		return []string{m.value}
	case MatchOneOf:
		return m.set
	default:
		return nil
	}
}

// Target is the fast-path matcher applied to a request's identity triple
// before any condition tree is consulted. All three fields must match for
// the target to match; the zero Target matches every request.
type Target struct {
	Principal Matcher
	Action    Matcher
	Resource  Matcher
}

// AnyTarget returns a target that matches every request.
func AnyTarget() Target {
	return Target{Principal: Any(), Action: Any(), Resource: Any()}
}

// Matches reports whether all three field matchers accept the request.
func (t Target) Matches(r *Request) bool {
	return t.Principal.Matches(r.Principal) &&
		t.Action.Matches(r.Action) &&
		t.Resource.Matches(r.Resource)
}
