package engine

import "testing"

// TestMatcher covers the three matching strategies, including empty-string
// handling.
func TestMatcher(t *testing.T) {
	tests := []struct {
		name    string
		matcher Matcher
		value   string
		want    bool
	}{
		{"any matches anything", Any(), "whatever", true},
		{"any matches empty string", Any(), "", true},
		{"zero matcher matches anything", Matcher{}, "x", true},
		{"exact hit", Exact("read"), "read", true},
		{"exact miss", Exact("read"), "write", false},
		{"exact is case sensitive", Exact("Read"), "read", false},
		{"exact empty matches only empty", Exact(""), "", true},
		{"exact empty rejects nonempty", Exact(""), "read", false},
		{"oneof hit", OneOf("read", "write"), "write", true},
		{"oneof miss", OneOf("read", "write"), "delete", false},
		{"oneof empty set rejects all", OneOf(), "read", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.matcher.Matches(tt.value); got != tt.want {
				t.Fatalf("Matches(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

// TestOneOf_CopiesMembers verifies that mutating the argument slice after
// construction does not change the matcher.
func TestOneOf_CopiesMembers(t *testing.T) {
	members := []string{"read", "write"}
	m := OneOf(members...)
	members[0] = "delete"

	if !m.Matches("read") {
		t.Fatal("matcher should still match the original member")
	}
	if m.Matches("delete") {
		t.Fatal("matcher should not see post-construction mutation")
	}
}

// TestTarget_AllFieldsMustMatch verifies the conjunction over the identity
// triple.
func TestTarget_AllFieldsMustMatch(t *testing.T) {
	target := Target{
		Principal: Exact("alice"),
		Action:    OneOf("read", "list"),
		Resource:  Any(),
	}

	tests := []struct {
		name string
		req  *Request
		want bool
	}{
		{"all match", NewRequest("alice", "read", "doc"), true},
		{"principal differs", NewRequest("bob", "read", "doc"), false},
		{"action outside set", NewRequest("alice", "delete", "doc"), false},
		{"resource always matches", NewRequest("alice", "list", "anything"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := target.Matches(tt.req); got != tt.want {
				t.Fatalf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestRequest_Context covers attribute set, replace, and lookup behavior.
func TestRequest_Context(t *testing.T) {
	req := NewRequest("alice", "read", "doc").
		WithString("role", "viewer").
		WithInt("level", 3).
		WithString("role", "admin")

	if req.ContextLen() != 2 {
		t.Fatalf("ContextLen() = %d after replacement, want 2", req.ContextLen())
	}

	role, ok := req.Attribute("role")
	if !ok || !role.Equal(StringValue("admin")) {
		t.Fatalf("Attribute(role) = %v, %v; want admin", role, ok)
	}

	if _, ok := req.Attribute("missing"); ok {
		t.Fatal("Attribute() should report absence")
	}

	attrs := req.Attributes()
	if len(attrs) != 2 || attrs[0].Name != "role" || attrs[1].Name != "level" {
		t.Fatalf("Attributes() = %v, want insertion order preserved", attrs)
	}
	attrs[0].Value = StringValue("tampered")
	if v, _ := req.Attribute("role"); !v.Equal(StringValue("admin")) {
		t.Fatal("Attributes() should return a copy")
	}
}
