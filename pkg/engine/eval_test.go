package engine

import "testing"

// evalOne builds a one-rule allow policy around the condition and reports
// whether the request satisfies it.
func evalOne(t *testing.T, cond *Condition, req *Request) bool {
	t.Helper()
	policy, err := Build([]Rule{
		NewRule(EffectAllow, AnyTarget(), cond, ReasonCode(1)),
	}, DefaultLimits())
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	defer policy.Close()

	decision, err := policy.Evaluate(req)
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	return decision.IsAllow()
}

// TestEvalCondition_Comparisons exercises every comparison operator across
// the value kinds.
func TestEvalCondition_Comparisons(t *testing.T) {
	req := NewRequest("p", "a", "r").
		WithString("name", "bob").
		WithInt("age", 30).
		WithBool("active", true)

	tests := []struct {
		name string
		cond *Condition
		want bool
	}{
		{"string equal", Equals("name", StringValue("bob")), true},
		{"string not equal match", NotEquals("name", StringValue("alice")), true},
		{"string not equal miss", NotEquals("name", StringValue("bob")), false},
		{"int equal", Equals("age", IntValue(30)), true},
		{"int less than", LessThan("age", IntValue(40)), true},
		{"int less than miss", LessThan("age", IntValue(30)), false},
		{"int less equal at boundary", Compare("age", OpLessEqual, IntValue(30)), true},
		{"int greater than", GreaterThan("age", IntValue(20)), true},
		{"int greater equal at boundary", Compare("age", OpGreaterEqual, IntValue(30)), true},
		{"string ordering is byte-wise", LessThan("name", StringValue("carol")), true},
		{"bool equal", Equals("active", BoolValue(true)), true},
		{"bool not orderable", LessThan("active", BoolValue(true)), false},
		{"kind mismatch never equal", Equals("age", StringValue("30")), false},
		{"kind mismatch not orderable", LessThan("name", IntValue(5)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evalOne(t, tt.cond, req); got != tt.want {
				t.Fatalf("condition evaluated to %v, want %v", got, tt.want)
			}
		})
	}
}

// TestEvalCondition_MissingAttribute verifies that an absent attribute makes
// every comparison false, including not-equal, and that Present is the only
// way to observe absence.
func TestEvalCondition_MissingAttribute(t *testing.T) {
	req := NewRequest("p", "a", "r")

	tests := []struct {
		name string
		cond *Condition
		want bool
	}{
		{"equal on missing", Equals("ghost", StringValue("x")), false},
		{"not equal on missing", NotEquals("ghost", StringValue("x")), false},
		{"less than on missing", LessThan("ghost", IntValue(1)), false},
		{"present on missing", Present("ghost"), false},
		{"not present on missing", Not(Present("ghost")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evalOne(t, tt.cond, req); got != tt.want {
				t.Fatalf("condition evaluated to %v, want %v", got, tt.want)
			}
		})
	}
}

// TestEvalCondition_Logic exercises AND/OR/NOT composition, the empty-node
// semantics, and short-circuit order.
func TestEvalCondition_Logic(t *testing.T) {
	req := NewRequest("p", "a", "r").
		WithString("role", "admin").
		WithInt("level", 5)

	tests := []struct {
		name string
		cond *Condition
		want bool
	}{
		{"empty and is true", And(), true},
		{"empty or is false", Or(), false},
		{"not of nil is false", Not(nil), false},
		{"and all true", And(Equals("role", StringValue("admin")), GreaterThan("level", IntValue(3))), true},
		{"and one false", And(Equals("role", StringValue("admin")), GreaterThan("level", IntValue(9))), false},
		{"or one true", Or(Equals("role", StringValue("viewer")), Present("level")), true},
		{"or all false", Or(Equals("role", StringValue("viewer")), Present("ghost")), false},
		{"not flips", Not(Equals("role", StringValue("viewer"))), true},
		{"double negation", Not(Not(Present("role"))), true},
		{
			name: "nested mix",
			cond: And(
				Or(Equals("role", StringValue("admin")), Equals("role", StringValue("owner"))),
				Not(GreaterThan("level", IntValue(10))),
			),
			want: true,
		},
		{
			name: "deeper nesting",
			cond: Or(
				And(Present("ghost"), Equals("role", StringValue("admin"))),
				And(Not(Or(Present("ghost"), Equals("level", IntValue(0)))), Present("role")),
			),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evalOne(t, tt.cond, req); got != tt.want {
				t.Fatalf("condition evaluated to %v, want %v", got, tt.want)
			}
		})
	}
}

// TestEvalCondition_ShortCircuitCounts verifies that AND stops at the first
// false child and OR at the first true child.
func TestEvalCondition_ShortCircuitCounts(t *testing.T) {
	req := NewRequest("p", "a", "r").WithBool("flag", true)

	t.Run("and stops at first false", func(t *testing.T) {
		// Three leaves, but the first is false: 1 And node + 1 leaf.
		cond := And(Present("ghost"), Present("flag"), Present("flag"))
		policy, err := Build([]Rule{
			NewRule(EffectAllow, AnyTarget(), cond, ReasonCode(1)),
		}, DefaultLimits())
		if err != nil {
			t.Fatalf("Build() failed: %v", err)
		}
		defer policy.Close()

		_, stats, err := policy.EvaluateWithStats(req)
		if err != nil {
			t.Fatalf("EvaluateWithStats() failed: %v", err)
		}
		if stats.ConditionEvals != 2 {
			t.Fatalf("ConditionEvals = %d, want 2", stats.ConditionEvals)
		}
	})

	t.Run("or stops at first true", func(t *testing.T) {
		cond := Or(Present("flag"), Present("ghost"), Present("ghost"))
		policy, err := Build([]Rule{
			NewRule(EffectAllow, AnyTarget(), cond, ReasonCode(1)),
		}, DefaultLimits())
		if err != nil {
			t.Fatalf("Build() failed: %v", err)
		}
		defer policy.Close()

		_, stats, err := policy.EvaluateWithStats(req)
		if err != nil {
			t.Fatalf("EvaluateWithStats() failed: %v", err)
		}
		if stats.ConditionEvals != 2 {
			t.Fatalf("ConditionEvals = %d, want 2", stats.ConditionEvals)
		}
	})
}

// TestEvalCondition_MaxDepthTree verifies that a tree at the exact depth
// bound evaluates correctly with the bounded work stack.
func TestEvalCondition_MaxDepthTree(t *testing.T) {
	limits := DefaultLimits()
	depth := limits.MaxConditionDepth

	// Alternating Not chain: parity of the negations decides the outcome.
	leafTrue := Present("flag")
	node := leafTrue
	for i := 1; i < depth; i++ {
		node = Not(node)
	}
	negations := depth - 1
	want := negations%2 == 0

	policy, err := Build([]Rule{
		NewRule(EffectAllow, AnyTarget(), node, ReasonCode(1)),
	}, limits)
	if err != nil {
		t.Fatalf("Build() at exact depth bound failed: %v", err)
	}
	defer policy.Close()

	decision, err := policy.Evaluate(NewRequest("p", "a", "r").WithBool("flag", true))
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	if decision.IsAllow() != want {
		t.Fatalf("IsAllow() = %v, want %v for %d negations", decision.IsAllow(), want, negations)
	}
}

// TestEvalCondition_WideTreeAtDepthBound verifies a bushy tree: every level
// fans out, and the work stack holds at most one suspended frame per level.
func TestEvalCondition_WideTreeAtDepthBound(t *testing.T) {
	limits := DefaultLimits()
	limits.MaxConditionDepth = 6

	// Each level alternates And/Or with two subtrees.
	var grow func(depth int) *Condition
	grow = func(depth int) *Condition {
		if depth <= 1 {
			return Present("flag")
		}
		left := grow(depth - 1)
		right := grow(depth - 1)
		if depth%2 == 0 {
			return And(left, right)
		}
		return Or(left, right)
	}
	cond := grow(limits.MaxConditionDepth)

	policy, err := Build([]Rule{
		NewRule(EffectAllow, AnyTarget(), cond, ReasonCode(1)),
	}, limits)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	defer policy.Close()

	decision, err := policy.Evaluate(NewRequest("p", "a", "r").WithBool("flag", true))
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	if !decision.IsAllow() {
		t.Fatal("all-true bushy tree should evaluate true")
	}

	decision, err = policy.Evaluate(NewRequest("p", "a", "r"))
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	if decision.IsAllow() {
		t.Fatal("all-false bushy tree should evaluate false")
	}
}
