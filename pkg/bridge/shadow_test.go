package bridge

import (
	"testing"

	"mercator-hq/saturn/pkg/engine"
)

func TestTranslate(t *testing.T) {
	pf := testPolicyFile()

	policy, err := Translate(pf, engine.DefaultLimits())
	if err != nil {
		t.Fatalf("Translate() failed: %v", err)
	}
	defer policy.Close()

	// One rule per legacy policy plus the default grant.
	if policy.Len() != len(pf.Policies)+1 {
		t.Fatalf("Len() = %d, want %d", policy.Len(), len(pf.Policies)+1)
	}
}

func TestTranslate_TooManyPolicies(t *testing.T) {
	limits := engine.DefaultLimits()
	limits.MaxContextAttrs = 2

	pf := testPolicyFile()
	pf.Policies = append(pf.Policies, LegacyPolicy{
		Name:        "Third",
		Match:       MatchBlock{LocalUsernames: []string{"x"}},
		Principals:  []string{"x"},
		MaxDuration: "5m",
	})

	_, err := Translate(pf, limits)
	if _, ok := err.(*TranslationError); !ok {
		t.Fatalf("error = %v (%T), want *TranslationError", err, err)
	}
}

func TestFlattenRequest(t *testing.T) {
	pf := testPolicyFile()
	req := &EvalRequest{
		LocalUsername: "dev",
		OIDCGroups:    []string{"admins"},
		CurrentTime:   "12:00",
	}

	flat := FlattenRequest(pf, req)
	if flat.Principal != "dev" {
		t.Fatalf("Principal = %q, want dev", flat.Principal)
	}
	if flat.ContextLen() != len(pf.Policies) {
		t.Fatalf("ContextLen() = %d, want %d", flat.ContextLen(), len(pf.Policies))
	}

	// Both policies match this request.
	for i := range pf.Policies {
		v, ok := flat.Attribute(matchAttr(i))
		if !ok || !v.Equal(engine.BoolValue(true)) {
			t.Fatalf("attribute %s = %v, %v; want true", matchAttr(i), v, ok)
		}
	}

	// An anonymous request gets the placeholder principal and no matches.
	flat = FlattenRequest(pf, &EvalRequest{})
	if flat.Principal != anonPrincipal {
		t.Fatalf("Principal = %q, want %q", flat.Principal, anonPrincipal)
	}
	for i := range pf.Policies {
		if v, _ := flat.Attribute(matchAttr(i)); !v.Equal(engine.BoolValue(false)) {
			t.Fatalf("attribute %s = %v, want false", matchAttr(i), v)
		}
	}
}

func TestShadowEvaluate_Default(t *testing.T) {
	pf := &PolicyFile{
		Default: DefaultGrant{Principals: []string{"sandbox"}, MaxDuration: "15m"},
	}

	result, err := ShadowEvaluate(pf, &EvalRequest{}, engine.DefaultLimits())
	if err != nil {
		t.Fatalf("ShadowEvaluate() failed: %v", err)
	}

	if !result.Match {
		t.Fatalf("decisions should match: %+v", result)
	}
	if result.Engine.ReasonCode != uint32(DefaultGrantReason) {
		t.Fatalf("ReasonCode = %d, want default grant reason", result.Engine.ReasonCode)
	}
	if result.Reference.PolicyIndex != -1 {
		t.Fatalf("PolicyIndex = %d, want -1", result.Reference.PolicyIndex)
	}
}

func TestShadowEvaluate_WithMatch(t *testing.T) {
	pf := testPolicyFile()
	req := &EvalRequest{
		OIDCGroups:  []string{"admins"},
		CurrentTime: "12:00",
	}

	result, err := ShadowEvaluate(pf, req, engine.DefaultLimits())
	if err != nil {
		t.Fatalf("ShadowEvaluate() failed: %v", err)
	}

	if !result.Match {
		t.Fatalf("decisions should match: %+v", result)
	}
	if result.Reference.PolicyName != "AdminAccess" {
		t.Fatalf("PolicyName = %q, want AdminAccess", result.Reference.PolicyName)
	}
	if result.Engine.ReasonCode != 0 {
		t.Fatalf("ReasonCode = %d, want 0 (first policy index)", result.Engine.ReasonCode)
	}
	if result.Stats.RulesChecked == 0 {
		t.Fatal("Stats.RulesChecked should be populated")
	}
}

// TestShadowEvaluate_AgreesAcrossRequests drives both evaluators through the
// interesting request shapes and expects agreement on all of them.
func TestShadowEvaluate_AgreesAcrossRequests(t *testing.T) {
	pf := testPolicyFile()

	requests := []*EvalRequest{
		{},
		{OIDCGroups: []string{"admins"}},
		{OIDCGroups: []string{"admins"}, CurrentTime: "12:00"},
		{OIDCGroups: []string{"admins"}, CurrentTime: "20:00"},
		{Email: "dev@example.com"},
		{LocalUsername: "dev"},
		{LocalUsername: "stranger"},
		{OIDCGroups: []string{"guests"}, Email: "dev@example.com", CurrentTime: "12:00"},
	}

	for i, req := range requests {
		result, err := ShadowEvaluate(pf, req, engine.DefaultLimits())
		if err != nil {
			t.Fatalf("request %d: ShadowEvaluate() failed: %v", i, err)
		}
		if !result.Match {
			t.Fatalf("request %d: divergence: %+v", i, result)
		}
	}
}

// TestFuzzer_DeterministicRunFindsNoMismatch runs a short seeded fuzzing
// session; the two evaluators implement the same semantics, so any mismatch
// is a bug.
func TestFuzzer_DeterministicRunFindsNoMismatch(t *testing.T) {
	config := FuzzConfig{
		Iterations:  500,
		Seed:        42,
		ArtifactDir: t.TempDir(),
		Limits:      engine.DefaultLimits(),
	}

	report, err := NewFuzzer(config, nil).Run()
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if report.Iterations != config.Iterations {
		t.Fatalf("Iterations = %d, want %d", report.Iterations, config.Iterations)
	}
	if report.Mismatches != 0 {
		t.Fatalf("Mismatches = %d, want 0", report.Mismatches)
	}
	if report.Errors != 0 {
		t.Fatalf("Errors = %d, want 0", report.Errors)
	}
}
