package bridge

import "testing"

func testPolicyFile() *PolicyFile {
	return &PolicyFile{
		Default: DefaultGrant{
			Principals:  []string{"sandbox"},
			MaxDuration: "15m",
		},
		Policies: []LegacyPolicy{
			{
				Name: "AdminAccess",
				Match: MatchBlock{
					OIDCGroups: []string{"admins"},
					Hours:      []string{"09:00-17:00"},
				},
				Principals:  []string{"root"},
				MaxDuration: "60m",
			},
			{
				Name: "DevAccess",
				Match: MatchBlock{
					Emails:         []string{"dev@example.com"},
					LocalUsernames: []string{"dev"},
				},
				Principals:  []string{"dev"},
				MaxDuration: "30m",
			},
		},
	}
}

func TestReferenceEvaluate(t *testing.T) {
	pf := testPolicyFile()

	tests := []struct {
		name      string
		req       *EvalRequest
		wantName  string
		wantIndex int
	}{
		{
			name: "trigger and filter match",
			req: &EvalRequest{
				OIDCGroups:  []string{"admins"},
				CurrentTime: "12:00",
			},
			wantName:  "AdminAccess",
			wantIndex: 0,
		},
		{
			name: "filter outside window falls through",
			req: &EvalRequest{
				OIDCGroups:  []string{"admins"},
				CurrentTime: "20:00",
			},
			wantIndex: -1,
		},
		{
			name: "filter with no context fails closed",
			req: &EvalRequest{
				OIDCGroups: []string{"admins"},
			},
			wantIndex: -1,
		},
		{
			name:      "email trigger",
			req:       &EvalRequest{Email: "dev@example.com"},
			wantName:  "DevAccess",
			wantIndex: 1,
		},
		{
			name:      "username trigger",
			req:       &EvalRequest{LocalUsername: "dev"},
			wantName:  "DevAccess",
			wantIndex: 1,
		},
		{
			name:      "no trigger matches",
			req:       &EvalRequest{OIDCGroups: []string{"guests"}},
			wantIndex: -1,
		},
		{
			name:      "empty request gets default",
			req:       &EvalRequest{},
			wantIndex: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ReferenceEvaluate(pf, tt.req)
			if result.PolicyIndex != tt.wantIndex {
				t.Fatalf("PolicyIndex = %d, want %d", result.PolicyIndex, tt.wantIndex)
			}
			if result.PolicyName != tt.wantName {
				t.Fatalf("PolicyName = %q, want %q", result.PolicyName, tt.wantName)
			}
			if tt.wantIndex == -1 {
				if result.Matched || result.MaxDuration != "15m" {
					t.Fatalf("fallthrough result = %+v, want default grant", result)
				}
			} else if !result.Matched {
				t.Fatal("Matched should be true")
			}
		})
	}
}

// TestReferenceEvaluate_FirstMatchWins verifies ordered scanning when several
// policies match.
func TestReferenceEvaluate_FirstMatchWins(t *testing.T) {
	pf := testPolicyFile()
	pf.Policies[0].Match = MatchBlock{LocalUsernames: []string{"dev"}}

	result := ReferenceEvaluate(pf, &EvalRequest{LocalUsername: "dev"})
	if result.PolicyIndex != 0 {
		t.Fatalf("PolicyIndex = %d, want 0 (first match)", result.PolicyIndex)
	}
}

// TestReferenceEvaluate_NoTriggersNeverMatches verifies that a policy with
// only filters cannot activate.
func TestReferenceEvaluate_NoTriggersNeverMatches(t *testing.T) {
	pf := &PolicyFile{
		Default: DefaultGrant{Principals: []string{"sandbox"}, MaxDuration: "15m"},
		Policies: []LegacyPolicy{
			{
				Name:        "FiltersOnly",
				Match:       MatchBlock{SourceIP: []string{"10.0.0.1"}},
				Principals:  []string{"root"},
				MaxDuration: "60m",
			},
		},
	}

	result := ReferenceEvaluate(pf, &EvalRequest{SourceIP: "10.0.0.1"})
	if result.Matched {
		t.Fatal("a policy without triggers should never match")
	}
}

func TestHourWindows(t *testing.T) {
	tests := []struct {
		name    string
		windows []string
		clock   string
		want    bool
	}{
		{"inside window", []string{"09:00-17:00"}, "12:00", true},
		{"at window start", []string{"09:00-17:00"}, "09:00", true},
		{"at window end", []string{"09:00-17:00"}, "17:00", true},
		{"before window", []string{"09:00-17:00"}, "08:59", false},
		{"after window", []string{"09:00-17:00"}, "17:01", false},
		{"wraps midnight late", []string{"22:00-06:00"}, "23:30", true},
		{"wraps midnight early", []string{"22:00-06:00"}, "03:00", true},
		{"wraps midnight outside", []string{"22:00-06:00"}, "12:00", false},
		{"second window matches", []string{"09:00-10:00", "14:00-15:00"}, "14:30", true},
		{"invalid clock", []string{"09:00-17:00"}, "noonish", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := withinAnyWindow(tt.windows, tt.clock); got != tt.want {
				t.Fatalf("withinAnyWindow(%v, %q) = %v, want %v", tt.windows, tt.clock, got, tt.want)
			}
		})
	}
}
