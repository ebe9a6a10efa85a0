package bridge

// PolicyFile is the root of a legacy policy document.
type PolicyFile struct {
	// Default is the grant applied when no policy matches.
	Default DefaultGrant `yaml:"default" json:"default"`

	// Policies are evaluated in order; the first match wins.
	Policies []LegacyPolicy `yaml:"policies" json:"policies"`
}

// DefaultGrant is the fallback grant when no policy matches.
type DefaultGrant struct {
	Principals  []string `yaml:"principals" json:"principals"`
	MaxDuration string   `yaml:"max_duration" json:"max_duration"`
}

// LegacyPolicy is a single ordered policy entry.
type LegacyPolicy struct {
	Name        string     `yaml:"name" json:"name"`
	Match       MatchBlock `yaml:"match" json:"match"`
	Principals  []string   `yaml:"principals" json:"principals"`
	MaxDuration string     `yaml:"max_duration" json:"max_duration"`
}

// MatchBlock holds a policy's match conditions. The identity lists are OR
// triggers: at least one specified trigger must match for the policy to
// activate. The context lists are AND filters: every specified filter must
// also match.
type MatchBlock struct {
	OIDCGroups     []string `yaml:"oidc_groups,omitempty" json:"oidc_groups,omitempty"`
	Emails         []string `yaml:"emails,omitempty" json:"emails,omitempty"`
	LocalUsernames []string `yaml:"local_usernames,omitempty" json:"local_usernames,omitempty"`

	SourceIP    []string `yaml:"source_ip,omitempty" json:"source_ip,omitempty"`
	Hours       []string `yaml:"hours,omitempty" json:"hours,omitempty"`
	WebAuthnIDs []string `yaml:"webauthn_ids,omitempty" json:"webauthn_ids,omitempty"`
}

// HasTriggers reports whether any OR trigger is specified. A policy with no
// triggers never activates.
func (m *MatchBlock) HasTriggers() bool {
	return len(m.OIDCGroups) > 0 || len(m.Emails) > 0 || len(m.LocalUsernames) > 0
}

// HasFilters reports whether any AND filter is specified.
func (m *MatchBlock) HasFilters() bool {
	return len(m.SourceIP) > 0 || len(m.Hours) > 0 || len(m.WebAuthnIDs) > 0
}

// EvalRequest is one legacy evaluation subject: the requester's identity plus
// the connection context.
type EvalRequest struct {
	OIDCGroups    []string `yaml:"oidc_groups" json:"oidc_groups"`
	Email         string   `yaml:"email,omitempty" json:"email,omitempty"`
	LocalUsername string   `yaml:"local_username,omitempty" json:"local_username,omitempty"`

	SourceIP string `yaml:"source_ip,omitempty" json:"source_ip,omitempty"`
	// CurrentTime is the local wall clock in HH:MM form.
	CurrentTime string `yaml:"current_time,omitempty" json:"current_time,omitempty"`
	WebAuthnID  string `yaml:"webauthn_id,omitempty" json:"webauthn_id,omitempty"`
}

// EvalResult is the legacy evaluation outcome: the grant of the first
// matching policy, or the default grant.
type EvalResult struct {
	Matched     bool     `json:"matched"`
	PolicyName  string   `json:"policy_name,omitempty"`
	PolicyIndex int      `json:"policy_index"`
	Principals  []string `json:"principals"`
	MaxDuration string   `json:"max_duration"`
}

// defaultResult returns the fallback outcome for the given file.
func defaultResult(pf *PolicyFile) EvalResult {
	return EvalResult{
		Matched:     false,
		PolicyIndex: -1,
		Principals:  pf.Default.Principals,
		MaxDuration: pf.Default.MaxDuration,
	}
}

// policyResult returns the outcome for the matching policy at index.
func policyResult(p *LegacyPolicy, index int) EvalResult {
	return EvalResult{
		Matched:     true,
		PolicyName:  p.Name,
		PolicyIndex: index,
		Principals:  p.Principals,
		MaxDuration: p.MaxDuration,
	}
}
