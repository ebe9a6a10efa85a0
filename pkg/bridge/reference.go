package bridge

import "fmt"

// ReferenceEvaluate implements the legacy semantics directly: scan the
// policies in order, return the grant of the first one whose triggers and
// filters both match, or the default grant when none does. It is the oracle
// the shadow harness compares the engine against, so it stays deliberately
// literal.
func ReferenceEvaluate(pf *PolicyFile, req *EvalRequest) EvalResult {
	for i := range pf.Policies {
		if matchPolicy(&pf.Policies[i], req) {
			return policyResult(&pf.Policies[i], i)
		}
	}
	return defaultResult(pf)
}

// matchPolicy reports whether one policy matches the request: at least one
// specified trigger must match, and every specified filter must match. A
// policy with no triggers never activates.
func matchPolicy(p *LegacyPolicy, req *EvalRequest) bool {
	m := &p.Match
	if !m.HasTriggers() {
		return false
	}
	if !matchTriggers(m, req) {
		return false
	}
	return matchFilters(m, req)
}

// matchTriggers evaluates the OR half of the match block.
func matchTriggers(m *MatchBlock, req *EvalRequest) bool {
	for _, group := range m.OIDCGroups {
		for _, have := range req.OIDCGroups {
			if group == have {
				return true
			}
		}
	}
	if req.Email != "" && contains(m.Emails, req.Email) {
		return true
	}
	if req.LocalUsername != "" && contains(m.LocalUsernames, req.LocalUsername) {
		return true
	}
	return false
}

// matchFilters evaluates the AND half of the match block. A specified filter
// with no corresponding request context fails closed.
func matchFilters(m *MatchBlock, req *EvalRequest) bool {
	if len(m.SourceIP) > 0 {
		if req.SourceIP == "" || !contains(m.SourceIP, req.SourceIP) {
			return false
		}
	}
	if len(m.Hours) > 0 {
		if req.CurrentTime == "" || !withinAnyWindow(m.Hours, req.CurrentTime) {
			return false
		}
	}
	if len(m.WebAuthnIDs) > 0 {
		if req.WebAuthnID == "" || !contains(m.WebAuthnIDs, req.WebAuthnID) {
			return false
		}
	}
	return true
}

func contains(set []string, s string) bool {
	for _, member := range set {
		if member == s {
			return true
		}
	}
	return false
}

// withinAnyWindow reports whether the HH:MM clock value falls inside at
// least one of the HH:MM-HH:MM windows. Malformed windows never match;
// ParsePolicy rejects them up front.
func withinAnyWindow(windows []string, clock string) bool {
	if !validClock(clock) {
		return false
	}
	for _, window := range windows {
		start, end, err := parseHourWindow(window)
		if err != nil {
			continue
		}
		if inWindow(start, end, clock) {
			return true
		}
	}
	return false
}

// inWindow checks start <= clock <= end, treating start > end as a window
// that wraps past midnight. Zero-padded HH:MM strings order correctly under
// byte comparison.
func inWindow(start, end, clock string) bool {
	if start <= end {
		return clock >= start && clock <= end
	}
	return clock >= start || clock <= end
}

// parseHourWindow splits and validates an HH:MM-HH:MM window.
func parseHourWindow(window string) (start, end string, err error) {
	if len(window) != 11 || window[5] != '-' {
		return "", "", fmt.Errorf("invalid hours window %q, want HH:MM-HH:MM", window)
	}
	start, end = window[:5], window[6:]
	if !validClock(start) || !validClock(end) {
		return "", "", fmt.Errorf("invalid hours window %q, want HH:MM-HH:MM", window)
	}
	return start, end, nil
}

// validClock checks a zero-padded HH:MM string.
func validClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	hour := int(s[0]-'0')*10 + int(s[1]-'0')
	minute := int(s[3]-'0')*10 + int(s[4]-'0')
	return hour < 24 && minute < 60
}
