// Package bridge translates legacy YAML access policies into bounded engine
// policies and validates the translation by shadow evaluation.
//
// The legacy format grants principals to requests via ordered policies with
// OR-trigger identity matching (groups, emails, usernames) and AND-filter
// context matching (source IP, hours, WebAuthn). The engine core only
// understands primitive attributes, so the bridge flattens each legacy
// policy's match outcome into a boolean context attribute before evaluation;
// all CIDR, time-window, and credential matching happens here, never inside
// the engine.
//
// Three consumers build on the translation:
//
//   - ReferenceEvaluate implements the legacy semantics directly and serves
//     as the oracle.
//   - ShadowEvaluate runs oracle and engine side by side and compares the
//     decisions bit for bit.
//   - Fuzzer generates random policies and requests, shadow-evaluates them,
//     and writes artifacts for any divergence it finds.
package bridge
