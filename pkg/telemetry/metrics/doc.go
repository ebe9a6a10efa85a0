// Package metrics exposes Prometheus collectors for the decision path.
// Collectors register on a caller-supplied registry so embedding processes
// control their own metrics endpoint.
package metrics
