// Package telemetry provides observability for the decision path: structured
// logging and Prometheus metrics. The engine core stays free of both; these
// packages wrap around it at the call sites that own I/O.
package telemetry
