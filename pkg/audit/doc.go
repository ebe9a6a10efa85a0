// Package audit records policy decisions for compliance and forensics.
//
// The engine core is pure and never performs I/O; auditing wraps around it.
// A Recorder turns each (request, decision, stats) triple into an immutable
// Record with a UUID and wall-clock timestamp and hands it to a Storage
// backend asynchronously, so recording never blocks the decision path.
//
// Two backends are provided: an in-memory store for tests and short-lived
// tools, and a SQLite store for durable trails. The SQLite backend can run
// on either the cgo driver (mattn/go-sqlite3) or the pure-Go driver
// (modernc.org/sqlite); the Driver config field selects between them.
// Retention is enforced by a Pruner, optionally run on a cron schedule.
package audit
