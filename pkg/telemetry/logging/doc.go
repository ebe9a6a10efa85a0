// Package logging constructs the process's slog logger from configuration:
// level and format parsing, JSON or text handlers, optional source locations.
package logging
