// Package logging assembles structured slog loggers and formatting helpers used
// across autolrc.
//
// It owns the console and JSON handlers, tees every record into a per-run
// JSON log file at debug level, and exposes context-aware helpers so pipeline code can tag log
// lines with run IDs, job IDs and stage names. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
package logging
