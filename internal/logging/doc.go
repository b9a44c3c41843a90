// Package logging assembles the structured slog loggers used across the
// importer.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline stages tag log
// lines with stage names and run IDs. A no-op logger is provided for tests
// and wiring code that cannot fail.
package logging
