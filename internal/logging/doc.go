// Package logging assembles structured slog loggers and formatting helpers used
// across railcheck.
//
// It owns the console and JSON handlers, routes file output through a rotating
// writer, and exposes context-aware helpers so HTTP handlers can tag log lines
// with correlation IDs. The package also provides a no-op logger for tests and
// wiring code that cannot fail.
package logging
