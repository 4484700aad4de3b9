// Package logging assembles structured slog loggers and formatting helpers used
// across clipkeeper.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so reconciliation code can tag log lines
// with the run ID, split, and canonical clip ID. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
