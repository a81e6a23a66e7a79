// Package slogobs implements observability.Provider on top of log/slog.
// Spans, metric updates and log calls all become structured log records;
// span lifecycle and metric records are emitted at DEBUG level.
package slogobs
