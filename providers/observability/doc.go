// Package observability defines the tracing, metrics and logging interfaces
// the puter session and transport record into, plus the semantic attribute
// names they use.
//
// [Provider] composes [Tracer], [Metrics] and [Logger] into one injectable
// dependency. The active [Span] travels in a [context.Context] via
// [ContextWithSpan] and is read back with [SpanFromContext]; the HTTP attempt
// records its request/response events on it.
//
// Implementations live in sub-packages: slogobs (log/slog) and otelobs
// (OpenTelemetry spans). [Nop] discards everything.
package observability
