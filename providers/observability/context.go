package observability

import "context"

// contextKey keeps the span key private to this package.
type contextKey struct{}

var spanContextKey = contextKey{}

// SpanFromContext returns the span of the gateway call ctx belongs to, or
// nil outside a call.
func SpanFromContext(ctx context.Context) Span {
	if ctx == nil {
		return nil
	}
	span, _ := ctx.Value(spanContextKey).(Span)
	return span
}

// ContextWithSpan returns a context carrying span. Providers call it from
// StartSpan.
func ContextWithSpan(ctx context.Context, span Span) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, spanContextKey, span)
}

// AddEvent records an event on the span in ctx. Without a span it does
// nothing, so storage code can report transcript changes whether or not the
// caller traces.
func AddEvent(ctx context.Context, name string, attrs ...Attribute) {
	if span := SpanFromContext(ctx); span != nil {
		span.AddEvent(name, attrs...)
	}
}
