package observability

import (
	"context"
	"time"
)

// Provider is the observability dependency accepted by the session. The
// session opens a span per login and chat call, counts calls and misses, and
// logs failures through it; memory providers add transcript events to the
// span found in the context.
type Provider interface {
	Tracer
	Metrics
	Logger
}

// --- TRACING ---

// Tracer starts spans.
type Tracer interface {
	// StartSpan starts a span named after a gateway call (SpanLogin,
	// SpanChat) and returns a context carrying it, so a transcript commit
	// made under that context is recorded on the same span.
	StartSpan(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Span represents a single unit of work.
type Span interface {
	// End completes the span. It is called once, after the transcript commit.
	End()
	// SetAttributes adds attributes known only after the span started, such
	// as the message count or the answer length.
	SetAttributes(attrs ...Attribute)
	// SetStatus marks the call as succeeded or failed. A content miss is
	// not a failure.
	SetStatus(code StatusCode, description string)
	// RecordError attaches the error that ended the call.
	RecordError(err error)
	// AddEvent records a point in time inside the call, such as a retry or
	// a transcript commit.
	AddEvent(name string, attrs ...Attribute)
}

// StatusCode represents the status of a span.
type StatusCode int

const (
	StatusUnset StatusCode = iota
	StatusOK
	StatusError
)

// --- METRICS ---

// Metrics hands out named instruments. Names are the Metric* constants.
type Metrics interface {
	// Counter returns the counter called name, creating it on first use.
	// Repeated calls with one name return the same instrument.
	Counter(name string) Counter
	// Histogram returns the histogram called name, creating it on first use.
	Histogram(name string) Histogram
}

// Counter is a monotonically increasing metric.
type Counter interface {
	Add(ctx context.Context, value int64, attrs ...Attribute)
}

// Histogram records a distribution of values, such as chat durations in
// seconds.
type Histogram interface {
	Record(ctx context.Context, value float64, attrs ...Attribute)
}

// --- LOGGING ---

// Logger provides levelled structured logging. Trace sits below Debug and
// is meant for request and response bodies.
type Logger interface {
	Trace(ctx context.Context, msg string, attrs ...Attribute)
	Debug(ctx context.Context, msg string, attrs ...Attribute)
	Info(ctx context.Context, msg string, attrs ...Attribute)
	Warn(ctx context.Context, msg string, attrs ...Attribute)
	Error(ctx context.Context, msg string, attrs ...Attribute)
}

// --- ATTRIBUTES ---

// Attribute is a key-value pair attached to spans, events, metrics and logs.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int creates an integer attribute.
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int64 creates an int64 attribute.
func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Float64 creates a float64 attribute.
func Float64(key string, value float64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value}
}

// Error creates an error attribute. A nil error yields an empty value.
func Error(err error) Attribute {
	if err == nil {
		return Attribute{Key: AttrError, Value: ""}
	}
	return Attribute{Key: AttrError, Value: err.Error()}
}
