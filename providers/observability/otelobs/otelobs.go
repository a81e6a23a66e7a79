// Package otelobs adapts an OpenTelemetry tracer to observability.Provider.
//
// Spans are real OpenTelemetry spans started from the supplied tracer, so
// they nest under whatever trace the caller's context already carries.
// Metrics and logs are delegated to a fallback provider, typically a
// slogobs.Observer.
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	obs := otelobs.New(tp.Tracer("puter"), slogobs.New())
//	s := session.New(session.WithObserver(obs))
package otelobs

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/leofalp/puter-go/providers/observability"
)

// Observer records spans through OpenTelemetry.
type Observer struct {
	observability.Metrics
	observability.Logger

	tracer trace.Tracer
}

// New returns an Observer starting spans from tracer. A nil fallback uses
// observability.Nop for metrics and logs.
func New(tracer trace.Tracer, fallback observability.Provider) *Observer {
	if fallback == nil {
		fallback = observability.Nop
	}
	return &Observer{Metrics: fallback, Logger: fallback, tracer: tracer}
}

// StartSpan starts an OpenTelemetry span and stores it in the returned
// context both as the OpenTelemetry active span and as an
// observability.Span.
func (o *Observer) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	ctx, otelSpan := o.tracer.Start(ctx, name, trace.WithAttributes(toOTel(attrs)...))
	s := &span{span: otelSpan}
	return observability.ContextWithSpan(ctx, s), s
}

type span struct {
	span trace.Span
}

func (s *span) End() { s.span.End() }

func (s *span) SetAttributes(attrs ...observability.Attribute) {
	s.span.SetAttributes(toOTel(attrs)...)
}

func (s *span) SetStatus(code observability.StatusCode, description string) {
	switch code {
	case observability.StatusOK:
		s.span.SetStatus(codes.Ok, description)
	case observability.StatusError:
		s.span.SetStatus(codes.Error, description)
	default:
		s.span.SetStatus(codes.Unset, description)
	}
}

func (s *span) RecordError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
}

func (s *span) AddEvent(name string, attrs ...observability.Attribute) {
	s.span.AddEvent(name, trace.WithAttributes(toOTel(attrs)...))
}

// toOTel converts attributes to their OpenTelemetry form. Durations become
// milliseconds; types without an OpenTelemetry equivalent are formatted
// with %v.
func toOTel(attrs []observability.Attribute) []attribute.KeyValue {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, a := range attrs {
		switch v := a.Value.(type) {
		case string:
			out = append(out, attribute.String(a.Key, v))
		case int:
			out = append(out, attribute.Int(a.Key, v))
		case int64:
			out = append(out, attribute.Int64(a.Key, v))
		case float64:
			out = append(out, attribute.Float64(a.Key, v))
		case bool:
			out = append(out, attribute.Bool(a.Key, v))
		case time.Duration:
			out = append(out, attribute.Int64(a.Key, v.Milliseconds()))
		case []string:
			out = append(out, attribute.StringSlice(a.Key, v))
		default:
			out = append(out, attribute.String(a.Key, fmt.Sprintf("%v", v)))
		}
	}
	return out
}
