package transport

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects Prometheus metrics for the transport. All metrics are
// namespaced "puter":
//
//   - requests_total{outcome}: logical requests by outcome (ok, exhausted, canceled, error)
//   - attempts_total{outcome}: individual HTTP attempts (ok, error)
//   - retries_total: backoff sleeps taken
//   - request_duration_seconds: logical request latency, retries included
//   - throttle_wait_seconds: time spent waiting for a rate-limit slot
//
// Expose them with promhttp.HandlerFor(registry, promhttp.HandlerOpts{}).
type Metrics struct {
	requests        *prometheus.CounterVec
	attempts        *prometheus.CounterVec
	retries         prometheus.Counter
	requestDuration prometheus.Histogram
	throttleWait    prometheus.Histogram
}

// NewMetrics registers the transport metrics with registry. A nil registry
// uses prometheus.DefaultRegisterer. Registering twice on the same registry
// panics, as with any promauto collector.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "puter",
			Name:      "requests_total",
			Help:      "Logical gateway requests by outcome",
		}, []string{"outcome"}),
		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "puter",
			Name:      "attempts_total",
			Help:      "Individual HTTP attempts by outcome",
		}, []string{"outcome"}),
		retries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "puter",
			Name:      "retries_total",
			Help:      "Backoff sleeps taken before retrying an attempt",
		}),
		requestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "puter",
			Name:      "request_duration_seconds",
			Help:      "Logical request latency including retries",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		throttleWait: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "puter",
			Name:      "throttle_wait_seconds",
			Help:      "Time spent waiting for a rate-limit slot",
			Buckets:   []float64{0, 0.01, 0.1, 0.5, 1, 5, 10, 30, 60},
		}),
	}
}

// RequestMiddleware records one observation per logical request.
func (m *Metrics) RequestMiddleware() Middleware {
	return func(next SendFunc) SendFunc {
		return func(ctx context.Context, request *Request) (*Response, error) {
			start := time.Now()
			resp, err := next(ctx, request)
			m.requestDuration.Observe(time.Since(start).Seconds())
			m.requests.WithLabelValues(requestOutcome(err)).Inc()
			return resp, err
		}
	}
}

// AttemptMiddleware records one observation per HTTP attempt.
func (m *Metrics) AttemptMiddleware() Middleware {
	return func(next SendFunc) SendFunc {
		return func(ctx context.Context, request *Request) (*Response, error) {
			resp, err := next(ctx, request)
			outcome := "ok"
			if err != nil {
				outcome = "error"
			}
			m.attempts.WithLabelValues(outcome).Inc()
			return resp, err
		}
	}
}

func (m *Metrics) observeRetry() {
	m.retries.Inc()
}

func (m *Metrics) observeThrottle(waited time.Duration) {
	m.throttleWait.Observe(waited.Seconds())
}

func requestOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrExhausted):
		return "exhausted"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
