package transport

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig holds the tuning parameters for the retry middleware. Unlike
// most options here, zero values are meaningful: MaxRetries 0 means a single
// attempt and RetryDelay 0 retries immediately.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first failure. A value of
	// 3 means the request is attempted at most 4 times.
	MaxRetries int

	// RetryDelay is the sleep before the first retry.
	RetryDelay time.Duration

	// BackoffFactor multiplies the delay on each further retry:
	// delay(i) = RetryDelay * BackoffFactor^i for the zero-indexed attempt i.
	// A factor below 1 shrinks the delay; 0 retries at once after the first
	// sleep.
	BackoffFactor float64

	// MaxBackoff caps a single delay. Zero means uncapped.
	MaxBackoff time.Duration

	// JitterFraction adds random noise in [0, JitterFraction*delay]. Zero
	// disables jitter, keeping delays exact.
	JitterFraction float64

	// RetryableFunc reports whether an attempt error should be retried. The
	// default retries every error.
	RetryableFunc func(error) bool

	// OnRetry, if set, is called before each backoff sleep with the
	// zero-indexed attempt that failed.
	OnRetry func(ctx context.Context, attempt int, delay time.Duration, err error)
}

func retryAll(err error) bool { return err != nil }

// computeBackoff returns the sleep after the given zero-indexed attempt.
func computeBackoff(cfg RetryConfig, attempt int) time.Duration {
	base := float64(cfg.RetryDelay) * math.Pow(cfg.BackoffFactor, float64(attempt))
	if cfg.MaxBackoff > 0 && base > float64(cfg.MaxBackoff) {
		base = float64(cfg.MaxBackoff)
	}
	if cfg.JitterFraction > 0 {
		base += base * cfg.JitterFraction * rand.Float64() //nolint:gosec // non-cryptographic jitter
	}
	return time.Duration(base)
}

// NewRetryMiddleware retries failed attempts according to cfg. After the last
// failed attempt it returns an [*ExhaustedError] wrapping the last error. A
// non-retryable error is returned as is. When the caller's context ends the
// middleware stops at once and returns the context error; a per-attempt
// timeout inside the chain does not count as caller cancellation.
func NewRetryMiddleware(cfg RetryConfig) Middleware {
	if cfg.RetryableFunc == nil {
		cfg.RetryableFunc = retryAll
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	return func(next SendFunc) SendFunc {
		return func(ctx context.Context, request *Request) (*Response, error) {
			var lastErr error
			attempts := cfg.MaxRetries + 1

			for attempt := 0; attempt < attempts; attempt++ {
				resp, err := next(withAttempt(ctx, attempt), request)
				if err == nil {
					return resp, nil
				}
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				lastErr = err

				if !cfg.RetryableFunc(err) {
					return nil, err
				}
				if attempt == attempts-1 {
					break
				}

				delay := computeBackoff(cfg, attempt)
				if cfg.OnRetry != nil {
					cfg.OnRetry(ctx, attempt, delay, err)
				}
				if err := sleep(ctx, delay); err != nil {
					return nil, err
				}
			}

			return nil, &ExhaustedError{Attempts: attempts, Err: lastErr}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type attemptKey struct{}

func withAttempt(ctx context.Context, attempt int) context.Context {
	return context.WithValue(ctx, attemptKey{}, attempt)
}

// AttemptFromContext returns the zero-indexed attempt number set by the retry
// middleware, or 0 outside of it.
func AttemptFromContext(ctx context.Context) int {
	attempt, _ := ctx.Value(attemptKey{}).(int)
	return attempt
}

func retryObserver(logger *slog.Logger, metrics *Metrics) func(context.Context, int, time.Duration, error) {
	return func(ctx context.Context, attempt int, delay time.Duration, err error) {
		logger.WarnContext(ctx, "puter retry",
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()),
		)
		if metrics != nil {
			metrics.observeRetry()
		}
	}
}
