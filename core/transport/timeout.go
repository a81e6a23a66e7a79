package transport

import (
	"context"
	"time"
)

// NewTimeoutMiddleware bounds each call to next with timeout. Placed inside
// the retry middleware it limits a single attempt, and an expired attempt is
// retried like any other failure.
func NewTimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next SendFunc) SendFunc {
		return func(ctx context.Context, request *Request) (*Response, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			return next(ctx, request)
		}
	}
}
