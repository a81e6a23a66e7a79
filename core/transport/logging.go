package transport

import (
	"context"
	"log/slog"
	"time"
)

// NewLoggingMiddleware logs the start, completion and failure of each logical
// request. Bodies are never logged.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next SendFunc) SendFunc {
		return func(ctx context.Context, request *Request) (*Response, error) {
			logger.DebugContext(ctx, "puter request",
				slog.String("method", request.Method),
				slog.String("url", request.URL),
			)

			start := time.Now()
			resp, err := next(ctx, request)
			elapsed := time.Since(start)

			if err != nil {
				logger.ErrorContext(ctx, "puter request failed",
					slog.String("url", request.URL),
					slog.Duration("duration", elapsed),
					slog.String("error", err.Error()),
				)
				return nil, err
			}

			logger.DebugContext(ctx, "puter request completed",
				slog.String("url", request.URL),
				slog.Int("status", resp.StatusCode),
				slog.Int("body_size", len(resp.Body)),
				slog.Duration("duration", elapsed),
			)
			return resp, nil
		}
	}
}
