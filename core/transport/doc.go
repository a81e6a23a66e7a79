// Package transport executes one logical gateway request with bounded
// retries, exponential backoff, a per-attempt timeout and, on the
// asynchronous path, a sliding-window rate limit.
//
// The request pipeline is a chain of [Middleware] around a [SendFunc] that
// performs exactly one HTTP attempt ([HTTPSender]). [New] assembles the two
// chains a [Transport] exposes:
//
//	Do (blocking):   Logging → caller middlewares → Metrics → Retry → Timeout → HTTP
//	Go (async):      RateLimit → Logging → caller middlewares → Metrics → Retry → Timeout → HTTP
//
// With [WithMetrics], attempt metrics sit between Retry and Timeout.
//
// Retry and backoff arithmetic live in one place ([NewRetryMiddleware]); the
// blocking and asynchronous paths differ only in the rate-limit gate and in
// whether the caller waits or receives a channel.
//
// Middlewares execute outermost-first: the first entry is the first to see a
// request and the last to see the response.
package transport
