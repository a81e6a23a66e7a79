package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/leofalp/puter-go/core/config"
)

// Request is one logical call to the gateway. Body is JSON-encoded on every
// attempt; Header is merged over the configured default headers.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   any
}

// Response is a successful (2xx) reply with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Result is delivered on the channel returned by [Transport.Go].
type Result struct {
	Response *Response
	Err      error
}

// SendFunc performs a request and returns the reply. It is the unit threaded
// through the middleware chain.
type SendFunc func(ctx context.Context, request *Request) (*Response, error)

// Middleware wraps the next SendFunc in the chain.
type Middleware func(next SendFunc) SendFunc

// Chain wraps base with middlewares so that middlewares[0] is outermost.
func Chain(base SendFunc, middlewares ...Middleware) SendFunc {
	chain := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] != nil {
			chain = middlewares[i](chain)
		}
	}
	return chain
}

// Transport is the resilient request executor shared by a session's login and
// chat calls. It holds no per-request state and is safe for concurrent use.
type Transport struct {
	cfg     *config.Config
	limiter *SlidingWindow
	sync    SendFunc
	async   SendFunc
}

// Option customises a Transport built by [New].
type Option func(*options)

type options struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *Metrics
	extra      []Middleware
	base       SendFunc
}

// WithHTTPClient sets the client used for attempts. Defaults to a fresh
// http.Client without its own timeout; attempts are bounded by the config.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets the logger used for request and retry log entries.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics records Prometheus metrics for requests, attempts, retries and
// throttle waits.
func WithMetrics(metrics *Metrics) Option {
	return func(o *options) {
		o.metrics = metrics
	}
}

// WithMiddleware adds caller middlewares around the built-in retry stage.
// They run once per logical request, not once per attempt.
func WithMiddleware(middlewares ...Middleware) Option {
	return func(o *options) {
		o.extra = append(o.extra, middlewares...)
	}
}

// WithSender replaces the HTTP attempt with send. Intended for tests and for
// callers that tunnel requests through their own client stack.
func WithSender(send SendFunc) Option {
	return func(o *options) {
		o.base = send
	}
}

// New builds a Transport from cfg. cfg is cloned; later changes to it are not
// observed.
func New(cfg *config.Config, opts ...Option) *Transport {
	if cfg == nil {
		cfg = config.New()
	}
	cfg = cfg.Clone()

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.base == nil {
		client := o.httpClient
		if client == nil {
			client = &http.Client{}
		}
		o.base = HTTPSender(client, cfg.Headers)
	}

	retry := NewRetryMiddleware(RetryConfig{
		MaxRetries:    cfg.MaxRetries,
		RetryDelay:    cfg.RetryDelay,
		BackoffFactor: cfg.BackoffFactor,
		OnRetry:       retryObserver(o.logger, o.metrics),
	})

	inner := []Middleware{NewLoggingMiddleware(o.logger)}
	inner = append(inner, o.extra...)
	if o.metrics != nil {
		inner = append(inner, o.metrics.RequestMiddleware())
	}
	inner = append(inner, retry)
	if o.metrics != nil {
		inner = append(inner, o.metrics.AttemptMiddleware())
	}
	if cfg.Timeout > 0 {
		inner = append(inner, NewTimeoutMiddleware(cfg.Timeout))
	}

	limiter := NewSlidingWindow(cfg.RateLimitRequests, cfg.RateLimitPeriod)

	t := &Transport{cfg: cfg, limiter: limiter}
	t.sync = Chain(o.base, inner...)
	t.async = Chain(o.base, append([]Middleware{NewRateLimitMiddleware(limiter, o.metrics)}, inner...)...)
	return t
}

// Config returns a copy of the settings the Transport was built with.
func (t *Transport) Config() *config.Config {
	return t.cfg.Clone()
}

// Do executes request on the blocking path. The calling goroutine sleeps
// through backoff delays. This path is not rate limited.
func (t *Transport) Do(ctx context.Context, request *Request) (*Response, error) {
	return t.sync(ctx, request)
}

// Go executes request on the asynchronous path and delivers the outcome on the
// returned channel, which receives exactly one value. The request first waits
// for a rate-limit slot; waiting never drops it, only delays it. Cancelling ctx
// aborts the wait, the attempt in flight and any backoff sleep.
func (t *Transport) Go(ctx context.Context, request *Request) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		resp, err := t.async(ctx, request)
		out <- Result{Response: resp, Err: err}
	}()
	return out
}

// Await waits for the outcome of [Transport.Go].
func Await(ctx context.Context, results <-chan Result) (*Response, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-results:
		return r.Response, r.Err
	}
}
