package session

import (
	"log/slog"
	"net/http"

	"github.com/leofalp/puter-go/core/config"
	"github.com/leofalp/puter-go/core/registry"
	"github.com/leofalp/puter-go/core/transport"
	"github.com/leofalp/puter-go/providers/memory"
	"github.com/leofalp/puter-go/providers/observability"
)

// Option configures a Session built by [New].
type Option func(*options)

type options struct {
	cfg          *config.Config
	cfgOverrides []config.Option
	username     string
	password     string
	token        string
	registry     *registry.Registry
	model        string
	memory       memory.Provider
	observer     observability.Provider
	transport    []transport.Option
}

// WithConfig sets the configuration the session starts from. It is copied;
// without it the session uses config.New defaults, never the process-wide
// instance.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithConfigOverrides applies private overrides on top of the base
// configuration. The base value is left untouched.
func WithConfigOverrides(opts ...config.Option) Option {
	return func(o *options) {
		o.cfgOverrides = append(o.cfgOverrides, opts...)
	}
}

// WithCredentials sets the username and password used by Login.
func WithCredentials(username, password string) Option {
	return func(o *options) {
		o.username = username
		o.password = password
	}
}

// WithToken starts the session authenticated with token.
func WithToken(token string) Option {
	return func(o *options) {
		o.token = token
	}
}

// WithRegistry sets the model registry. Defaults to [registry.Builtin].
func WithRegistry(r *registry.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithModel sets the initial model. Unlike SetModel it is not checked against
// the registry; unknown models are served by the default driver.
func WithModel(model string) Option {
	return func(o *options) {
		o.model = model
	}
}

// WithMemory sets the transcript store. Defaults to an in-memory store.
func WithMemory(m memory.Provider) Option {
	return func(o *options) {
		o.memory = m
	}
}

// WithObserver records spans, metrics and log events for login and chat calls.
func WithObserver(observer observability.Provider) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithHTTPClient sets the HTTP client used for every attempt.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.transport = append(o.transport, transport.WithHTTPClient(client))
	}
}

// WithLogger sets the logger used by the transport.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.transport = append(o.transport, transport.WithLogger(logger))
	}
}

// WithMetrics records Prometheus transport metrics.
func WithMetrics(metrics *transport.Metrics) Option {
	return func(o *options) {
		o.transport = append(o.transport, transport.WithMetrics(metrics))
	}
}

// WithMiddleware adds transport middlewares that run once per logical request.
func WithMiddleware(middlewares ...transport.Middleware) Option {
	return func(o *options) {
		o.transport = append(o.transport, transport.WithMiddleware(middlewares...))
	}
}

// WithTransportOptions passes options straight to the transport, for example
// transport.WithSender in tests.
func WithTransportOptions(opts ...transport.Option) Option {
	return func(o *options) {
		o.transport = append(o.transport, opts...)
	}
}
