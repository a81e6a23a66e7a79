package config

import (
	"maps"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultAPIBase is the gateway root used for driver calls.
	DefaultAPIBase = "https://api.puter.com"
	// DefaultLoginURL is the endpoint accepting username/password logins.
	DefaultLoginURL = "https://puter.com/login"
	// DefaultTimeout bounds a single HTTP attempt.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRetries is the number of retries after the first failed attempt.
	DefaultMaxRetries = 3
	// DefaultRetryDelay is the sleep before the first retry.
	DefaultRetryDelay = time.Second
	// DefaultBackoffFactor multiplies the delay on every further retry.
	DefaultBackoffFactor = 2.0
	// DefaultRateLimitRequests is the number of dispatches allowed per window.
	DefaultRateLimitRequests = 10
	// DefaultRateLimitPeriod is the length of the rate-limit window.
	DefaultRateLimitPeriod = 60 * time.Second
)

// Config is the full set of client settings. The zero value is not useful;
// use [New], [Load] or [Default].
type Config struct {
	APIBase  string
	LoginURL string

	// Timeout bounds each individual attempt, not the whole retry sequence.
	Timeout time.Duration

	MaxRetries    int
	RetryDelay    time.Duration
	BackoffFactor float64

	// RateLimitRequests dispatches may begin within any trailing RateLimitPeriod.
	// Zero or negative disables throttling.
	RateLimitRequests int
	RateLimitPeriod   time.Duration

	// Headers are sent with every request, login included.
	Headers map[string]string
}

// DefaultHeaders returns a fresh copy of the headers the gateway web app sends.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Accept":          "*/*",
		"Accept-Language": "en-US,en;q=0.9",
		"Connection":      "keep-alive",
		"Origin":          "https://puter.com",
		"Referer":         "https://puter.com/",
		"User-Agent":      "puter-go/0.5 (+https://github.com/leofalp/puter-go)",
	}
}

// New returns a Config holding the built-in defaults with opts applied in order.
// It does not look at the environment.
func New(opts ...Option) *Config {
	cfg := &Config{
		APIBase:           DefaultAPIBase,
		LoginURL:          DefaultLoginURL,
		Timeout:           DefaultTimeout,
		MaxRetries:        DefaultMaxRetries,
		RetryDelay:        DefaultRetryDelay,
		BackoffFactor:     DefaultBackoffFactor,
		RateLimitRequests: DefaultRateLimitRequests,
		RateLimitPeriod:   DefaultRateLimitPeriod,
		Headers:           DefaultHeaders(),
	}
	cfg.Update(opts...)
	return cfg
}

// Update applies opts to c in place. Fields no option touches keep their value.
func (c *Config) Update(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Headers = maps.Clone(c.Headers)
	if out.Headers == nil {
		out.Headers = map[string]string{}
	}
	return &out
}

// With returns a copy of c with opts applied, leaving c untouched. Sessions use
// it to shadow the shared defaults with private overrides.
func (c *Config) With(opts ...Option) *Config {
	out := c.Clone()
	out.Update(opts...)
	return out
}

// DriversCallURL is the endpoint for chat-completion driver calls.
func (c *Config) DriversCallURL() string {
	return strings.TrimRight(c.APIBase, "/") + "/drivers/call"
}

var (
	defaultMu  sync.RWMutex
	defaultCfg *Config
)

// Default returns the process-wide Config, loading it from the environment on
// first use. The returned pointer is shared; prefer Clone or With before
// handing it to code that may mutate it.
func Default() *Config {
	defaultMu.RLock()
	cfg := defaultCfg
	defaultMu.RUnlock()
	if cfg != nil {
		return cfg
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultCfg == nil {
		defaultCfg = Load()
	}
	return defaultCfg
}

// Update mutates the process-wide Config. Only the supplied fields change.
func Update(opts ...Option) {
	cfg := Default()
	defaultMu.Lock()
	cfg.Update(opts...)
	defaultMu.Unlock()
}

// Snapshot returns a copy of the process-wide Config taken under its lock.
func Snapshot() *Config {
	cfg := Default()
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return cfg.Clone()
}

// resetDefault drops the cached process-wide Config. Tests only.
func resetDefault() {
	defaultMu.Lock()
	defaultCfg = nil
	defaultMu.Unlock()
}
