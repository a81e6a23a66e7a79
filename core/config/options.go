package config

import (
	"maps"
	"time"
)

// Option overrides one or more Config fields.
type Option func(*Config)

// WithAPIBase sets the gateway root URL.
func WithAPIBase(url string) Option {
	return func(c *Config) {
		c.APIBase = url
	}
}

// WithLoginURL sets the login endpoint.
func WithLoginURL(url string) Option {
	return func(c *Config) {
		c.LoginURL = url
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithMaxRetries sets how many retries follow the first failed attempt.
func WithMaxRetries(retries int) Option {
	return func(c *Config) {
		c.MaxRetries = retries
	}
}

// WithRetryDelay sets the sleep before the first retry.
func WithRetryDelay(delay time.Duration) Option {
	return func(c *Config) {
		c.RetryDelay = delay
	}
}

// WithBackoffFactor sets the exponential growth of the retry delay.
func WithBackoffFactor(factor float64) Option {
	return func(c *Config) {
		c.BackoffFactor = factor
	}
}

// WithRateLimit allows requests dispatches per trailing period.
func WithRateLimit(requests int, period time.Duration) Option {
	return func(c *Config) {
		c.RateLimitRequests = requests
		c.RateLimitPeriod = period
	}
}

// WithHeader sets a single default header.
func WithHeader(key, value string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = map[string]string{}
		}
		c.Headers[key] = value
	}
}

// WithHeaders merges headers into the defaults; existing keys are overwritten.
func WithHeaders(headers map[string]string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = map[string]string{}
		}
		maps.Copy(c.Headers, headers)
	}
}
