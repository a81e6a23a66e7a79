// Package config holds the settings shared by the puter session and transport:
// gateway endpoints, per-attempt timeout, retry/backoff tuning, rate-limit
// window and the default request headers.
//
// A [Config] is a plain value. Build one with [New] (built-in defaults plus
// options), [Load] (defaults, then .env and PUTER_* environment variables), or
// take the lazily loaded process-wide instance from [Default].
//
//	cfg := config.Load().With(
//	    config.WithTimeout(90*time.Second),
//	    config.WithMaxRetries(5),
//	)
//
// Core packages never reach for [Default] themselves; they consume whatever
// *Config they were constructed with.
package config
