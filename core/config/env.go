package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names read by [Load].
const (
	EnvAPIBase           = "PUTER_API_BASE"
	EnvLoginURL          = "PUTER_LOGIN_URL"
	EnvTimeout           = "PUTER_TIMEOUT"
	EnvMaxRetries        = "PUTER_MAX_RETRIES"
	EnvRetryDelay        = "PUTER_RETRY_DELAY"
	EnvBackoffFactor     = "PUTER_BACKOFF_FACTOR"
	EnvRateLimitRequests = "PUTER_RATE_LIMIT_REQUESTS"
	EnvRateLimitPeriod   = "PUTER_RATE_LIMIT_PERIOD"
)

// Load builds a Config from the built-in defaults, a .env file in the working
// directory (if present, never overriding variables already set) and the
// PUTER_* environment variables. Durations are given in seconds and may be
// fractional ("1.5").
//
// A variable that does not parse keeps the default and is reported with
// slog.Warn, so a bad deployment value never prevents the client from starting.
func Load() *Config {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	cfg := New()
	cfg.APIBase = envString(EnvAPIBase, cfg.APIBase)
	cfg.LoginURL = envString(EnvLoginURL, cfg.LoginURL)
	cfg.Timeout = envSeconds(EnvTimeout, cfg.Timeout)
	cfg.MaxRetries = envInt(EnvMaxRetries, cfg.MaxRetries)
	cfg.RetryDelay = envSeconds(EnvRetryDelay, cfg.RetryDelay)
	cfg.BackoffFactor = envFloat(EnvBackoffFactor, cfg.BackoffFactor)
	cfg.RateLimitRequests = envInt(EnvRateLimitRequests, cfg.RateLimitRequests)
	cfg.RateLimitPeriod = envSeconds(EnvRateLimitPeriod, cfg.RateLimitPeriod)
	return cfg
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		warnInvalid(key, raw, fallback)
		return fallback
	}
	return v
}

func envFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		warnInvalid(key, raw, fallback)
		return fallback
	}
	return v
}

func envSeconds(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		warnInvalid(key, raw, fallback)
		return fallback
	}
	return time.Duration(v * float64(time.Second))
}

func warnInvalid(key, raw string, fallback any) {
	slog.Warn("invalid environment value, using default",
		slog.String("variable", key),
		slog.String("value", raw),
		slog.Any("default", fallback),
	)
}
