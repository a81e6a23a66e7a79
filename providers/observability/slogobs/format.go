package slogobs

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format is the record encoding of the logger built by [New].
type Format string

const (
	// FormatText is slog's key=value text encoding (default).
	FormatText Format = "text"
	// FormatJSON is one JSON object per record, for log aggregation.
	FormatJSON Format = "json"
)

// ParseFormat parses s case-insensitively. Unknown values yield FormatText.
func ParseFormat(s string) Format {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "json":
		return FormatJSON
	default:
		return FormatText
	}
}

// FormatFromEnv reads PUTER_LOG_FORMAT, then LOG_FORMAT.
func FormatFromEnv() Format {
	if v := os.Getenv("PUTER_LOG_FORMAT"); v != "" {
		return ParseFormat(v)
	}
	return ParseFormat(os.Getenv("LOG_FORMAT"))
}

// LevelTrace sits below slog.LevelDebug.
const LevelTrace = slog.LevelDebug - 4

// ParseLogLevel parses s case-insensitively. "warning" is accepted for warn.
// Unknown values yield slog.LevelInfo.
func ParseLogLevel(s string) slog.Level {
	switch strings.TrimSpace(strings.ToUpper(s)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogLevelFromEnv reads PUTER_LOG_LEVEL, then LOG_LEVEL.
func LogLevelFromEnv() slog.Level {
	if v := os.Getenv("PUTER_LOG_LEVEL"); v != "" {
		return ParseLogLevel(v)
	}
	return ParseLogLevel(os.Getenv("LOG_LEVEL"))
}

// NewLogger builds a slog.Logger writing format records at level to w.
func NewLogger(w io.Writer, format Format, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
