// Package observability provides structured logging for Rubus servers
// and clients.
package observability

import (
	"io"
	"log/slog"
	"os"

	"github.com/m-mizutani/masq"

	"github.com/rubusproject/rubus/internal/config"
)

// GlobalLogLevel is the shared log level, changeable at runtime through
// SetLogLevel/GetLogLevel without reconstructing the logger.
var GlobalLogLevel = &slog.LevelVar{}

// NewLogger creates a new slog.Logger from the provided configuration,
// writing to stdout.
func NewLogger(cfg config.LoggingConfig) *slog.Logger {
	return NewLoggerWithWriter(cfg, os.Stdout)
}

// sensitiveFieldRedactor redacts the Rubus authentication token and
// other credential-shaped fields wherever they appear in log attributes,
// including when a *wire.Request or *rubus.Viewer is logged as a
// structured value.
func sensitiveFieldRedactor() func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(
		masq.WithFieldName("authentication-token"),
		masq.WithFieldName("AuthToken"),
		masq.WithFieldName("token"),
		masq.WithFieldName("Token"),
		masq.WithFieldName("Identity"),
		masq.WithFieldName("viewer"),
	)
}

// NewLoggerWithWriter creates a new slog.Logger that writes to w;
// NewLogger calls it with os.Stdout.
func NewLoggerWithWriter(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	level := parseLevel(cfg.Level)
	GlobalLogLevel.Set(level)

	redactor := sensitiveFieldRedactor()

	opts := &slog.HandlerOptions{
		Level:     GlobalLogLevel,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			return redactor(groups, a)
		},
	}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetLogLevel updates the shared log level at runtime.
func SetLogLevel(level string) {
	GlobalLogLevel.Set(parseLevel(level))
}

// GetLogLevel returns the current shared log level.
func GetLogLevel() slog.Level {
	return GlobalLogLevel.Level()
}
