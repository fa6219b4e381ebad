// Package applog builds the agent's *slog.Logger from LoggingConfig,
// the way the teacher selects its log output: a JSON handler by
// default, a text handler for local/dev use.
package applog

import (
	"log/slog"
	"os"
	"strings"

	"github.com/netmonagent/snmp-poller/internal/config"
)

// New builds a *slog.Logger per cfg. Unrecognized levels fall back to
// Info rather than erroring — a misconfigured log level should not
// prevent the agent from starting.
func New(cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
