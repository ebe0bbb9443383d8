package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Setup installs the process-wide slog logger: text output for development,
// JSON in production.
func Setup(appEnv, logLevel string, out io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(logLevel),
	}

	var handler slog.Handler = slog.NewTextHandler(out, opts)
	if appEnv == "production" {
		handler = slog.NewJSONHandler(out, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func ParseLevel(levelStr string) slog.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARNING", "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
