package util

import (
	"context"
	"log/slog"
)

// LevelTrace sits between INFO and WARN so that stage boundaries show up in
// the default output without enabling DEBUG.
const LevelTrace slog.Level = slog.LevelInfo + 1

// Trace logs a pipeline event on the default logger.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// LoggerOrDefault returns l, or the process default logger when l is nil.
func LoggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
