package application

import (
	"io"
	"log/slog"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// ResolveLogger returns logger, or the process default when nil. Use
// QuietLogger in tests that exercise rejection paths.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func QuietLogger() *slog.Logger {
	return discardLogger
}
