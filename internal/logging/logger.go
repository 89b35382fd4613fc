// Package logging builds the application logger.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New creates a text logger on stderr. Stdout stays free for documents
// written with "-o -". The "error" key is renamed to "err".
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// Level maps a verbosity count to a slog level.
func Level(verbose int) slog.Level {
	switch {
	case verbose >= 2:
		return slog.LevelDebug - 4
	case verbose == 1:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
