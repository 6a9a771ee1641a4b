package cmd

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// logger returns the application logger, built on first use so that flags are parsed.
var logger = sync.OnceValue(func() *slog.Logger {
	return newLogger(os.Stderr, *verbose, os.Getenv("LOG_FORMAT"))
})

// newLogger logs at info level, debug when verbose. LOG_FORMAT=json switches to JSON lines.
func newLogger(w io.Writer, verbose bool, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format(time.RFC3339))
				}
			}
			return a
		},
	}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
