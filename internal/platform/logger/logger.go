package logger

import (
	"log/slog"
	"os"
)

// New returns a structured logger writing to stdout. Format is "json" for
// machine ingestion or "text" for local development.
func New(format string) *slog.Logger {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	return slog.New(handler)
}
