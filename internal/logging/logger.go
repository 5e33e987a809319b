// Package logging builds the structured logger shared by backuplog components.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Options controls logger construction.
type Options struct {
	// Level is a zerolog level name; unknown values fall back to info.
	Level string

	// Format is "json" (default) or "console".
	Format string

	// Writer receives log output. Defaults to stderr.
	Writer io.Writer
}

// NewLogger creates a structured zerolog.Logger with a timestamp on every event.
func NewLogger(opts Options) zerolog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	if opts.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime}
	}

	logger := zerolog.New(w).With().Timestamp().Logger()

	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	return logger.Level(level)
}
