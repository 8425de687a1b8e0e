package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/alexanderramin/laststart/internal/config"
)

// Setup builds the process logger. Console format writes human-readable
// lines, anything else writes JSON. w defaults to stderr so command output
// on stdout stays clean.
func Setup(cfg config.LoggingConfig, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.WarnLevel
	}

	out := w
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Component returns a child logger tagged with the component name.
func Component(base zerolog.Logger, name string) zerolog.Logger {
	return base.With().Str("component", name).Logger()
}
