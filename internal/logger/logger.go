package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/workcal/workcal/internal/config"
)

// New builds the service logger: a console writer in development, JSON elsewhere.
func New(cfg *config.Config) zerolog.Logger {
	var out io.Writer = os.Stdout
	if !cfg.IsProduction() && cfg.Primary.Env != "staging" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	return NewWithWriter(out, cfg.Observability)
}

// NewWithWriter builds a logger writing to w with level and service fields from obs.
func NewWithWriter(w io.Writer, obs *config.ObservabilityConfig) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(w).
		Level(obs.LogLevel()).
		With().
		Timestamp().
		Str("service", obs.ServiceName).
		Str("env", obs.Environment).
		Logger()
}

// Bootstrap is the logger used before configuration is available.
func Bootstrap() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
