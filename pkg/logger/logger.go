package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger embeds zerolog.Logger, so callers chain events directly:
// log.Info().Str(...).Msg(...)
type Logger struct {
	zerolog.Logger
}

// New builds a logger at info level. Development gets the human console
// writer, every other environment logs JSON to stdout.
func New(serviceName string, environment string) *Logger {
	return NewWithLevel(serviceName, environment, "info")
}

// NewWithLevel is New with an explicit minimum level. Unrecognized
// levels fall back to info rather than erroring, since the level comes
// from config.
func NewWithLevel(serviceName, environment, level string) *Logger {
	var out io.Writer = os.Stdout
	if environment == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	zl := zerolog.New(out).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	return &Logger{Logger: zl}
}

func parseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}

// WithComponent tags every event from the returned logger with a
// component field, one per subsystem
func (l *Logger) WithComponent(component string) *Logger {
	zl := l.Logger.With().Str("component", component).Logger()
	return &Logger{Logger: zl}
}
