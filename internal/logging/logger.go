// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/task-tracker/internal/config"
)

// New returns a zerolog logger configured for env. Local development gets a
// human readable console writer at trace level.
func New(env string) (zerolog.Logger, error) {
	return NewWithWriter(env, os.Stdout)
}

// NewWithWriter is New with an explicit output.
func NewWithWriter(env string, out io.Writer) (zerolog.Logger, error) {
	zerolog.TimestampFieldName = "timestamp"

	w := out
	var level zerolog.Level
	switch env {
	case config.EnvDev:
		level = zerolog.DebugLevel
	case config.EnvProd:
		level = zerolog.InfoLevel
	case config.EnvLocal:
		level = zerolog.TraceLevel

		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = out
		w = consoleWriter
	default:
		return zerolog.Nop(), fmt.Errorf("unknown env: %s", env)
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger(), nil
}

// ForModule returns a child logger tagged with the module name.
func ForModule(logger zerolog.Logger, module string) zerolog.Logger {
	return logger.With().Str("module", module).Logger()
}
