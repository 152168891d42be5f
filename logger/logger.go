package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds the process logger. Development gets the console writer,
// everything else ships JSON lines.
func New(env string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().Timestamp().Logger().Level(zerolog.DebugLevel)
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)
}
