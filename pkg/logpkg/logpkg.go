// Package logpkg builds the application logger.
//
// The client owns the terminal for its menus, so logs go to a file
// rather than stdout.
package logpkg

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/tebucks/tebucks-cli/pkg/configpkg"
)

// New returns the configured logger and a closer for its output file.
// The closer is nil when logging falls back to stderr.
func New(config configpkg.Config) (zerolog.Logger, io.Closer, error) {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	var (
		output io.Writer = os.Stderr
		closer io.Closer
	)

	if config.LogFile != "" {
		f, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, err
		}

		output = f
		closer = f
	}

	logLevel := zerolog.InfoLevel

	log := zerolog.New(output).
		Level(logLevel).
		With().
		Timestamp().
		Logger()

	if config.Environement == "development" {
		log = log.
			Output(zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339, NoColor: true}).
			Level(zerolog.TraceLevel).
			With().
			Caller().
			Logger()
	}

	return log, closer, nil
}
