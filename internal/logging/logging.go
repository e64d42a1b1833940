// Package logging sets up the project's single zerolog logger, configured
// for human-readable console output in development and plain JSON when
// stdout isn't a terminal.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New builds a logger tagged with the given component name (e.g.
// "crawler" or "indexer") so multi-binary deployments can tell their logs
// apart in aggregate.
func New(component string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var writer io.Writer = os.Stdout
	if isatty(os.Stdout) {
		writer = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}

	return zerolog.New(writer).With().Timestamp().Str("component", component).Logger()
}

func isatty(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
