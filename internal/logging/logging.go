// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New builds a console logger writing to w at the given level string.
// Unknown level strings fall back to info.
func New(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	console := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	return zerolog.New(console).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// NewConsole builds the default stderr logger used by the CLI.
func NewConsole(level string) zerolog.Logger {
	return New(os.Stderr, level)
}
