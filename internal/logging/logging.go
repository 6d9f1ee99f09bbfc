// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global logger with human-readable console output
// on stderr. Verbose switches to debug level.
func Init(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	InitWriter(os.Stderr)
}

// InitWriter installs the console writer on the given sink. The TUI
// uses this to keep log output off the alternate screen.
func InitWriter(w io.Writer) {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

// NewLogger returns a child logger tagged with a component name.
func NewLogger(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}
