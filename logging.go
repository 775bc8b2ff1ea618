package main

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// logger is the process-wide structured logger. It starts at info level on
// stderr so that messages emitted before flag parsing are not lost.
var logger = newLogger(os.Stderr, false)

func newLogger(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// initLogging reconfigures the global logger. Debug output is enabled by the
// -debug flag or by setting QPV_DEBUG=1 in the environment.
func initLogging(w io.Writer, debug bool) {
	if os.Getenv("QPV_DEBUG") == "1" {
		debug = true
	}
	logger = newLogger(w, debug)
}

// debugLog writes a formatted debug line.
func debugLog(format string, args ...interface{}) {
	logger.Debug().Msgf(format, args...)
}
