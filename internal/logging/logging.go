// Package logging configures the debug log.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DebugLogPath is the fixed path for debug logs.
const DebugLogPath = "timeblock-debug.log"

// Setup configures zerolog for the process. Without debug the returned
// logger discards everything; with debug, JSON entries are written to
// DebugLogPath in the working directory. The returned func closes the file.
func Setup(debug bool) (zerolog.Logger, func(), error) {
	if !debug {
		logger := zerolog.Nop()
		log.Logger = logger
		return logger, func() {}, nil
	}

	f, err := os.Create(DebugLogPath)
	if err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("creating debug log: %w", err)
	}

	logger := SetupWithWriter(true, f)
	logger.Debug().Str("log_file", DebugLogPath).Msg("debug start")
	return logger, func() {
		logger.Debug().Msg("debug end")
		_ = f.Close()
	}, nil
}

// SetupWithWriter configures zerolog to write JSON entries to w.
func SetupWithWriter(debug bool, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(w).With().Timestamp().Logger().Level(level)
	log.Logger = logger
	return logger
}

// Console returns a human readable logger for interactive diagnostics.
func Console(w io.Writer, noColor bool) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: noColor}).
		With().Timestamp().Logger().Level(zerolog.WarnLevel)
}
