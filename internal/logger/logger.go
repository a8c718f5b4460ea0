// Package logger is the process-wide structured logger. Output goes to
// stderr so stdout carries only energy reports.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.WarnLevel)

type Level int8

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// Init installs a console writer on stderr. debug wins over verbose; with
// neither only warnings and errors are shown.
func Init(debug, verbose bool) {
	SetOutput(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	switch {
	case debug:
		SetLevel(DebugLevel)
	case verbose:
		SetLevel(InfoLevel)
	default:
		SetLevel(WarnLevel)
	}
}

// SetOutput redirects log output, keeping the current level.
func SetOutput(w io.Writer) {
	log = zerolog.New(w).With().Timestamp().Logger().Level(log.GetLevel())
}

func SetLevel(l Level) {
	log = log.Level(zerolog.Level(l))
}

func Debug() *zerolog.Event { return log.Debug() }

func Info() *zerolog.Event { return log.Info() }

func Warn() *zerolog.Event { return log.Warn() }

func Error() *zerolog.Event { return log.Error() }

// With returns a child logger carrying a component field.
func With(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
