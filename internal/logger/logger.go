package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is our internal wrapper around a shared zerolog instance allowing
// us to redirect or silence every logger in the process at once
type Logger struct {
	zl *zerolog.Logger
}

// unexported shared logger
var logger Logger

// init sets the internal shared logger
func init() {
	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().
		Timestamp().
		Logger()

	logger = Logger{
		zl: &zl,
	}
}

// New returns the internal shared logger
func New() Logger {
	return logger
}

// GlobalSetLogFile redirects all loggers to the given file
func GlobalSetLogFile(f *os.File) {
	newZl := logger.zl.Output(f)

	*logger.zl = newZl
}

// Info wrapper around zerolog Info
func (l Logger) Info() *zerolog.Event {
	return l.zl.Info()
}

// Debug wrapper around zerolog Debug
func (l Logger) Debug() *zerolog.Event {
	return l.zl.Debug()
}

// Warn wrapper around zerolog Warn
func (l Logger) Warn() *zerolog.Event {
	return l.zl.Warn()
}

// Error wrapper around zerolog Error
func (l Logger) Error() *zerolog.Event {
	return l.zl.Error()
}

// Fatal wrapper around zerolog Fatal
func (l Logger) Fatal() *zerolog.Event {
	return l.zl.Fatal()
}
