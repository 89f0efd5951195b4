package sck

import (
	"os"

	"github.com/rs/zerolog"
)

// logger is used for failures on teardown paths (unlock status codes,
// trampoline disposal, double completions) where no error can be
// returned to the caller. It defaults to warn level on stderr; set
// SCK_LOG_LEVEL to change the level, or replace it with SetLogger.
var logger = newLogger()

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if s := os.Getenv("SCK_LOG_LEVEL"); s != "" {
		if l, err := zerolog.ParseLevel(s); err == nil {
			level = l
		}
	}
	return zerolog.New(os.Stderr).
		Level(level).
		With().
		Timestamp().
		Str("component", "sck").
		Logger()
}

// SetLogger replaces the package logger. Call before creating streams
// or locking buffers; the logger is not synchronized.
func SetLogger(l zerolog.Logger) {
	logger = l
}
