// Package logger emits one JSON line per event, tagged with the service name.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

type Logger struct {
	zl zerolog.Logger
}

func New(service string) *Logger {
	host, _ := os.Hostname()
	zl := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", service).
		Str("hostname", host).
		Logger()
	return &Logger{zl: zl}
}

func (l *Logger) Info(action string, fields map[string]any) {
	l.zl.Info().Fields(fields).Msg(action)
}

func (l *Logger) Debug(action string, fields map[string]any) {
	l.zl.Debug().Fields(fields).Msg(action)
}

func (l *Logger) Warn(action string, fields map[string]any) {
	l.zl.Warn().Fields(fields).Msg(action)
}

func (l *Logger) Error(action string, err error, fields map[string]any) {
	l.zl.Error().Err(err).Fields(fields).Msg(action)
}
