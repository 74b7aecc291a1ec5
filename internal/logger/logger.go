// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger wraps zerolog.Logger with the constructors and helpers used
// by the care client and the reference remote store.
//
// Application code passes *Logger by pointer. Request-scoped loggers are
// obtained via FromContext or FromRequest; queue code derives per-operation
// loggers via ForOperation.
package logger

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/MKhiriev/go-care-keeper/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// clientLogFile is the file name the client logger appends to. The client
// owns the terminal, so its logs never go to stdout.
const clientLogFile = "care-client.log"

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// NewLogger constructs a JSON *Logger writing to os.Stdout for the given
// role label (e.g. "care-server").
//
// Every entry carries a "role" field, a timestamp and a "func" caller field
// holding the fully-qualified function name.
func NewLogger(role string) *Logger {
	return newLogger(os.Stdout, role)
}

// NewClientLogger constructs a *Logger that appends to care-client.log inside
// dir. An empty dir means the directory of the running executable. If the
// file cannot be opened the logger falls back to os.Stderr.
func NewClientLogger(role, dir string) *Logger {
	if dir == "" {
		execPath, _ := os.Executable()
		dir = filepath.Dir(execPath)
	}

	var out io.Writer = os.Stderr
	logFile, err := os.OpenFile(filepath.Join(dir, clientLogFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err == nil {
		out = logFile
	}

	return newLogger(out, role)
}

func newLogger(out io.Writer, role string) *Logger {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"

	logger := zerolog.New(out).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{logger}
}

// SetLevel parses level (e.g. "info", "warn") and applies it globally.
// Unknown values leave the current level untouched and are reported.
func SetLevel(level string) error {
	if level == "" {
		return nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

// Nop returns a *Logger that discards all output. Used in tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger returns a new *Logger inheriting all fields of the receiver.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// ForOperation returns a child logger annotated with the identifying fields
// of a queued operation.
func (l *Logger) ForOperation(op models.QueuedOperation) *Logger {
	return &Logger{l.With().
		Str("operation_id", op.ID).
		Str("kind", string(op.Kind)).
		Str("table", op.Table).
		Int("retry_count", op.RetryCount).
		Logger()}
}

// FromRequest returns the logger attached to the request context by
// zerolog's WithContext.
func FromRequest(r *http.Request) *Logger {
	return &Logger{*log.Ctx(r.Context())}
}

// FromContext returns the logger attached to ctx. If none is attached zerolog
// hands back its disabled default logger, so the result is never nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
