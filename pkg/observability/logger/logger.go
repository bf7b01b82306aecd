package logger

import (
	"context"
)

// Logger defines the structured logging contract used across the service.
// Log methods take a message followed by alternating key-value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With returns a child logger that adds the given key-value pairs to every entry.
	With(args ...any) Logger

	// WithContext returns a child logger carrying the request ID found in ctx, if any.
	WithContext(ctx context.Context) Logger
}

type nopLogger struct{}

// NewNop returns a Logger that discards everything.
func NewNop() Logger { return nopLogger{} }

func (nopLogger) Debug(string, ...any)                  {}
func (nopLogger) Info(string, ...any)                   {}
func (nopLogger) Warn(string, ...any)                   {}
func (nopLogger) Error(string, ...any)                  {}
func (n nopLogger) With(...any) Logger                  { return n }
func (n nopLogger) WithContext(context.Context) Logger { return n }
