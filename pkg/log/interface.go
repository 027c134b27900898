// Package log provides a structured logging interface for RunTrack.
//
// The package defines a minimal, slog-compatible logging interface so that
// the tracking hook and run handle can log through any backend. It ships a
// JSON slog setup with cockroachdb/errors stacktrace extraction, standard
// attribute keys for tracking operations, and a capture logger for tests.
//
// Example usage:
//
//	logger := log.Default().With(
//	    log.RunIDKey, run.ID(),
//	    log.NamespaceKey, "training",
//	)
//	logger.Info("observer attached",
//	    log.SamplingPeriodKey, 20,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Implementations accept alternating key-value field pairs, as slog does.
// With returns a derived logger carrying pre-populated fields.
type Logger interface {
	// Debug logs detailed diagnostic information.
	Debug(msg string, fields ...any)

	// Info logs general operational information.
	Info(msg string, fields ...any)

	// Warn logs potentially problematic situations that do not prevent
	// the run from continuing.
	Warn(msg string, fields ...any)

	// Error logs error conditions. If a field value is an error carrying a
	// cockroachdb stacktrace, the stacktrace is attached to the record.
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
