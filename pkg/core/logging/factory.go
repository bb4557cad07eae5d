// ============================================================================
// trump - expression language front-end
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating application loggers
// Author:      abyanmajid
// Created:     2026-10-17
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"

	mdwlog "github.com/abyanmajid/trump/foundation/core/log"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Component name, written as the logger field of every entry
	ServiceName string

	// Log level (trace, debug, info, warn, error, fatal)
	Level string

	// Output format (json, text, console, logfmt). Default: console
	Format string

	// Output defaults to stderr, so stdout stays free for results
	Output io.Writer
}

// NewLogger creates a new Foundation logger
func NewLogger(cfg LoggerConfig) *mdwlog.Logger {
	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}

	return mdwlog.NewWithConfig(mdwlog.Config{
		Level:  parseLevel(cfg.Level),
		Format: parseFormat(cfg.Format),
		Output: output,
		Name:   cfg.ServiceName,
	})
}

func parseLevel(level string) mdwlog.Level {
	if level == "" {
		return mdwlog.LevelWarn
	}
	parsed, err := mdwlog.ParseLevel(level)
	if err != nil {
		return mdwlog.LevelInfo
	}
	return parsed
}

// parseFormat converts a string format to mdwlog.Format, falling back to console
func parseFormat(format string) mdwlog.Format {
	parsed, err := mdwlog.ParseFormat(format)
	if err != nil || format == "" {
		return mdwlog.FormatConsole
	}
	return parsed
}

// Logger wraps the Foundation logger with a key/value API
type Logger struct {
	*mdwlog.Logger
}

// Wrap adapts an existing Foundation logger
func Wrap(name string, logger *mdwlog.Logger) *Logger {
	if logger == nil {
		logger = mdwlog.Discard()
	}
	return &Logger{Logger: logger.WithName(name)}
}

// Debug logs a debug message with key/value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug(msg, toFields(keysAndValues...))
}

// Info logs an info message with key/value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Info(msg, toFields(keysAndValues...))
}

// Warn logs a warning message with key/value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.Logger.Warn(msg, toFields(keysAndValues...))
}

// Error logs an error message with key/value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.Logger.Error(msg, toFields(keysAndValues...))
}

// toFields converts key/value pairs to mdwlog.Fields.
// Non-string keys and a dangling final key are dropped.
func toFields(keysAndValues ...interface{}) mdwlog.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(mdwlog.Fields)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
