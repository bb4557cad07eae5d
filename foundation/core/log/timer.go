// File: timer.go
// Title: Operation Timer
// Description: Measures the duration of an operation and logs it on
//              completion.
// Author: abyanmajid
// Version: v0.1.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v0.1.0: Initial implementation

package log

import (
	"time"
)

// Timer measures one operation
type Timer struct {
	logger    *Logger
	operation string
	startTime time.Time
	fields    Fields
	level     Level
	stopped   bool
}

// NewTimer starts a timer for operation that logs through logger
func NewTimer(logger *Logger, operation string) *Timer {
	return &Timer{
		logger:    logger,
		operation: operation,
		startTime: time.Now(),
		fields:    make(Fields),
		level:     LevelDebug,
	}
}

// WithLevel sets the level of the completion message
func (t *Timer) WithLevel(level Level) *Timer {
	t.level = level
	return t
}

// WithField adds a field to the completion message
func (t *Timer) WithField(key string, value interface{}) *Timer {
	t.fields[key] = value
	return t
}

// Stop logs "<operation> completed" at the timer's level and returns the
// elapsed time. Calling Stop more than once returns 0 and logs nothing.
func (t *Timer) Stop() time.Duration {
	if t.stopped {
		return 0
	}
	t.stopped = true
	elapsed := time.Since(t.startTime)

	if t.logger != nil {
		t.fields["operation"] = t.operation
		t.fields["duration_ms"] = float64(elapsed.Nanoseconds()) / 1e6
		t.logger.log(t.level, t.operation+" completed", nil, t.fields)
	}
	return elapsed
}
