// File: timer.go
// Title: Operation Timer
// Description: Measures an operation and logs its duration on Stop.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-14
// Modified: 2026-09-14
//
// Change History:
// - 2026-09-14 v0.1.0: Initial implementation

package log

import (
	"time"
)

// Timer measures the duration of an operation
type Timer struct {
	logger    *Logger
	operation string
	level     Level
	fields    Fields
	start     time.Time
	stopped   bool
}

// NewTimer starts a timer logging through logger
func NewTimer(logger *Logger, operation string) *Timer {
	return &Timer{
		logger:    logger,
		operation: operation,
		level:     LevelDebug,
		fields:    make(Fields),
		start:     time.Now(),
	}
}

// WithLevel sets the level the completion entry is logged at
func (t *Timer) WithLevel(level Level) *Timer {
	t.level = level
	return t
}

// WithField adds a field to the completion entry
func (t *Timer) WithField(key string, value interface{}) *Timer {
	t.fields[key] = value
	return t
}

// Elapsed returns the time since the timer started
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Stop logs the completion and returns the elapsed time. Subsequent calls
// return the elapsed time without logging again.
func (t *Timer) Stop() time.Duration {
	return t.finish(nil)
}

// StopWithError logs the completion with err attached
func (t *Timer) StopWithError(err error) time.Duration {
	return t.finish(err)
}

func (t *Timer) finish(err error) time.Duration {
	elapsed := t.Elapsed()
	if t.stopped {
		return elapsed
	}
	t.stopped = true

	fields := t.fields.Merge(Fields{"operation": t.operation})
	level := t.level
	msg := t.operation + " completed"
	if err != nil {
		msg = t.operation + " failed"
		if level < LevelWarn {
			level = LevelWarn
		}
	}
	t.logger.log(level, msg, err, elapsed, fields)
	return elapsed
}
