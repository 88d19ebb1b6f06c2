// ============================================================================
// VibeScript (vbs) - Interpreter & Playground
// ============================================================================
//
// Package:     logging
// Description: Key/value logger used by the CLI and the playground shell
// Author:      Mike Stoffels
// Created:     2026-09-21
// License:     MIT
// ============================================================================

package logging

import (
	vbslog "github.com/msto63/vibescript/foundation/core/log"
)

// Level represents log severity for the key/value wrapper
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Logger wraps the foundation logger with a key/value call style
type Logger struct {
	*vbslog.Logger
	name string
}

// New creates a key/value logger with the default configuration
func New(name string) *Logger {
	return &Logger{
		Logger: NewSimpleLogger(name),
		name:   name,
	}
}

// Wrap adapts an existing foundation logger
func Wrap(logger *vbslog.Logger, name string) *Logger {
	return &Logger{
		Logger: logger.WithName(name),
		name:   name,
	}
}

// Foundation returns the underlying foundation logger
func (l *Logger) Foundation() *vbslog.Logger {
	return l.Logger
}

// WithLevel returns a new logger with the specified level
func (l *Logger) WithLevel(level Level) *Logger {
	vbsLevel := vbslog.LevelInfo
	switch level {
	case LevelDebug:
		vbsLevel = vbslog.LevelDebug
	case LevelInfo:
		vbsLevel = vbslog.LevelInfo
	case LevelWarn:
		vbsLevel = vbslog.LevelWarn
	case LevelError:
		vbsLevel = vbslog.LevelError
	}

	return &Logger{
		Logger: l.Logger.WithLevel(vbsLevel),
		name:   l.name,
	}
}

// Debug logs a debug message with key-value pairs
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.Debug(msg, toFields(keysAndValues...))
}

// Info logs an info message with key-value pairs
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.Info(msg, toFields(keysAndValues...))
}

// Warn logs a warning message with key-value pairs
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.Logger.Warn(msg, toFields(keysAndValues...))
}

// Error logs an error message with key-value pairs
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.Logger.Error(msg, toFields(keysAndValues...))
}

// toFields converts key-value pairs to vbslog.Fields
func toFields(keysAndValues ...interface{}) vbslog.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(vbslog.Fields)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
