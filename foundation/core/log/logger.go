// File: logger.go
// Title: Core Logger Implementation
// Description: The Logger type. Loggers are immutable after construction;
//              every With* method returns a configured clone.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-14
// Modified: 2026-10-02
//
// Change History:
// - 2026-09-14 v0.1.0: Initial implementation with structured logging
// - 2026-10-02 v0.2.0: Dropped async mode, positioned error logging

package log

import (
	"errors"
	"io"
	"os"
	"sync"
	"time"

	vbserr "github.com/msto63/vibescript/foundation/core/error"
)

// Logger represents a structured logger with contextual fields
type Logger struct {
	level     Level
	formatter Formatter
	output    io.Writer
	name      string

	contextFields Fields

	// guards writes to output
	mu *sync.Mutex
}

// Config represents logger configuration
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
	Name   string
}

// New creates a logger writing JSON at info level to stderr
func New() *Logger {
	return &Logger{
		level:         DefaultLevel(),
		formatter:     NewJSONFormatter(),
		output:        os.Stderr,
		contextFields: make(Fields),
		mu:            &sync.Mutex{},
	}
}

// NewWithConfig creates a new logger with the specified configuration
func NewWithConfig(config Config) *Logger {
	logger := New()
	logger.level = config.Level
	logger.formatter = GetFormatter(config.Format)
	logger.name = config.Name
	if config.Output != nil {
		logger.output = config.Output
	}
	return logger
}

// Discard returns a logger that drops every entry
func Discard() *Logger {
	logger := New()
	logger.output = io.Discard
	logger.level = LevelFatal + 1
	return logger
}

// WithLevel returns a clone with the given minimum level
func (l *Logger) WithLevel(level Level) *Logger {
	clone := l.clone()
	clone.level = level
	return clone
}

// WithFormat returns a clone using the given format
func (l *Logger) WithFormat(format Format) *Logger {
	clone := l.clone()
	clone.formatter = GetFormatter(format)
	return clone
}

// WithFormatter returns a clone using a custom formatter
func (l *Logger) WithFormatter(formatter Formatter) *Logger {
	clone := l.clone()
	clone.formatter = formatter
	return clone
}

// WithOutput returns a clone writing to output
func (l *Logger) WithOutput(output io.Writer) *Logger {
	clone := l.clone()
	clone.output = output
	clone.mu = &sync.Mutex{}
	return clone
}

// WithName returns a clone with the given logger name
func (l *Logger) WithName(name string) *Logger {
	clone := l.clone()
	clone.name = name
	return clone
}

// WithField returns a clone adding a persistent field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	clone := l.clone()
	clone.contextFields[key] = value
	return clone
}

// WithFields returns a clone adding persistent fields
func (l *Logger) WithFields(fields Fields) *Logger {
	clone := l.clone()
	for k, v := range fields {
		clone.contextFields[k] = v
	}
	return clone
}

// Trace logs a trace level message
func (l *Logger) Trace(message string, fields ...Fields) {
	l.log(LevelTrace, message, nil, 0, fields...)
}

// Debug logs a debug level message
func (l *Logger) Debug(message string, fields ...Fields) {
	l.log(LevelDebug, message, nil, 0, fields...)
}

// Info logs an info level message
func (l *Logger) Info(message string, fields ...Fields) {
	l.log(LevelInfo, message, nil, 0, fields...)
}

// Warn logs a warning level message
func (l *Logger) Warn(message string, fields ...Fields) {
	l.log(LevelWarn, message, nil, 0, fields...)
}

// Error logs an error level message
func (l *Logger) Error(message string, fields ...Fields) {
	l.log(LevelError, message, nil, 0, fields...)
}

// Fatal logs a fatal level message and exits the program
func (l *Logger) Fatal(message string, fields ...Fields) {
	l.log(LevelFatal, message, nil, 0, fields...)
	os.Exit(1)
}

// ErrorWithErr logs an error with an error object
func (l *Logger) ErrorWithErr(message string, err error, fields ...Fields) {
	l.log(LevelError, message, err, 0, fields...)
}

// WarnWithErr logs a warning with an error object
func (l *Logger) WarnWithErr(message string, err error, fields ...Fields) {
	l.log(LevelWarn, message, err, 0, fields...)
}

// LogError logs err at a level derived from its severity. Script errors
// (low severity) are logged at debug level since they are user input.
func (l *Logger) LogError(err error) {
	if err == nil {
		return
	}

	var vErr *vbserr.Error
	if !errors.As(err, &vErr) {
		l.log(LevelError, err.Error(), err, 0)
		return
	}

	fields := Fields{
		"error_code":     vErr.Code().String(),
		"error_severity": vErr.Severity().String(),
	}
	if vErr.Operation() != "" {
		fields["error_operation"] = vErr.Operation()
	}
	if vErr.HasPosition() {
		fields["line"] = vErr.Line()
		fields["column"] = vErr.Column()
	}
	for k, v := range vErr.Details() {
		fields["error_"+k] = v
	}

	level := LevelError
	switch vErr.Severity() {
	case vbserr.SeverityLow:
		level = LevelDebug
	case vbserr.SeverityMedium:
		level = LevelWarn
	}
	l.log(level, vErr.Message(), err, 0, fields)
}

// StartTimer creates and starts a new timer for an operation
func (l *Logger) StartTimer(operation string) *Timer {
	return NewTimer(l, operation)
}

// IsLevelEnabled returns true if the given level is enabled
func (l *Logger) IsLevelEnabled(level Level) bool {
	return level.ShouldLog(l.level)
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() Level {
	return l.level
}

// Name returns the logger name
func (l *Logger) Name() string {
	return l.name
}

func (l *Logger) log(level Level, message string, err error, duration time.Duration, fields ...Fields) {
	if !level.ShouldLog(l.level) {
		return
	}

	entry := NewEntry(level, message)
	entry.Logger = l.name
	entry.Error = err
	entry.Duration = duration

	for k, v := range l.contextFields {
		entry.Fields[k] = v
	}
	for _, fieldSet := range fields {
		for k, v := range fieldSet {
			entry.Fields[k] = v
		}
	}

	formatted, formatErr := l.formatter.Format(entry)
	if formatErr != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.output.Write(formatted)
}

func (l *Logger) clone() *Logger {
	clone := &Logger{
		level:         l.level,
		formatter:     l.formatter,
		output:        l.output,
		name:          l.name,
		contextFields: make(Fields, len(l.contextFields)),
		mu:            l.mu,
	}
	for k, v := range l.contextFields {
		clone.contextFields[k] = v
	}
	return clone
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = New()
)

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	if logger == nil {
		return
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}
