// File: error.go
// Title: Core Error Implementation
// Description: Implements the Error type carrying a code, a severity, details,
//              the failing operation and an optional 1-based source position.
//              Compatible with the standard error interface and errors.As.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-14
// Modified: 2026-10-02
//
// Change History:
// - 2026-09-14 v0.1.0: Initial implementation with contextual errors
// - 2026-10-02 v0.2.0: Source positions, dropped stack trace capture

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxErrorChainDepth limits the depth of error wrapping
const MaxErrorChainDepth = 15

// Error represents a structured error with code, severity and position
type Error struct {
	message   string
	cause     error
	code      Code
	severity  Severity
	timestamp time.Time

	details   map[string]interface{}
	operation string

	// 1-based source position, zero when unknown
	line   int
	column int
}

// New creates a new Error with the given message
func New(message string) *Error {
	return &Error{
		message:   message,
		code:      CodeUnknown,
		severity:  SeverityMedium,
		timestamp: time.Now(),
		details:   make(map[string]interface{}),
	}
}

// Newf creates a new Error with a formatted message
func Newf(format string, args ...interface{}) *Error {
	return New(fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with additional context. Code, severity,
// position and details of a wrapped *Error are carried over.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	if depth := chainDepth(err); depth >= MaxErrorChainDepth {
		return &Error{
			message:   fmt.Sprintf("%s (chain truncated at depth %d): %s", message, MaxErrorChainDepth, rootOf(err).Error()),
			code:      CodeUnknown,
			severity:  SeverityHigh,
			timestamp: time.Now(),
			details:   map[string]interface{}{"truncated": true, "original_depth": depth},
		}
	}

	var vErr *Error
	if errors.As(err, &vErr) {
		wrapped := &Error{
			message:   message,
			cause:     err,
			code:      vErr.code,
			severity:  vErr.severity,
			timestamp: time.Now(),
			details:   make(map[string]interface{}, len(vErr.details)),
			line:      vErr.line,
			column:    vErr.column,
		}
		for k, v := range vErr.details {
			wrapped.details[k] = v
		}
		return wrapped
	}

	return &Error{
		message:   message,
		cause:     err,
		code:      CodeUnknown,
		severity:  SeverityMedium,
		timestamp: time.Now(),
		details:   make(map[string]interface{}),
	}
}

func chainDepth(err error) int {
	depth := 0
	for current := err; current != nil && depth < MaxErrorChainDepth*2; depth++ {
		current = errors.Unwrap(current)
	}
	return depth
}

func rootOf(err error) error {
	last := err
	for current := err; current != nil; current = errors.Unwrap(current) {
		last = current
	}
	return last
}

// Error implements the standard error interface
func (e *Error) Error() string {
	msg := e.message
	if e.line > 0 && e.cause == nil {
		msg = fmt.Sprintf("%s at line %d, column %d", msg, e.line, e.column)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", msg, e.cause.Error())
	}
	return msg
}

// Unwrap returns the underlying cause for error unwrapping
func (e *Error) Unwrap() error {
	return e.cause
}

// WithCode sets the error code. The severity follows the code unless it was
// set explicitly before.
func (e *Error) WithCode(code Code) *Error {
	e.code = code
	if e.severity == SeverityMedium {
		e.severity = DefaultSeverity(code)
	}
	return e
}

// WithSeverity sets the error severity
func (e *Error) WithSeverity(severity Severity) *Error {
	e.severity = severity
	return e
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	e.details[key] = value
	return e
}

// WithOperation sets the operation that caused the error
func (e *Error) WithOperation(operation string) *Error {
	e.operation = operation
	return e
}

// WithPosition attaches a 1-based source position
func (e *Error) WithPosition(line, column int) *Error {
	e.line = line
	e.column = column
	return e
}

// Message returns the bare message without position or cause
func (e *Error) Message() string {
	return e.message
}

// Code returns the error code
func (e *Error) Code() Code {
	return e.code
}

// Severity returns the error severity
func (e *Error) Severity() Severity {
	return e.severity
}

// Timestamp returns when the error occurred
func (e *Error) Timestamp() time.Time {
	return e.timestamp
}

// Details returns a copy of the error details
func (e *Error) Details() map[string]interface{} {
	result := make(map[string]interface{}, len(e.details))
	for k, v := range e.details {
		result[k] = v
	}
	return result
}

// Detail returns a single detail value
func (e *Error) Detail(key string) (interface{}, bool) {
	v, ok := e.details[key]
	return v, ok
}

// Operation returns the operation that caused the error
func (e *Error) Operation() string {
	return e.operation
}

// Line returns the 1-based line, or 0 if no position is known
func (e *Error) Line() int {
	return e.line
}

// Column returns the 1-based column, or 0 if no position is known
func (e *Error) Column() int {
	return e.column
}

// HasPosition reports whether a source position is attached
func (e *Error) HasPosition() bool {
	return e.line > 0
}

// RootCause returns the root cause of the error chain
func (e *Error) RootCause() error {
	return rootOf(e)
}

// String returns a detailed multi-line representation of the error
func (e *Error) String() string {
	parts := []string{
		fmt.Sprintf("Error: %s", e.message),
		fmt.Sprintf("Code: %s", e.code),
		fmt.Sprintf("Severity: %s", e.severity),
		fmt.Sprintf("Timestamp: %s", e.timestamp.Format(time.RFC3339)),
	}

	if e.line > 0 {
		parts = append(parts, fmt.Sprintf("Position: %d:%d", e.line, e.column))
	}
	if e.operation != "" {
		parts = append(parts, fmt.Sprintf("Operation: %s", e.operation))
	}
	if len(e.details) > 0 {
		detailStrs := make([]string, 0, len(e.details))
		for k, v := range e.details {
			detailStrs = append(detailStrs, fmt.Sprintf("%s=%v", k, v))
		}
		parts = append(parts, fmt.Sprintf("Details: {%s}", strings.Join(detailStrs, ", ")))
	}
	if e.cause != nil {
		parts = append(parts, fmt.Sprintf("Cause: %s", e.cause.Error()))
	}

	return strings.Join(parts, "\n")
}

// MarshalJSON implements json.Marshaler for structured logging and the HTTP API
func (e *Error) MarshalJSON() ([]byte, error) {
	data := map[string]interface{}{
		"message":   e.message,
		"code":      e.code,
		"severity":  e.severity.String(),
		"timestamp": e.timestamp.Format(time.RFC3339),
	}

	if len(e.details) > 0 {
		data["details"] = e.details
	}
	if e.line > 0 {
		data["line"] = e.line
		data["column"] = e.column
	}
	if e.operation != "" {
		data["operation"] = e.operation
	}
	if e.cause != nil {
		data["cause"] = e.cause.Error()
	}

	return json.Marshal(data)
}

// HasCode checks if an error (or any error in its chain) has the given code
func HasCode(err error, code Code) bool {
	for current := err; current != nil; current = errors.Unwrap(current) {
		if vErr, ok := current.(*Error); ok && vErr.code == code {
			return true
		}
	}
	return false
}

// GetCode returns the code of the outermost *Error in the chain, or CodeUnknown
func GetCode(err error) Code {
	var vErr *Error
	if errors.As(err, &vErr) {
		return vErr.code
	}
	return CodeUnknown
}

// GetSeverity returns the severity of the outermost *Error in the chain
func GetSeverity(err error) Severity {
	var vErr *Error
	if errors.As(err, &vErr) {
		return vErr.severity
	}
	return SeverityMedium
}

// As returns err as *Error, wrapping foreign errors with CodeInternal
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var vErr *Error
	if errors.As(err, &vErr) {
		return vErr
	}
	return Wrap(err, "internal error").WithCode(CodeInternal)
}
