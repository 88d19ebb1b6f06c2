// File: entry.go
// Title: Log Entry
// Description: The Entry record passed to formatters and the Fields map used
//              to attach structured data to it.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-14
// Modified: 2026-09-14
//
// Change History:
// - 2026-09-14 v0.1.0: Initial implementation

package log

import (
	"sort"
	"time"
)

// Fields holds structured key/value data for a log entry
type Fields map[string]interface{}

// Field creates a single-entry Fields map
func Field(key string, value interface{}) Fields {
	return Fields{key: value}
}

// Err creates a Fields map carrying an error message
func Err(err error) Fields {
	if err == nil {
		return Fields{}
	}
	return Fields{"error": err.Error()}
}

// Merge returns a new map containing f overlaid with other
func (f Fields) Merge(other Fields) Fields {
	result := make(Fields, len(f)+len(other))
	for k, v := range f {
		result[k] = v
	}
	for k, v := range other {
		result[k] = v
	}
	return result
}

// Keys returns the field names in sorted order
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entry is a single log record
type Entry struct {
	Timestamp time.Time
	Level     Level
	Message   string
	Logger    string
	Fields    Fields
	Error     error
	Duration  time.Duration
}

// NewEntry creates an entry stamped with the current time
func NewEntry(level Level, message string) *Entry {
	return &Entry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Fields:    make(Fields),
	}
}
