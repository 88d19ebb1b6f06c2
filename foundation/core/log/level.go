// File: level.go
// Title: Log Levels
// Description: Log level definitions, parsing and filtering.
// Author: msto63
// Version: v0.1.0
// Created: 2026-09-14
// Modified: 2026-09-14
//
// Change History:
// - 2026-09-14 v0.1.0: Initial implementation

package log

import (
	"strings"
)

// Level represents the severity of a log entry
type Level int

const (
	// LevelTrace logs every evaluation step
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// String returns the lower-case level name
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// ShortString returns the three-letter level tag used by the text formatter
func (l Level) ShortString() string {
	switch l {
	case LevelTrace:
		return "TRC"
	case LevelDebug:
		return "DBG"
	case LevelInfo:
		return "INF"
	case LevelWarn:
		return "WRN"
	case LevelError:
		return "ERR"
	case LevelFatal:
		return "FTL"
	default:
		return "???"
	}
}

// ShouldLog returns true if an entry at this level passes minLevel
func (l Level) ShouldLog(minLevel Level) bool {
	return l >= minLevel
}

// ParseLevel parses a level name. Unknown names return LevelInfo and an error.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "trc":
		return LevelTrace, nil
	case "debug", "dbg":
		return LevelDebug, nil
	case "info", "inf", "":
		return LevelInfo, nil
	case "warn", "wrn", "warning":
		return LevelWarn, nil
	case "error", "err":
		return LevelError, nil
	case "fatal", "ftl":
		return LevelFatal, nil
	default:
		return LevelInfo, &ParseError{Input: level, Type: "level"}
	}
}

// ParseError is returned for unparsable level or format names
type ParseError struct {
	Input string
	Type  string
}

func (e *ParseError) Error() string {
	return "invalid " + e.Type + ": " + e.Input
}

// DefaultLevel returns the level used by New
func DefaultLevel() Level {
	return LevelInfo
}
