// File: format.go
// Title: Log Format Definitions
// Description: JSON, text and console formatters. The console formatter
//              colors the level tag with fatih/color, which disables itself
//              when stdout is not a terminal.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-14
// Modified: 2026-10-02
//
// Change History:
// - 2026-09-14 v0.1.0: Initial implementation with multiple output formats
// - 2026-10-02 v0.2.0: Console colors via fatih/color, deterministic field order

package log

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Format represents the output format for log messages
type Format int

const (
	// FormatJSON outputs one JSON object per line
	FormatJSON Format = iota

	// FormatText outputs human-readable text
	FormatText

	// FormatConsole outputs text with a colored level tag
	FormatConsole
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatText:
		return "text"
	case FormatConsole:
		return "console"
	default:
		return "unknown"
	}
}

// ParseFormat parses a string into a log format
func ParseFormat(format string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return FormatJSON, nil
	case "text":
		return FormatText, nil
	case "console", "":
		return FormatConsole, nil
	default:
		return FormatJSON, &ParseError{Input: format, Type: "format"}
	}
}

// Formatter renders an entry to bytes, including the trailing newline
type Formatter interface {
	Format(entry *Entry) ([]byte, error)
}

// JSONFormatter formats log entries as JSON
type JSONFormatter struct {
	TimestampFormat string
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{TimestampFormat: time.RFC3339}
}

// Format formats a log entry as JSON
func (f *JSONFormatter) Format(entry *Entry) ([]byte, error) {
	data := make(map[string]interface{}, len(entry.Fields)+6)

	for k, v := range entry.Fields {
		data[k] = v
	}

	data["timestamp"] = entry.Timestamp.Format(f.TimestampFormat)
	data["level"] = entry.Level.String()
	data["message"] = entry.Message

	if entry.Logger != "" {
		data["logger"] = entry.Logger
	}

	if entry.Error != nil {
		data["error"] = entry.Error.Error()
		if m, ok := entry.Error.(json.Marshaler); ok {
			if raw, err := m.MarshalJSON(); err == nil {
				data["error_details"] = json.RawMessage(raw)
			}
		}
	}

	if entry.Duration > 0 {
		data["duration_ms"] = float64(entry.Duration.Nanoseconds()) / 1e6
	}

	out, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// TextFormatter formats log entries as human-readable text
type TextFormatter struct {
	TimestampFormat  string
	DisableTimestamp bool
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{TimestampFormat: "15:04:05"}
}

// Format formats a log entry as text
func (f *TextFormatter) Format(entry *Entry) ([]byte, error) {
	return []byte(f.render(entry, entry.Level.ShortString()) + "\n"), nil
}

func (f *TextFormatter) render(entry *Entry, levelTag string) string {
	var parts []string

	if !f.DisableTimestamp {
		parts = append(parts, entry.Timestamp.Format(f.TimestampFormat))
	}

	parts = append(parts, "["+levelTag+"]")

	if entry.Logger != "" {
		parts = append(parts, fmt.Sprintf("{%s}", entry.Logger))
	}

	parts = append(parts, entry.Message)

	if len(entry.Fields) > 0 {
		fieldParts := make([]string, 0, len(entry.Fields))
		for _, k := range entry.Fields.Keys() {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%v", k, entry.Fields[k]))
		}
		parts = append(parts, fmt.Sprintf("[%s]", strings.Join(fieldParts, " ")))
	}

	if entry.Error != nil {
		parts = append(parts, fmt.Sprintf("error=%q", entry.Error.Error()))
	}

	if entry.Duration > 0 {
		parts = append(parts, fmt.Sprintf("duration=%s", entry.Duration))
	}

	return strings.Join(parts, " ")
}

// ConsoleFormatter is a TextFormatter with a colored level tag
type ConsoleFormatter struct {
	*TextFormatter
}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{TextFormatter: NewTextFormatter()}
}

var levelColors = map[Level]*color.Color{
	LevelTrace: color.New(color.FgWhite),
	LevelDebug: color.New(color.FgCyan),
	LevelInfo:  color.New(color.FgGreen),
	LevelWarn:  color.New(color.FgYellow),
	LevelError: color.New(color.FgRed),
	LevelFatal: color.New(color.FgMagenta, color.Bold),
}

// Format formats a log entry for console output
func (f *ConsoleFormatter) Format(entry *Entry) ([]byte, error) {
	tag := entry.Level.ShortString()
	if c, ok := levelColors[entry.Level]; ok {
		tag = c.Sprint(tag)
	}
	return []byte(f.render(entry, tag) + "\n"), nil
}

// GetFormatter returns a formatter for the specified format
func GetFormatter(format Format) Formatter {
	switch format {
	case FormatText:
		return NewTextFormatter()
	case FormatConsole:
		return NewConsoleFormatter()
	default:
		return NewJSONFormatter()
	}
}
