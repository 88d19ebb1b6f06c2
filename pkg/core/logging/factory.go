// ============================================================================
// VibeScript (vbs) - Interpreter & Playground
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating loggers with store integration
// Author:      Mike Stoffels
// Created:     2026-09-21
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	vbslog "github.com/msto63/vibescript/foundation/core/log"
)

var (
	// Global SinkWriter instance (singleton)
	globalSinkWriter *SinkWriter
	sinkWriterMu     sync.RWMutex
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Service name
	ServiceName string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format: "json", "text" or "console" (default: json)
	Format string

	// Output writer (default: stderr)
	Output io.Writer

	// Sink receives JSON log entries in batches (optional)
	Sink LogSink

	// Batching for the sink
	BatchSize   int
	FlushPeriod time.Duration

	// Additional outputs (besides Output and the sink)
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "info",
		Format:      "json",
	}
}

// NewLogger creates a new foundation logger with optional sink integration
func NewLogger(cfg LoggerConfig) *vbslog.Logger {
	level := parseLevel(cfg.Level)

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}

	format, err := vbslog.ParseFormat(strings.ToLower(cfg.Format))
	if err != nil {
		format = vbslog.FormatJSON
	}

	// The sink only understands JSON lines; a human readable primary output
	// gets its own JSON logger behind the same tee.
	if cfg.Sink != nil {
		writer := getOrCreateSinkWriter(cfg)
		if format == vbslog.FormatJSON {
			output = writer
		} else {
			cfg.AdditionalOutputs = append(cfg.AdditionalOutputs, &formatBridge{target: writer})
		}
	}

	logger := vbslog.NewWithConfig(vbslog.Config{
		Level:  level,
		Format: format,
		Output: output,
		Name:   cfg.ServiceName,
	})

	if len(cfg.AdditionalOutputs) > 0 {
		logger = logger.WithFormatter(&teeFormatter{
			primary: vbslog.GetFormatter(format),
			extra:   cfg.AdditionalOutputs,
		})
	}

	return logger
}

// NewSimpleLogger creates a simple logger without sink integration
func NewSimpleLogger(serviceName string) *vbslog.Logger {
	return NewLogger(DefaultLoggerConfig(serviceName))
}

// getOrCreateSinkWriter returns the global SinkWriter, creating it if necessary
func getOrCreateSinkWriter(cfg LoggerConfig) *SinkWriter {
	sinkWriterMu.Lock()
	defer sinkWriterMu.Unlock()

	if globalSinkWriter == nil {
		globalSinkWriter = NewSinkWriter(SinkWriterConfig{
			Sink:        cfg.Sink,
			ServiceName: cfg.ServiceName,
			BatchSize:   cfg.BatchSize,
			FlushPeriod: cfg.FlushPeriod,
			Fallback:    cfg.Output,
		})
	}
	return globalSinkWriter
}

// GetGlobalSinkWriter returns the global SinkWriter instance
func GetGlobalSinkWriter() *SinkWriter {
	sinkWriterMu.RLock()
	defer sinkWriterMu.RUnlock()
	return globalSinkWriter
}

// CloseGlobalSinkWriter flushes and closes the global SinkWriter
func CloseGlobalSinkWriter() error {
	sinkWriterMu.Lock()
	defer sinkWriterMu.Unlock()

	if globalSinkWriter != nil {
		err := globalSinkWriter.Close()
		globalSinkWriter = nil
		return err
	}
	return nil
}

// parseLevel converts a string level to vbslog.Level
func parseLevel(level string) vbslog.Level {
	l, err := vbslog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return vbslog.LevelInfo
	}
	return l
}

// teeFormatter renders with the primary formatter and copies each entry as
// JSON to the extra writers.
type teeFormatter struct {
	primary vbslog.Formatter
	extra   []io.Writer
}

func (f *teeFormatter) Format(entry *vbslog.Entry) ([]byte, error) {
	if len(f.extra) > 0 {
		if line, err := vbslog.NewJSONFormatter().Format(entry); err == nil {
			for _, w := range f.extra {
				w.Write(line)
			}
		}
	}
	return f.primary.Format(entry)
}

// formatBridge hands JSON lines to the sink writer without echoing them to
// its fallback.
type formatBridge struct {
	target *SinkWriter
}

func (b *formatBridge) Write(p []byte) (int, error) {
	b.target.enqueue(p)
	return len(p), nil
}
