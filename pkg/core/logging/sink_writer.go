// ============================================================================
// VibeScript (vbs) - Interpreter & Playground
// ============================================================================
//
// Package:     logging
// Description: SinkWriter batches JSON log lines into a persistent log sink
// Author:      Mike Stoffels
// Created:     2026-09-21
// License:     MIT
// ============================================================================

package logging

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// LogEntry is one decoded JSON log line
type LogEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Logger    string                 `json:"logger"`
	Error     string                 `json:"error,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// LogSink persists batches of log entries
type LogSink interface {
	LogBatch(ctx context.Context, entries []LogEntry) (int, error)
}

// SinkWriter implements io.Writer and forwards log lines to a LogSink
type SinkWriter struct {
	serviceName string
	batchSize   int
	flushPeriod time.Duration
	sink        LogSink

	buffer   []LogEntry
	bufferMu sync.Mutex
	flushCh  chan struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
	closed   sync.Once

	fallback io.Writer
	dropped  int64
}

// SinkWriterConfig holds configuration for SinkWriter
type SinkWriterConfig struct {
	Sink        LogSink       // Destination for batched entries
	ServiceName string        // Overrides the logger name of every entry when set
	BatchSize   int           // Number of entries to batch (default: 100)
	FlushPeriod time.Duration // How often to flush (default: 5s)
	Fallback    io.Writer     // Local echo of every line (default: os.Stderr)
}

// NewSinkWriter creates a SinkWriter and starts its flush worker
func NewSinkWriter(cfg SinkWriterConfig) *SinkWriter {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushPeriod <= 0 {
		cfg.FlushPeriod = 5 * time.Second
	}
	if cfg.Fallback == nil {
		cfg.Fallback = os.Stderr
	}

	w := &SinkWriter{
		serviceName: cfg.ServiceName,
		batchSize:   cfg.BatchSize,
		flushPeriod: cfg.FlushPeriod,
		sink:        cfg.Sink,
		buffer:      make([]LogEntry, 0, cfg.BatchSize),
		flushCh:     make(chan struct{}, 1),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
		fallback:    cfg.Fallback,
	}

	go w.flushWorker()

	return w
}

// Write implements io.Writer
func (w *SinkWriter) Write(p []byte) (n int, err error) {
	// Always write to fallback first (for local visibility)
	n, err = w.fallback.Write(p)
	if err != nil {
		return n, err
	}

	w.enqueue(p)
	return len(p), nil
}

// enqueue decodes one JSON line and buffers it; anything else is ignored
func (w *SinkWriter) enqueue(p []byte) {
	entry, ok := decodeEntry(p)
	if !ok {
		return
	}
	if w.serviceName != "" {
		entry.Logger = w.serviceName
	}

	w.bufferMu.Lock()
	w.buffer = append(w.buffer, entry)
	shouldFlush := len(w.buffer) >= w.batchSize
	w.bufferMu.Unlock()

	if shouldFlush {
		select {
		case w.flushCh <- struct{}{}:
		default:
		}
	}
}

// decodeEntry splits the flat JSON object written by the foundation
// formatter into the well known keys and the remaining fields.
func decodeEntry(p []byte) (LogEntry, bool) {
	var raw map[string]interface{}
	if err := json.Unmarshal(p, &raw); err != nil {
		return LogEntry{}, false
	}

	entry := LogEntry{Fields: make(map[string]interface{})}
	for k, v := range raw {
		s, _ := v.(string)
		switch k {
		case "timestamp":
			entry.Timestamp = s
		case "level":
			entry.Level = s
		case "message":
			entry.Message = s
		case "logger":
			entry.Logger = s
		case "error":
			entry.Error = s
		default:
			entry.Fields[k] = v
		}
	}
	if len(entry.Fields) == 0 {
		entry.Fields = nil
	}
	return entry, true
}

// flushWorker periodically flushes the buffer
func (w *SinkWriter) flushWorker() {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.flushPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			w.Flush()
			return
		case <-w.flushCh:
			w.Flush()
		case <-ticker.C:
			w.Flush()
		}
	}
}

// Flush sends buffered entries to the sink
func (w *SinkWriter) Flush() {
	w.bufferMu.Lock()
	if len(w.buffer) == 0 || w.sink == nil {
		w.bufferMu.Unlock()
		return
	}

	entries := make([]LogEntry, len(w.buffer))
	copy(entries, w.buffer)
	w.buffer = w.buffer[:0]
	w.bufferMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	accepted, err := w.sink.LogBatch(ctx, entries)
	if err != nil || accepted < len(entries) {
		w.bufferMu.Lock()
		w.dropped += int64(len(entries) - accepted)
		w.bufferMu.Unlock()
	}
}

// Dropped returns the number of entries the sink rejected
func (w *SinkWriter) Dropped() int64 {
	w.bufferMu.Lock()
	defer w.bufferMu.Unlock()
	return w.dropped
}

// Close performs a final flush and stops the worker
func (w *SinkWriter) Close() error {
	w.closed.Do(func() {
		close(w.stopCh)
	})
	<-w.doneCh
	return nil
}
