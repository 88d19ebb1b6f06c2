// ============================================================================
// VibeScript (vbs) - Interpreter & Playground
// ============================================================================
//
// Package:     store
// Description: SQLite persistence for run history and shipped log entries
// Author:      Mike Stoffels
// Created:     2026-09-22
// License:     MIT
// ============================================================================

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/msto63/vibescript/pkg/core/logging"
)

// ErrNotFound is returned when a run does not exist
var ErrNotFound = errors.New("run not found")

// Run is one recorded program execution
type Run struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Origin       string    `json:"origin"`
	Example      string    `json:"example,omitempty"`
	SourceHash   string    `json:"source_hash"`
	Code         string    `json:"code"`
	Status       string    `json:"status"`
	Output       string    `json:"output"`
	Error        string    `json:"error,omitempty"`
	ErrorCode    string    `json:"error_code,omitempty"`
	PendingInput string    `json:"pending_input,omitempty"`
	Steps        int       `json:"steps"`
	DurationMS   float64   `json:"duration_ms"`
}

// RunFilter defines criteria for listing runs
type RunFilter struct {
	Origin string
	Status string
	Since  time.Time
	Limit  int
	Offset int
}

// Stats summarizes the run history
type Stats struct {
	TotalRuns     int64            `json:"total_runs"`
	RunsByStatus  map[string]int64 `json:"runs_by_status"`
	RunsByOrigin  map[string]int64 `json:"runs_by_origin"`
	AvgDurationMS float64          `json:"avg_duration_ms"`
	TotalLogs     int64            `json:"total_logs"`
	LastRun       *time.Time       `json:"last_run,omitempty"`
}

// LogRecord is a persisted log entry
type LogRecord struct {
	ID        int64                  `json:"id"`
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Logger    string                 `json:"logger"`
	Message   string                 `json:"message"`
	Error     string                 `json:"error,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// RunStore defines the run history operations used by the shell
type RunStore interface {
	RecordRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]*Run, error)
	Stats(ctx context.Context) (*Stats, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Close() error
}

// SQLiteStore implements RunStore and logging.LogSink using SQLite
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// Config holds configuration for the SQLite store
type Config struct {
	Path string
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Path: "./data/vibe.db",
	}
}

var _ logging.LogSink = (*SQLiteStore)(nil)

// New opens (and creates if needed) the SQLite store
func New(cfg Config) (*SQLiteStore, error) {
	if cfg.Path == "" {
		cfg.Path = DefaultConfig().Path
	}

	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLiteStore{db: db}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// initSchema creates the necessary tables
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		origin TEXT NOT NULL,
		example TEXT,
		source_hash TEXT NOT NULL,
		code TEXT NOT NULL,
		status TEXT NOT NULL,
		output TEXT NOT NULL,
		error TEXT,
		error_code TEXT,
		pending_input TEXT,
		steps INTEGER NOT NULL DEFAULT 0,
		duration_ms REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at INTEGER NOT NULL,
		timestamp TEXT NOT NULL,
		level TEXT NOT NULL,
		logger TEXT,
		message TEXT NOT NULL,
		error TEXT,
		fields TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
	CREATE INDEX IF NOT EXISTS idx_runs_source_hash ON runs(source_hash);
	CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_logs_level ON logs(level);
	`

	_, err := s.db.Exec(schema)
	return err
}

// RecordRun stores a run, assigning an ID and timestamp when missing
func (s *SQLiteStore) RecordRun(ctx context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if run.Origin == "" {
		run.Origin = "unknown"
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, origin, example, source_hash, code, status, output,
			error, error_code, pending_input, steps, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.CreatedAt.UnixNano(), run.Origin, nullString(run.Example), run.SourceHash, run.Code,
		run.Status, run.Output, nullString(run.Error), nullString(run.ErrorCode),
		nullString(run.PendingInput), run.Steps, run.DurationMS)

	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

const runColumns = `id, created_at, origin, example, source_hash, code, status, output,
	error, error_code, pending_input, steps, duration_ms`

// GetRun loads a single run
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}
	return run, nil
}

// ListRuns returns runs matching filter, newest first
func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + runColumns + ` FROM runs WHERE 1=1`
	var args []interface{}

	if filter.Origin != "" {
		query += " AND origin = ?"
		args = append(args, filter.Origin)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if !filter.Since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, filter.Since.UnixNano())
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var createdAt int64
	var example, errText, errCode, pending sql.NullString

	if err := row.Scan(&run.ID, &createdAt, &run.Origin, &example, &run.SourceHash, &run.Code,
		&run.Status, &run.Output, &errText, &errCode, &pending, &run.Steps, &run.DurationMS); err != nil {
		return nil, err
	}

	run.CreatedAt = time.Unix(0, createdAt).UTC()
	run.Example = example.String
	run.Error = errText.String
	run.ErrorCode = errCode.String
	run.PendingInput = pending.String
	return &run, nil
}

// LogBatch records shipped log entries; it implements logging.LogSink
func (s *SQLiteStore) LogBatch(ctx context.Context, entries []logging.LogEntry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO logs (created_at, timestamp, level, logger, message, error, fields)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	accepted := 0
	for _, entry := range entries {
		if entry.Message == "" {
			continue
		}
		timestamp := entry.Timestamp
		if timestamp == "" {
			timestamp = now.Format(time.RFC3339Nano)
		}

		var fieldsJSON []byte
		if len(entry.Fields) > 0 {
			fieldsJSON, _ = json.Marshal(entry.Fields)
		}

		if _, err := stmt.ExecContext(ctx, now.UnixNano(), timestamp, entry.Level, entry.Logger,
			entry.Message, nullString(entry.Error), fieldsJSON); err == nil {
			accepted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return accepted, nil
}

// RecentLogs returns the newest persisted log entries
func (s *SQLiteStore) RecentLogs(ctx context.Context, limit int) ([]LogRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, level, logger, message, error, fields
		FROM logs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs: %w", err)
	}
	defer rows.Close()

	var records []LogRecord
	for rows.Next() {
		var rec LogRecord
		var logger, errText, fields sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Level, &logger, &rec.Message, &errText, &fields); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		rec.Logger = logger.String
		rec.Error = errText.String
		if fields.Valid && fields.String != "" {
			json.Unmarshal([]byte(fields.String), &rec.Fields)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Stats returns run history statistics
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Stats{
		RunsByStatus: make(map[string]int64),
		RunsByOrigin: make(map[string]int64),
	}

	var avg sql.NullFloat64
	var last sql.NullInt64
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), AVG(duration_ms), MAX(created_at) FROM runs`).Scan(&stats.TotalRuns, &avg, &last); err != nil {
		return nil, fmt.Errorf("failed to count runs: %w", err)
	}
	stats.AvgDurationMS = avg.Float64
	if last.Valid {
		t := time.Unix(0, last.Int64).UTC()
		stats.LastRun = &t
	}

	if err := s.groupCount(ctx, `SELECT status, COUNT(*) FROM runs GROUP BY status`, stats.RunsByStatus); err != nil {
		return nil, err
	}
	if err := s.groupCount(ctx, `SELECT origin, COUNT(*) FROM runs GROUP BY origin`, stats.RunsByOrigin); err != nil {
		return nil, err
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM logs`).Scan(&stats.TotalLogs); err != nil {
		return nil, fmt.Errorf("failed to count logs: %w", err)
	}

	return stats, nil
}

func (s *SQLiteStore) groupCount(ctx context.Context, query string, into map[string]int64) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to group runs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("failed to scan group: %w", err)
		}
		into[key] = count
	}
	return rows.Err()
}

// Prune removes runs and logs older than the specified duration
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan).UnixNano()

	result1, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	runsDeleted, _ := result1.RowsAffected()

	result2, err := s.db.ExecContext(ctx, `DELETE FROM logs WHERE created_at < ?`, cutoff)
	if err != nil {
		return runsDeleted, fmt.Errorf("failed to prune logs: %w", err)
	}
	logsDeleted, _ := result2.RowsAffected()

	return runsDeleted + logsDeleted, nil
}

// Ping verifies the database connection
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullString(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}
