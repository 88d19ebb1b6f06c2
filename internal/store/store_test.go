package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	vbslog "github.com/msto63/vibescript/foundation/core/log"
	"github.com/msto63/vibescript/pkg/core/logging"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := New(Config{Path: filepath.Join(t.TempDir(), "nested", "vibe.db")})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_RecordAndGetRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := &Run{
		Origin:     "http",
		SourceHash: "abc",
		Code:       "spill_the_tea 10 / 0;",
		Status:     "failed",
		Output:     "",
		Error:      "division by zero",
		ErrorCode:  "VIBE_RUNTIME",
		Steps:      1,
		DurationMS: 0.25,
	}
	if err := s.RecordRun(ctx, run); err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}
	if run.ID == "" || run.CreatedAt.IsZero() {
		t.Fatalf("RecordRun() did not assign ID/CreatedAt: %+v", run)
	}

	got, err := s.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if got.Code != run.Code || got.Error != run.Error || got.ErrorCode != "VIBE_RUNTIME" {
		t.Errorf("GetRun() = %+v", got)
	}
	if !got.CreatedAt.Equal(run.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, run.CreatedAt)
	}
	if got.Example != "" || got.PendingInput != "" {
		t.Errorf("empty optional columns should read back empty: %+v", got)
	}

	if _, err := s.GetRun(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRun(missing) error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_ListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	for i, status := range []string{"completed", "failed", "completed", "needs_input"} {
		origin := "http"
		if i%2 == 1 {
			origin = "cli"
		}
		run := &Run{
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
			Origin:     origin,
			SourceHash: "h",
			Code:       "x",
			Status:     status,
		}
		if err := s.RecordRun(ctx, run); err != nil {
			t.Fatalf("RecordRun() error = %v", err)
		}
	}

	tests := []struct {
		name   string
		filter RunFilter
		want   int
	}{
		{"all", RunFilter{}, 4},
		{"limit", RunFilter{Limit: 2}, 2},
		{"offset", RunFilter{Limit: 10, Offset: 3}, 1},
		{"status", RunFilter{Status: "completed"}, 2},
		{"origin", RunFilter{Origin: "cli"}, 2},
		{"since", RunFilter{Since: base.Add(90 * time.Second)}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := s.ListRuns(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListRuns() error = %v", err)
			}
			if len(runs) != tt.want {
				t.Errorf("ListRuns() returned %d runs, want %d", len(runs), tt.want)
			}
		})
	}

	runs, _ := s.ListRuns(ctx, RunFilter{})
	if runs[0].Status != "needs_input" {
		t.Errorf("newest run first: got %v", runs[0].Status)
	}
}

func TestSQLiteStore_LogBatchAndStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	accepted, err := s.LogBatch(ctx, []logging.LogEntry{
		{Level: "INFO", Message: "server started", Logger: "vibe", Fields: map[string]interface{}{"addr": ":5000"}},
		{Level: "ERROR", Message: "run failed", Error: "boom"},
		{Level: "INFO"},
	})
	if err != nil {
		t.Fatalf("LogBatch() error = %v", err)
	}
	if accepted != 2 {
		t.Errorf("accepted = %d, want 2", accepted)
	}

	logs, err := s.RecentLogs(ctx, 10)
	if err != nil {
		t.Fatalf("RecentLogs() error = %v", err)
	}
	if len(logs) != 2 || logs[0].Message != "run failed" || logs[0].Error != "boom" {
		t.Errorf("RecentLogs() = %+v", logs)
	}
	if logs[1].Fields["addr"] != ":5000" {
		t.Errorf("Fields = %v", logs[1].Fields)
	}

	s.RecordRun(ctx, &Run{Origin: "http", SourceHash: "h", Code: "x", Status: "completed", DurationMS: 2})
	s.RecordRun(ctx, &Run{Origin: "ws", SourceHash: "h", Code: "x", Status: "failed", DurationMS: 4})

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalRuns != 2 || stats.TotalLogs != 2 {
		t.Errorf("Stats() = %+v", stats)
	}
	if stats.AvgDurationMS != 3 {
		t.Errorf("AvgDurationMS = %v, want 3", stats.AvgDurationMS)
	}
	if stats.RunsByStatus["failed"] != 1 || stats.RunsByOrigin["ws"] != 1 {
		t.Errorf("groups = %v / %v", stats.RunsByStatus, stats.RunsByOrigin)
	}
	if stats.LastRun == nil {
		t.Error("LastRun should be set")
	}
}

func TestSQLiteStore_EmptyStats(t *testing.T) {
	s := newTestStore(t)

	stats, err := s.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalRuns != 0 || stats.LastRun != nil || stats.AvgDurationMS != 0 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestSQLiteStore_Prune(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	old := &Run{CreatedAt: time.Now().Add(-48 * time.Hour), Origin: "cli", SourceHash: "h", Code: "x", Status: "completed"}
	fresh := &Run{Origin: "cli", SourceHash: "h", Code: "x", Status: "completed"}
	s.RecordRun(ctx, old)
	s.RecordRun(ctx, fresh)

	removed, err := s.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := s.GetRun(ctx, old.ID); !errors.Is(err, ErrNotFound) {
		t.Error("old run survived pruning")
	}
	if _, err := s.GetRun(ctx, fresh.ID); err != nil {
		t.Errorf("fresh run was pruned: %v", err)
	}
}

type blockingPruner struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
	err     error
}

func (p *blockingPruner) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	if p.release != nil {
		<-p.release
	}
	return 3, p.err
}

func TestRetention_RunOnce(t *testing.T) {
	pruner := &blockingPruner{}
	r := NewRetention(pruner, RetentionConfig{}, logging.Wrap(vbslog.Discard(), "retention"))

	r.RunOnce()
	r.RunOnce()

	if r.Removed() != 6 || r.Passes() != 2 {
		t.Errorf("Removed() = %d, Passes() = %d", r.Removed(), r.Passes())
	}
}

func TestRetention_SkipsOverlappingPass(t *testing.T) {
	pruner := &blockingPruner{release: make(chan struct{})}
	r := NewRetention(pruner, RetentionConfig{}, logging.Wrap(vbslog.Discard(), "retention"))

	done := make(chan struct{})
	go func() {
		r.RunOnce()
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for !r.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	r.RunOnce()
	close(pruner.release)
	<-done

	pruner.mu.Lock()
	calls := pruner.calls
	pruner.mu.Unlock()
	if calls != 1 {
		t.Errorf("prune calls = %d, want 1", calls)
	}
}

func TestRetention_ErrorDoesNotCount(t *testing.T) {
	pruner := &blockingPruner{err: errors.New("locked")}
	r := NewRetention(pruner, RetentionConfig{}, logging.Wrap(vbslog.Discard(), "retention"))

	r.RunOnce()
	if r.Removed() != 0 || r.Passes() != 1 {
		t.Errorf("Removed() = %d, Passes() = %d", r.Removed(), r.Passes())
	}
}

func TestRetention_StartStop(t *testing.T) {
	r := NewRetention(&blockingPruner{}, RetentionConfig{Interval: time.Hour}, logging.Wrap(vbslog.Discard(), "retention"))

	if err := r.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := r.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if err := r.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}
