// ============================================================================
// VibeScript (vbs) - Interpreter & Playground
// ============================================================================
//
// Package:     store
// Description: Scheduled pruning of old runs and log entries
// Author:      Mike Stoffels
// Created:     2026-09-22
// License:     MIT
// ============================================================================

package store

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/tevino/abool/v2"

	"github.com/msto63/vibescript/pkg/core/logging"
)

// Pruner is the part of the store the retention job needs
type Pruner interface {
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
}

// RetentionConfig holds configuration for the retention job
type RetentionConfig struct {
	MaxAge   time.Duration // default: 30 days
	Interval time.Duration // default: 1h
	Timeout  time.Duration // per prune, default: 30s
}

// Retention periodically prunes the store
type Retention struct {
	pruner    Pruner
	cfg       RetentionConfig
	logger    *logging.Logger
	scheduler gocron.Scheduler
	running   *abool.AtomicBool
	removed   atomic.Int64
	passes    atomic.Int64
}

// NewRetention creates a retention job; call Start to schedule it
func NewRetention(pruner Pruner, cfg RetentionConfig, logger *logging.Logger) *Retention {
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 30 * 24 * time.Hour
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = logging.New("retention")
	}

	return &Retention{
		pruner:  pruner,
		cfg:     cfg,
		logger:  logger,
		running: abool.NewBool(false),
	}
}

// Start schedules the prune task
func (r *Retention) Start() error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	job, err := scheduler.NewJob(
		gocron.DurationJob(r.cfg.Interval),
		gocron.NewTask(r.RunOnce),
	)
	if err != nil {
		scheduler.Shutdown()
		return fmt.Errorf("failed to schedule retention job: %w", err)
	}

	r.scheduler = scheduler
	scheduler.Start()

	r.logger.Info("Retention job scheduled", "job_id", job.ID().String(), "interval", r.cfg.Interval.String(), "max_age", r.cfg.MaxAge.String())
	return nil
}

// RunOnce prunes immediately; a pass that is already running is skipped
func (r *Retention) RunOnce() {
	if !r.running.SetToIf(false, true) {
		r.logger.Debug("Retention pass skipped, previous pass still running")
		return
	}
	defer r.running.UnSet()

	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.Timeout)
	defer cancel()

	removed, err := r.pruner.Prune(ctx, r.cfg.MaxAge)
	r.passes.Add(1)
	if err != nil {
		r.logger.Error("Retention pass failed", "error", err.Error())
		return
	}

	r.removed.Add(removed)
	if removed > 0 {
		r.logger.Info("Retention pass completed", "removed", removed)
	}
}

// Removed returns the total number of rows pruned so far
func (r *Retention) Removed() int64 {
	return r.removed.Load()
}

// Passes returns how many prune passes ran
func (r *Retention) Passes() int64 {
	return r.passes.Load()
}

// IsRunning reports whether a prune pass is in progress
func (r *Retention) IsRunning() bool {
	return r.running.IsSet()
}

// Stop shuts the scheduler down
func (r *Retention) Stop() error {
	if r.scheduler == nil {
		return nil
	}
	err := r.scheduler.Shutdown()
	r.scheduler = nil
	return err
}
