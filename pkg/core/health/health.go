// ============================================================================
// VibeScript (vbs) - Interpreter & Playground
// ============================================================================
//
// Package:     health
// Description: Named component probes with timeouts for the playground server
// Author:      Mike Stoffels
// Created:     2026-09-21
// License:     MIT
// ============================================================================

package health

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Status is the state of one component or of the whole server
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

func (s Status) rank() int {
	switch s {
	case StatusUnhealthy:
		return 2
	case StatusDegraded:
		return 1
	}
	return 0
}

// DefaultTimeout bounds a single probe unless the check sets its own
const DefaultTimeout = 2 * time.Second

// Probe tests one component; a non-nil error marks it as failing
type Probe func(ctx context.Context) error

// Check is a named probe. OnFailure is the status reported when the probe
// fails.
type Check struct {
	Name      string
	Probe     Probe
	OnFailure Status
	Timeout   time.Duration
}

// ErrorCheck fails as unhealthy, for components the server cannot run without
func ErrorCheck(name string, probe Probe) Check {
	return Check{Name: name, Probe: probe, OnFailure: StatusUnhealthy}
}

// OptionalCheck fails as degraded
func OptionalCheck(name string, probe Probe) Check {
	return Check{Name: name, Probe: probe, OnFailure: StatusDegraded}
}

// AlwaysHealthy reports the process itself, which is up whenever it answers
func AlwaysHealthy(name string) Check {
	return Check{Name: name, Probe: func(context.Context) error { return nil }}
}

// Result is the outcome of one check
type Result struct {
	Name       string  `json:"name"`
	Status     Status  `json:"status"`
	Message    string  `json:"message,omitempty"`
	DurationMS float64 `json:"duration_ms"`
}

// Report is the aggregated answer of GET /api/v1/health
type Report struct {
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Status    Status    `json:"status"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
	Checks    []Result  `json:"checks"`
}

func (r *Report) String() string {
	return fmt.Sprintf("%s %s: %s (%d checks)", r.Service, r.Version, r.Status, len(r.Checks))
}

// Registry holds the checks of one server
type Registry struct {
	mu      sync.RWMutex
	checks  map[string]Check
	service string
	version string
	started time.Time
}

// NewRegistry creates an empty registry
func NewRegistry(service, version string) *Registry {
	return &Registry{
		checks:  make(map[string]Check),
		service: service,
		version: version,
		started: time.Now(),
	}
}

// Register adds or replaces the check with the same name
func (r *Registry) Register(check Check) {
	if check.OnFailure == "" {
		check.OnFailure = StatusUnhealthy
	}
	r.mu.Lock()
	r.checks[check.Name] = check
	r.mu.Unlock()
}

// RegisterFunc registers probe as an ErrorCheck
func (r *Registry) RegisterFunc(name string, probe Probe) {
	r.Register(ErrorCheck(name, probe))
}

// Unregister removes a check
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	delete(r.checks, name)
	r.mu.Unlock()
}

// Names returns the registered check names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.checks))
	for name := range r.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check runs all probes in parallel, each bounded by its timeout. The
// overall status is the worst single status.
func (r *Registry) Check(ctx context.Context) *Report {
	r.mu.RLock()
	checks := make([]Check, 0, len(r.checks))
	for _, c := range r.checks {
		checks = append(checks, c)
	}
	r.mu.RUnlock()

	results := make([]Result, len(checks))
	var wg sync.WaitGroup
	for i, c := range checks {
		wg.Add(1)
		go func(i int, c Check) {
			defer wg.Done()
			results[i] = run(ctx, c)
		}(i, c)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })

	report := &Report{
		Service:   r.service,
		Version:   r.version,
		Status:    StatusHealthy,
		Uptime:    time.Since(r.started).Round(time.Second).String(),
		Timestamp: time.Now(),
		Checks:    results,
	}
	for _, res := range results {
		if res.Status.rank() > report.Status.rank() {
			report.Status = res.Status
		}
	}
	return report
}

func run(ctx context.Context, c Check) Result {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	done := make(chan error, 1)
	go func() { done <- c.Probe(ctx) }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = fmt.Errorf("no answer within %s", timeout)
	}

	res := Result{
		Name:       c.Name,
		Status:     StatusHealthy,
		Message:    "OK",
		DurationMS: float64(time.Since(start).Microseconds()) / 1000,
	}
	if err != nil {
		res.Status = c.OnFailure
		res.Message = err.Error()
	}
	return res
}
