package health

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func failWith(msg string) Probe {
	return func(ctx context.Context) error { return errors.New(msg) }
}

func ok(ctx context.Context) error { return nil }

func TestRegistry_OverallStatus(t *testing.T) {
	tests := []struct {
		name   string
		checks []Check
		want   Status
	}{
		{"no checks", nil, StatusHealthy},
		{"all healthy", []Check{ErrorCheck("store", ok), AlwaysHealthy("http")}, StatusHealthy},
		{"optional failing", []Check{ErrorCheck("store", ok), OptionalCheck("catalog", failWith("empty"))}, StatusDegraded},
		{"required failing", []Check{OptionalCheck("catalog", failWith("empty")), ErrorCheck("store", failWith("locked"))}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry("playground", "1.0.0")
			for _, c := range tt.checks {
				registry.Register(c)
			}

			report := registry.Check(context.Background())
			if report.Status != tt.want {
				t.Errorf("Status = %v, want %v", report.Status, tt.want)
			}
			if len(report.Checks) != len(tt.checks) {
				t.Errorf("Checks count = %v, want %v", len(report.Checks), len(tt.checks))
			}
		})
	}
}

func TestRegistry_ResultsAreSortedWithMessages(t *testing.T) {
	registry := NewRegistry("playground", "1.0.0")
	registry.RegisterFunc("store", failWith("database is locked"))
	registry.Register(OptionalCheck("catalog", ok))

	report := registry.Check(context.Background())

	if report.Checks[0].Name != "catalog" || report.Checks[1].Name != "store" {
		t.Fatalf("checks not sorted: %+v", report.Checks)
	}
	if r := report.Checks[0]; r.Status != StatusHealthy || r.Message != "OK" {
		t.Errorf("catalog = %+v", r)
	}
	if r := report.Checks[1]; r.Status != StatusUnhealthy || r.Message != "database is locked" {
		t.Errorf("store = %+v", r)
	}
	if !strings.Contains(report.String(), "playground 1.0.0: unhealthy") {
		t.Errorf("String() = %q", report.String())
	}
	if names := registry.Names(); len(names) != 2 || names[0] != "catalog" {
		t.Errorf("Names() = %v", names)
	}
}

func TestRegistry_RegisterReplacesAndUnregister(t *testing.T) {
	registry := NewRegistry("playground", "1.0.0")
	registry.Register(ErrorCheck("store", failWith("down")))
	registry.Register(ErrorCheck("store", ok))

	if report := registry.Check(context.Background()); report.Status != StatusHealthy || len(report.Checks) != 1 {
		t.Errorf("report = %+v", report)
	}

	registry.Unregister("store")
	if report := registry.Check(context.Background()); len(report.Checks) != 0 {
		t.Errorf("Checks count = %v, want 0", len(report.Checks))
	}
}

func TestRegistry_ZeroOnFailureMeansUnhealthy(t *testing.T) {
	registry := NewRegistry("playground", "1.0.0")
	registry.Register(Check{Name: "raw", Probe: failWith("boom")})

	if report := registry.Check(context.Background()); report.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy", report.Status)
	}
}

func TestRegistry_ProbeTimeout(t *testing.T) {
	slow := func(ctx context.Context) error {
		time.Sleep(time.Second)
		return nil
	}
	registry := NewRegistry("playground", "1.0.0")
	registry.Register(Check{
		Name:      "interpreter",
		Probe:     slow,
		OnFailure: StatusUnhealthy,
		Timeout:   20 * time.Millisecond,
	})

	start := time.Now()
	report := registry.Check(context.Background())

	if d := time.Since(start); d > 500*time.Millisecond {
		t.Errorf("Check took %v, timeout not applied", d)
	}
	if r := report.Checks[0]; r.Status != StatusUnhealthy || !strings.Contains(r.Message, "no answer within") {
		t.Errorf("result = %+v", r)
	}
}

func TestRegistry_ChecksRunConcurrently(t *testing.T) {
	registry := NewRegistry("playground", "1.0.0")

	var counter atomic.Int32
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		registry.RegisterFunc(name, func(ctx context.Context) error {
			counter.Add(1)
			time.Sleep(40 * time.Millisecond)
			return nil
		})
	}

	start := time.Now()
	registry.Check(context.Background())

	if counter.Load() != 5 {
		t.Errorf("counter = %v, want 5", counter.Load())
	}
	if d := time.Since(start); d > 150*time.Millisecond {
		t.Errorf("Duration = %v, expected concurrent execution", d)
	}
}
