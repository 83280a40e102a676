package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestManagerAggregatesChecks(t *testing.T) {
	m := NewManager("test", WithTimeout(time.Second))
	m.Register(NewDatabaseChecker("db", func(ctx context.Context) error { return nil }))
	m.Register(CheckFunc{CheckName: "custom", Fn: func(ctx context.Context) *Check {
		return &Check{Name: "custom", Status: StatusHealthy}
	}})

	report := m.Check(context.Background())
	if report.Status != StatusHealthy {
		t.Errorf("expected healthy, got %s", report.Status)
	}
	if len(report.Checks) != 2 {
		t.Errorf("expected 2 checks, got %d", len(report.Checks))
	}
}

func TestManagerUnhealthyDominates(t *testing.T) {
	m := NewManager("test")
	m.Register(NewDatabaseChecker("db", func(ctx context.Context) error { return nil }))
	m.Register(NewDatabaseChecker("replica", func(ctx context.Context) error {
		return errors.New("connection refused")
	}))

	report := m.Check(context.Background())
	if report.Status != StatusUnhealthy {
		t.Errorf("expected unhealthy, got %s", report.Status)
	}
}

func TestNilCheckBecomesUnhealthy(t *testing.T) {
	m := NewManager("test")
	m.Register(CheckFunc{CheckName: "broken", Fn: func(ctx context.Context) *Check { return nil }})

	report := m.Check(context.Background())
	if report.Status != StatusUnhealthy {
		t.Errorf("nil check result should read as unhealthy, got %s", report.Status)
	}
}
