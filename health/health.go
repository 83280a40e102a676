// Package health provides liveness and readiness checks for the
// CargoExpress service: database connectivity, Redis connectivity, and any
// custom checks the entry point registers.
package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Status represents the health of a component.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// Check is the result of one health check.
type Check struct {
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	Message   string    `json:"message,omitempty"`
	LatencyMs int64     `json:"latency_ms"`
	Timestamp time.Time `json:"timestamp"`
}

// Report is the aggregate of all checks.
type Report struct {
	Status    Status    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Checks    []Check   `json:"checks"`
}

// Checker is one registered health check.
type Checker interface {
	Name() string
	Check(ctx context.Context) *Check
}

// CheckFunc adapts a function to Checker.
type CheckFunc struct {
	CheckName string
	Fn        func(ctx context.Context) *Check
}

func (c CheckFunc) Name() string                     { return c.CheckName }
func (c CheckFunc) Check(ctx context.Context) *Check { return c.Fn(ctx) }

// Manager coordinates health checks.
type Manager struct {
	mu       sync.RWMutex
	checkers []Checker
	version  string
	timeout  time.Duration
}

// Option configures the Manager.
type Option func(*Manager)

// WithTimeout sets the per-report check timeout.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) { m.timeout = d }
}

// NewManager creates a health manager.
func NewManager(version string, opts ...Option) *Manager {
	m := &Manager{
		version: version,
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds a checker.
func (m *Manager) Register(checker Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers = append(m.checkers, checker)
}

// Check runs every checker concurrently and aggregates a report.
func (m *Manager) Check(ctx context.Context) *Report {
	m.mu.RLock()
	checkers := make([]Checker, len(m.checkers))
	copy(checkers, m.checkers)
	m.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	report := &Report{
		Status:    StatusHealthy,
		Version:   m.version,
		Timestamp: time.Now(),
		Checks:    make([]Check, 0, len(checkers)),
	}

	var wg sync.WaitGroup
	results := make(chan *Check, len(checkers))

	for _, checker := range checkers {
		wg.Add(1)
		go func(c Checker) {
			defer wg.Done()
			start := time.Now()
			check := c.Check(ctx)
			if check == nil {
				check = &Check{Name: c.Name(), Status: StatusUnhealthy}
			}
			check.LatencyMs = time.Since(start).Milliseconds()
			check.Timestamp = time.Now()
			results <- check
		}(checker)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for check := range results {
		report.Checks = append(report.Checks, *check)
		if check.Status == StatusUnhealthy {
			report.Status = StatusUnhealthy
		}
	}

	return report
}

// LiveHandler always answers 200; the process is up.
func (m *Manager) LiveHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ReadyHandler runs the full check set and answers 503 when anything is
// unhealthy.
func (m *Manager) ReadyHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		report := m.Check(c.Request().Context())
		code := http.StatusOK
		if report.Status != StatusHealthy {
			code = http.StatusServiceUnavailable
		}
		return c.JSON(code, report)
	}
}

// NewDatabaseChecker wraps a ping function, typically sql.DB.PingContext.
func NewDatabaseChecker(name string, ping func(ctx context.Context) error) Checker {
	return CheckFunc{
		CheckName: name,
		Fn: func(ctx context.Context) *Check {
			check := &Check{Name: name, Status: StatusHealthy}
			if err := ping(ctx); err != nil {
				check.Status = StatusUnhealthy
				check.Message = err.Error()
			}
			return check
		},
	}
}

// NewRedisChecker pings the Redis client.
func NewRedisChecker(client *redis.Client) Checker {
	return CheckFunc{
		CheckName: "redis",
		Fn: func(ctx context.Context) *Check {
			check := &Check{Name: "redis", Status: StatusHealthy}
			if err := client.Ping(ctx).Err(); err != nil {
				check.Status = StatusUnhealthy
				check.Message = err.Error()
			}
			return check
		},
	}
}
