package ports

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultCheckTimeout bounds one check when the caller's deadline is later.
const DefaultCheckTimeout = 5 * time.Second

// ErrDuplicateChecker is returned when a check name is registered twice.
var ErrDuplicateChecker = errors.New("duplicate health checker")

// HealthChecker reports the health of one component. The quote client
// reports its circuit as "quote-api" and the provider reports its state as
// "quote-provider"; both are registered as Advisory.
type HealthChecker interface {
	Name() string

	// Check returns nil when healthy and must honor ctx.
	Check(ctx context.Context) error
}

// HealthRegistry aggregates the checks behind the readiness probe.
type HealthRegistry interface {
	Register(checker HealthChecker) error
	CheckAll(ctx context.Context) *HealthResult
}

// HealthStatus is the outcome of a check or of the whole registry.
type HealthStatus string

// Health statuses. Degraded marks a failed advisory check.
const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResult is the aggregate of one CheckAll run. Status is unhealthy
// when any check is, otherwise degraded when any advisory check failed.
type HealthResult struct {
	Status    HealthStatus            `json:"status"`
	Checks    map[string]*CheckResult `json:"checks"`
	Timestamp time.Time               `json:"timestamp"`
}

// CheckResult is the outcome of a single check.
type CheckResult struct {
	Status   HealthStatus  `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}

// CheckFunc adapts a function into a named HealthChecker.
type CheckFunc struct {
	CheckName string
	Fn        func(ctx context.Context) error
}

func (f CheckFunc) Name() string { return f.CheckName }

func (f CheckFunc) Check(ctx context.Context) error { return f.Fn(ctx) }

// Advisory wraps checker so a failure is reported as degraded and never
// fails readiness. Upstream outages the service recovers from on its own
// belong here.
func Advisory(checker HealthChecker) HealthChecker {
	return advisoryCheck{checker}
}

type advisoryCheck struct {
	HealthChecker
}

// RegistryOption configures a DefaultHealthRegistry.
type RegistryOption func(*DefaultHealthRegistry)

// WithCheckTimeout overrides DefaultCheckTimeout.
func WithCheckTimeout(d time.Duration) RegistryOption {
	return func(r *DefaultHealthRegistry) {
		if d > 0 {
			r.checkTimeout = d
		}
	}
}

// DefaultHealthRegistry runs its checks concurrently, each under its own
// timeout, so one hung dependency cannot stall the probe.
type DefaultHealthRegistry struct {
	mu           sync.RWMutex
	checkers     []HealthChecker
	names        map[string]struct{}
	checkTimeout time.Duration
}

// NewHealthRegistry creates an empty registry.
func NewHealthRegistry(opts ...RegistryOption) *DefaultHealthRegistry {
	r := &DefaultHealthRegistry{
		names:        make(map[string]struct{}),
		checkTimeout: DefaultCheckTimeout,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds checker. Names must be unique.
func (r *DefaultHealthRegistry) Register(checker HealthChecker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := checker.Name()
	if _, exists := r.names[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateChecker, name)
	}

	r.names[name] = struct{}{}
	r.checkers = append(r.checkers, checker)

	return nil
}

// Len returns the number of registered checks.
func (r *DefaultHealthRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.checkers)
}

// CheckAll runs every check and waits for all of them. A failed check does
// not cancel the others.
func (r *DefaultHealthRegistry) CheckAll(ctx context.Context) *HealthResult {
	r.mu.RLock()
	checkers := append([]HealthChecker(nil), r.checkers...)
	r.mu.RUnlock()

	results := make([]*CheckResult, len(checkers))

	var g errgroup.Group
	for i, checker := range checkers {
		g.Go(func() error {
			results[i] = r.run(ctx, checker)
			return nil
		})
	}

	_ = g.Wait()

	out := &HealthResult{
		Status:    HealthStatusHealthy,
		Checks:    make(map[string]*CheckResult, len(checkers)),
		Timestamp: time.Now(),
	}

	for i, checker := range checkers {
		out.Checks[checker.Name()] = results[i]

		switch {
		case results[i].Status == HealthStatusUnhealthy:
			out.Status = HealthStatusUnhealthy
		case results[i].Status == HealthStatusDegraded && out.Status == HealthStatusHealthy:
			out.Status = HealthStatusDegraded
		}
	}

	return out
}

func (r *DefaultHealthRegistry) run(ctx context.Context, checker HealthChecker) *CheckResult {
	ctx, cancel := context.WithTimeout(ctx, r.checkTimeout)
	defer cancel()

	start := time.Now()
	err := checker.Check(ctx)

	res := &CheckResult{Status: HealthStatusHealthy, Duration: time.Since(start)}
	if err != nil {
		res.Status = HealthStatusUnhealthy
		res.Message = err.Error()

		if _, ok := checker.(advisoryCheck); ok {
			res.Status = HealthStatusDegraded
		}
	}

	return res
}
