// Package health exposes liveness and readiness probes for a running arena.
// Readiness aggregates named checks; a stalled tick loop, an overgrown world
// or runaway memory each mark the process unready.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Check is one named probe.
type Check interface {
	Name() string
	Check(ctx context.Context) error
}

// Status is the aggregated result served by the readiness endpoint.
type Status struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentStatus `json:"checks"`
}

// ComponentStatus is the result of a single check.
type ComponentStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Healthy reports whether every check passed.
func (s Status) Healthy() bool {
	return s.Status == "healthy"
}

// Checker runs registered checks.
type Checker struct {
	checks map[string]Check
	mu     sync.RWMutex
}

// NewChecker creates a checker with no checks.
func NewChecker() *Checker {
	return &Checker{checks: make(map[string]Check)}
}

// AddCheck registers check, replacing any with the same name.
func (c *Checker) AddCheck(check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[check.Name()] = check
}

// RemoveCheck removes a check by name.
func (c *Checker) RemoveCheck(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.checks, name)
}

// Run executes every check in name order.
func (c *Checker) Run(ctx context.Context) Status {
	c.mu.RLock()
	checks := make([]Check, 0, len(c.checks))
	for _, check := range c.checks {
		checks = append(checks, check)
	}
	c.mu.RUnlock()
	sort.Slice(checks, func(i, j int) bool { return checks[i].Name() < checks[j].Name() })

	status := Status{Status: "healthy", Checks: make(map[string]ComponentStatus, len(checks))}
	for _, check := range checks {
		if err := check.Check(ctx); err != nil {
			status.Status = "unhealthy"
			status.Checks[check.Name()] = ComponentStatus{Status: "unhealthy", Message: err.Error()}
			continue
		}
		status.Checks[check.Name()] = ComponentStatus{Status: "healthy"}
	}
	return status
}

// LivenessHandler answers 200 while the process can serve requests.
func (c *Checker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ReadinessHandler answers 200 when every check passes and 503 otherwise.
func (c *Checker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := c.Run(ctx)
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

// Handler serves /health and /ready.
func (c *Checker) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", c.LivenessHandler)
	mux.HandleFunc("/ready", c.ReadinessHandler)
	return mux
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// TickCheck fails when the tick counter stops advancing for longer than
// Stall.
type TickCheck struct {
	ticks func() uint64
	stall time.Duration
	now   func() time.Time

	mu       sync.Mutex
	last     uint64
	lastSeen time.Time
}

// NewTickCheck watches ticks, which must be safe to call concurrently.
func NewTickCheck(ticks func() uint64, stall time.Duration) *TickCheck {
	return &TickCheck{ticks: ticks, stall: stall, now: time.Now}
}

// Name returns the name of this health check.
func (t *TickCheck) Name() string {
	return "tick_loop"
}

// Check compares the counter with the value seen on the previous call.
func (t *TickCheck) Check(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	tick := t.ticks()
	if t.lastSeen.IsZero() || tick != t.last {
		t.last = tick
		t.lastSeen = now
		return nil
	}
	if idle := now.Sub(t.lastSeen); idle > t.stall {
		return fmt.Errorf("tick %d has not advanced for %s", tick, idle.Round(time.Millisecond))
	}
	return nil
}

// PopulationCheck fails when the world holds more than Max entities.
type PopulationCheck struct {
	count func() int
	max   int
}

// NewPopulationCheck creates a check over count.
func NewPopulationCheck(max int, count func() int) *PopulationCheck {
	return &PopulationCheck{count: count, max: max}
}

// Name returns the name of this health check.
func (p *PopulationCheck) Name() string {
	return "population"
}

// Check verifies that the entity count is within the limit.
func (p *PopulationCheck) Check(ctx context.Context) error {
	if n := p.count(); n > p.max {
		return fmt.Errorf("%d entities exceeds limit %d", n, p.max)
	}
	return nil
}

// MemoryHealthCheck implements Check for memory usage monitoring.
type MemoryHealthCheck struct {
	maxMemoryMB    int64
	getMemoryUsage func() int64
}

// NewMemoryHealthCheck creates a health check for memory usage.
func NewMemoryHealthCheck(maxMemoryMB int64, getMemoryUsage func() int64) *MemoryHealthCheck {
	return &MemoryHealthCheck{
		maxMemoryMB:    maxMemoryMB,
		getMemoryUsage: getMemoryUsage,
	}
}

// Name returns the name of this health check.
func (m *MemoryHealthCheck) Name() string {
	return "memory"
}

// Check verifies that memory usage is within acceptable limits.
func (m *MemoryHealthCheck) Check(ctx context.Context) error {
	currentMB := m.getMemoryUsage()
	if currentMB > m.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", currentMB, m.maxMemoryMB)
	}
	return nil
}
