// Package health aggregates component liveness checks for the /health
// endpoint.
package health

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// ComponentHealth is the outcome of one component's check.
type ComponentHealth struct {
	Name        string        `json:"name"`
	Status      Status        `json:"status"`
	Message     string        `json:"message,omitempty"`
	LastChecked time.Time     `json:"last_checked"`
	Duration    time.Duration `json:"duration"`
}

// Report is the full /health payload.
type Report struct {
	Status     Status                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Uptime     string                     `json:"uptime"`
	Components map[string]ComponentHealth `json:"components"`
}

// Checker probes one dependency.
type Checker interface {
	Name() string
	Check(ctx context.Context) ComponentHealth
}

// CheckFunc adapts a function to Checker.
type CheckFunc struct {
	name string
	fn   func(ctx context.Context) ComponentHealth
}

func NewCheckFunc(name string, fn func(ctx context.Context) ComponentHealth) Checker {
	return CheckFunc{name: name, fn: fn}
}

func (c CheckFunc) Name() string                              { return c.name }
func (c CheckFunc) Check(ctx context.Context) ComponentHealth { return c.fn(ctx) }

// Registry holds the registered checkers and runs them concurrently on
// demand. Checks are bounded at five seconds each.
type Registry struct {
	mu       sync.RWMutex
	checkers []Checker
	started  time.Time
}

func NewRegistry() *Registry {
	return &Registry{started: time.Now()}
}

func (r *Registry) Register(c Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers = append(r.checkers, c)
}

func (r *Registry) Check(ctx context.Context) Report {
	r.mu.RLock()
	checkers := make([]Checker, len(r.checkers))
	copy(checkers, r.checkers)
	r.mu.RUnlock()

	components := make(map[string]ComponentHealth, len(checkers))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, c := range checkers {
		wg.Add(1)
		go func(c Checker) {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			ch := c.Check(cctx)
			ch.Name = c.Name()
			mu.Lock()
			components[c.Name()] = ch
			mu.Unlock()
		}(c)
	}
	wg.Wait()

	overall := StatusHealthy
	for _, ch := range components {
		switch ch.Status {
		case StatusUnhealthy:
			overall = StatusUnhealthy
		case StatusDegraded:
			if overall == StatusHealthy {
				overall = StatusDegraded
			}
		}
	}

	return Report{
		Status:     overall,
		Timestamp:  time.Now(),
		Uptime:     time.Since(r.started).Round(time.Second).String(),
		Components: components,
	}
}

// NewHTTPChecker probes a dependency with a GET and treats any response as
// alive: a 4xx from an auth-guarded endpoint still proves reachability.
func NewHTTPChecker(name, url string, client *http.Client) Checker {
	return NewCheckFunc(name, func(ctx context.Context) ComponentHealth {
		start := time.Now()
		ch := ComponentHealth{Status: StatusHealthy, LastChecked: start}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			ch.Status = StatusUnhealthy
			ch.Message = err.Error()
			return ch
		}

		resp, err := client.Do(req)
		ch.Duration = time.Since(start)
		if err != nil {
			ch.Status = StatusUnhealthy
			ch.Message = err.Error()
			return ch
		}
		resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			ch.Status = StatusDegraded
			ch.Message = fmt.Sprintf("endpoint returned %d", resp.StatusCode)
		}
		return ch
	})
}
