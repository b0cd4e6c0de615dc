// Package ratelimit provides a token-bucket limiter shared by every client
// that talks to the government APIs. The upstreams enforce a low requests-
// per-second quota per service key, so all callers draw from one bucket
// instead of sleeping fixed delays between calls.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter implements token bucket rate limiting.
type Limiter struct {
	tokens   chan struct{}
	interval time.Duration
	mu       sync.Mutex
	ticker   *time.Ticker
	running  bool
}

// New creates a limiter refilling at rps tokens per second with the given
// burst capacity.
func New(rps, burst int) *Limiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = rps
	}

	l := &Limiter{
		tokens:   make(chan struct{}, burst),
		interval: time.Second / time.Duration(rps),
	}
	for i := 0; i < burst; i++ {
		l.tokens <- struct{}{}
	}
	return l
}

// Start begins refilling the bucket.
func (l *Limiter) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return
	}
	l.ticker = time.NewTicker(l.interval)
	l.running = true

	go func() {
		for range l.ticker.C {
			select {
			case l.tokens <- struct{}{}:
			default:
				// Bucket is full, drop token
			}
		}
	}()
}

// Stop halts refilling. Pending Wait calls keep draining remaining tokens.
func (l *Limiter) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return
	}
	l.ticker.Stop()
	l.running = false
}

// Wait blocks until a token is available or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	select {
	case <-l.tokens:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
