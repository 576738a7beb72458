// Package scheduler provides the fixed-cadence tick that drives console
// flushes, decoupling inbound data rate from display refresh rate.
package scheduler

import (
	"sync"
	"time"
)

// DefaultInterval approximates the desktop console's 24 Hz refresh.
const DefaultInterval = 42 * time.Millisecond

// Ticker invokes a callback at a fixed interval until stopped.
type Ticker struct {
	interval time.Duration
	fn       func()

	mu      sync.Mutex
	stop    chan struct{}
	running bool
}

// New creates a stopped ticker calling fn every interval.
func New(interval time.Duration, fn func()) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Ticker{interval: interval, fn: fn}
}

// Start begins ticking. Calling Start on a running ticker is a no-op.
func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return
	}
	t.running = true
	t.stop = make(chan struct{})

	go t.run(t.stop)
}

func (t *Ticker) run(stop chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.fn()
		case <-stop:
			return
		}
	}
}

// Stop halts ticking. Safe to call on a stopped ticker.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}
	t.running = false
	close(t.stop)
}

// Running reports whether the ticker is active.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}
