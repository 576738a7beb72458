package transport

import (
	"fmt"
	"sync"
)

// Loopback reflects every write back as inbound data. It stands in for a
// device in tests and demo deployments. Delivery is asynchronous through a
// single pump goroutine so write order is preserved and a Write never runs
// subscribers on the caller's stack.
type Loopback struct {
	fanout

	ch   chan []byte
	done chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewLoopback creates a connected loopback transport.
func NewLoopback() *Loopback {
	l := &Loopback{
		ch:   make(chan []byte, 64),
		done: make(chan struct{}),
	}
	go l.pump()
	return l
}

func (l *Loopback) pump() {
	for {
		select {
		case data := <-l.ch:
			l.dispatch(data)
		case <-l.done:
			return
		}
	}
}

// Connected reports whether the loopback is still open.
func (l *Loopback) Connected() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return !l.closed
}

// Write queues bytes for reflection back to subscribers.
func (l *Loopback) Write(p []byte) (int, error) {
	l.mu.RLock()
	closed := l.closed
	l.mu.RUnlock()

	if closed {
		return 0, fmt.Errorf("loopback closed")
	}

	dup := make([]byte, len(p))
	copy(dup, p)

	select {
	case l.ch <- dup:
		return len(p), nil
	case <-l.done:
		return 0, fmt.Errorf("loopback closed")
	}
}

// Close stops reflection.
func (l *Loopback) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	close(l.done)
	return nil
}
