// Package transport provides the device side of the console: byte stream
// carriers that deliver inbound chunks to subscribers and accept outbound
// writes. A carrier reports Connected false once its underlying link drops;
// the console treats that as "sends are no-ops".
package transport

import "sync"

// Transport moves raw bytes between the console and a device.
type Transport interface {
	// Connected reports whether writes can reach the device.
	Connected() bool

	// Write sends bytes to the device, returning how many went out.
	Write(p []byte) (int, error)

	// Subscribe registers a receiver for inbound chunks. Each receiver gets
	// its own copy of every chunk; delivery order follows arrival order.
	Subscribe(fn func(data []byte))

	// Close tears the link down. Safe to call more than once.
	Close() error
}

// fanout is the shared subscriber list used by the concrete transports.
type fanout struct {
	mu   sync.RWMutex
	subs []func([]byte)
}

func (f *fanout) Subscribe(fn func(data []byte)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, fn)
}

// dispatch hands each subscriber its own copy of data.
func (f *fanout) dispatch(data []byte) {
	f.mu.RLock()
	subs := make([]func([]byte), len(f.subs))
	copy(subs, f.subs)
	f.mu.RUnlock()

	for _, fn := range subs {
		dup := make([]byte, len(data))
		copy(dup, data)
		fn(dup)
	}
}
