package transport

import (
	"fmt"
	"io"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/serialbridge/backend/internal/infrastructure/logging"
)

// TCP connects the console to a network device (a serial-over-TCP bridge,
// a telnet-style instrument, or anything else speaking raw bytes).
type TCP struct {
	fanout

	conn   net.Conn
	logger *logging.Logger

	mu     sync.RWMutex
	closed bool
}

// DialTCP opens a connection to addr and starts delivering inbound chunks.
func DialTCP(addr string, logger *logging.Logger) (*TCP, error) {
	if logger == nil {
		logger = logging.NewDefault()
	}

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial device at %s: %w", addr, err)
	}

	t := &TCP{conn: conn, logger: logger}
	go t.readLoop()
	return t, nil
}

func (t *TCP) readLoop() {
	buf := make([]byte, 4096)
	for {
		n, err := t.conn.Read(buf)
		if n > 0 {
			t.dispatch(buf[:n])
		}
		if err != nil {
			if err != io.EOF {
				t.logger.Warn("device read failed", zap.Error(err))
			}
			break
		}
	}

	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
}

// Connected reports whether the link is still up.
func (t *TCP) Connected() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return !t.closed
}

// Write sends bytes to the device.
func (t *TCP) Write(p []byte) (int, error) {
	t.mu.RLock()
	closed := t.closed
	t.mu.RUnlock()

	if closed {
		return 0, fmt.Errorf("connection closed")
	}
	return t.conn.Write(p)
}

// Close shuts the connection down.
func (t *TCP) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	return t.conn.Close()
}
