package transport

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
	"go.uber.org/zap"

	"github.com/serialbridge/backend/internal/infrastructure/logging"
)

// PTY runs a local process under a pseudo-terminal and treats its I/O as the
// device stream: console sends become process input, process output arrives
// as inbound chunks. Useful for driving device simulators and local shells.
type PTY struct {
	fanout

	cmd    *exec.Cmd
	ptmx   *os.File
	logger *logging.Logger

	mu     sync.RWMutex
	closed bool
}

// StartPTY launches command under a PTY and starts delivering its output.
// An empty command falls back to $SHELL, then /bin/sh.
func StartPTY(command string, args []string, logger *logging.Logger) (*PTY, error) {
	if logger == nil {
		logger = logging.NewDefault()
	}

	if command == "" {
		command = os.Getenv("SHELL")
		if command == "" {
			command = "/bin/sh"
		}
	}

	cmd := exec.Command(command, args...)
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to start PTY: %w", err)
	}

	p := &PTY{cmd: cmd, ptmx: ptmx, logger: logger}
	go p.readLoop()
	go p.monitorProcess()
	return p, nil
}

func (p *PTY) readLoop() {
	buf := make([]byte, 4096)
	for {
		n, err := p.ptmx.Read(buf)
		if n > 0 {
			p.dispatch(buf[:n])
		}
		if err != nil {
			if err != io.EOF {
				p.logger.Debug("pty read ended", zap.Error(err))
			}
			break
		}
	}
}

func (p *PTY) monitorProcess() {
	p.cmd.Wait()

	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.ptmx.Close()
}

// Connected reports whether the process is still running.
func (p *PTY) Connected() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.closed
}

// Write sends bytes to the process as terminal input.
func (p *PTY) Write(b []byte) (int, error) {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()

	if closed {
		return 0, fmt.Errorf("process exited")
	}
	return p.ptmx.Write(b)
}

// Close kills the process and releases the PTY.
func (p *PTY) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	if p.cmd.Process != nil {
		p.cmd.Process.Kill()
	}
	return p.ptmx.Close()
}
