package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8090", cfg.Server.Port)
	assert.Equal(t, 10000, cfg.Console.Scrollback)
	assert.Equal(t, 100, cfg.Console.HistorySize)
	assert.Equal(t, 42*time.Millisecond, cfg.Console.FlushInterval)
	assert.True(t, cfg.Console.ShowTimestamp)
	assert.False(t, cfg.Console.Echo)
	assert.Equal(t, "loopback", cfg.Transport.Kind)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONSOLE_SCROLLBACK", "500")
	t.Setenv("CONSOLE_ECHO", "true")
	t.Setenv("TRANSPORT_KIND", "tcp")
	t.Setenv("TRANSPORT_ADDR", "192.168.1.50:23")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Console.Scrollback)
	assert.True(t, cfg.Console.Echo)
	assert.Equal(t, "tcp", cfg.Transport.Kind)
	assert.Equal(t, "192.168.1.50:23", cfg.Transport.Address)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9000"
console:
  scrollback: 2000
  echo: true
  line_ending: crlf
transport:
  kind: pty
  command: /usr/bin/device-sim
`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 2000, cfg.Console.Scrollback)
	assert.True(t, cfg.Console.Echo)
	assert.Equal(t, "crlf", cfg.Console.LineEnding)
	assert.Equal(t, "pty", cfg.Transport.Kind)
	assert.Equal(t, "/usr/bin/device-sim", cfg.Transport.Command)

	// Unset fields keep their defaults.
	assert.Equal(t, 100, cfg.Console.HistorySize)
	assert.Equal(t, 42*time.Millisecond, cfg.Console.FlushInterval)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
