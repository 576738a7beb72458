package transport

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForChunk(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case data := <-ch:
		return data
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for inbound chunk")
		return nil
	}
}

func TestLoopbackReflectsWrites(t *testing.T) {
	l := NewLoopback()
	defer l.Close()

	received := make(chan []byte, 8)
	l.Subscribe(func(data []byte) { received <- data })

	n, err := l.Write([]byte("ping"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	assert.Equal(t, []byte("ping"), waitForChunk(t, received))
}

func TestLoopbackPreservesWriteOrder(t *testing.T) {
	l := NewLoopback()
	defer l.Close()

	received := make(chan []byte, 8)
	l.Subscribe(func(data []byte) { received <- data })

	for _, msg := range []string{"one", "two", "three"} {
		_, err := l.Write([]byte(msg))
		require.NoError(t, err)
	}

	assert.Equal(t, []byte("one"), waitForChunk(t, received))
	assert.Equal(t, []byte("two"), waitForChunk(t, received))
	assert.Equal(t, []byte("three"), waitForChunk(t, received))
}

func TestLoopbackSubscriberOwnsChunk(t *testing.T) {
	l := NewLoopback()
	defer l.Close()

	received := make(chan []byte, 8)
	l.Subscribe(func(data []byte) { received <- data })

	payload := []byte("mutate-me")
	_, err := l.Write(payload)
	require.NoError(t, err)
	payload[0] = 'X'

	assert.Equal(t, []byte("mutate-me"), waitForChunk(t, received))
}

func TestLoopbackClose(t *testing.T) {
	l := NewLoopback()
	assert.True(t, l.Connected())

	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	assert.False(t, l.Connected())
	_, err := l.Write([]byte("x"))
	assert.Error(t, err)
}

func TestTCPRoundTrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	serverGot := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		// Greet the console, then capture what it sends.
		conn.Write([]byte("READY\n"))
		buf := make([]byte, 64)
		n, err := conn.Read(buf)
		if err == nil {
			serverGot <- buf[:n]
		}
	}()

	received := make(chan []byte, 8)
	tr, err := DialTCP(ln.Addr().String(), nil)
	require.NoError(t, err)
	defer tr.Close()
	tr.Subscribe(func(data []byte) { received <- data })

	assert.True(t, tr.Connected())
	assert.Equal(t, []byte("READY\n"), waitForChunk(t, received))

	n, err := tr.Write([]byte("status\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, []byte("status\r\n"), waitForChunk(t, serverGot))
}

func TestTCPDisconnectedAfterPeerClose(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		conn.Close()
	}()

	tr, err := DialTCP(ln.Addr().String(), nil)
	require.NoError(t, err)
	defer tr.Close()

	require.Eventually(t, func() bool { return !tr.Connected() },
		2*time.Second, 10*time.Millisecond)

	_, err = tr.Write([]byte("x"))
	assert.Error(t, err)
}

func TestTCPDialFailure(t *testing.T) {
	_, err := DialTCP("127.0.0.1:1", nil)
	assert.Error(t, err)
}
