package ws

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serialbridge/backend/internal/console"
	"github.com/serialbridge/backend/internal/infrastructure/logging"
	"github.com/serialbridge/backend/internal/infrastructure/monitoring"
)

type fakeTransport struct {
	mu        sync.Mutex
	connected bool
	written   [][]byte
}

func (f *fakeTransport) Connected() bool { return f.connected }

func (f *fakeTransport) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	buf := make([]byte, len(p))
	copy(buf, p)
	f.written = append(f.written, buf)
	return len(p), nil
}

func (f *fakeTransport) Written() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.written...)
}

func dialStream(t *testing.T, session *console.Session) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewHandler(session, monitoring.NewMetrics(), logging.NewNop())
	router := gin.New()
	router.GET("/stream", h.HandleConnection)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame Frame
	require.NoError(t, sonic.Unmarshal(data, &frame))
	return frame
}

func writeFrame(t *testing.T, conn *websocket.Conn, frame Frame) {
	t.Helper()
	payload, err := sonic.Marshal(frame)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, payload))
}

func TestPingPong(t *testing.T) {
	session := console.NewSession(console.DefaultOptions(), &fakeTransport{connected: true}, logging.NewNop())
	conn := dialStream(t, session)

	writeFrame(t, conn, Frame{Type: "ping"})

	assert.Equal(t, "pong", readFrame(t, conn).Type)
}

func TestStreamsClosedLines(t *testing.T) {
	session := console.NewSession(console.DefaultOptions(), &fakeTransport{connected: true}, logging.NewNop())
	session.SetShowTimestamp(false)
	conn := dialStream(t, session)

	session.OnDataReceived([]byte("hello\n"))
	session.Flush()

	frame := readFrame(t, conn)
	require.Equal(t, "line", frame.Type)
	assert.Equal(t, "hello", frame.Text)
}

func TestSendFrameWritesToDevice(t *testing.T) {
	device := &fakeTransport{connected: true}
	session := console.NewSession(console.DefaultOptions(), device, logging.NewNop())
	conn := dialStream(t, session)

	writeFrame(t, conn, Frame{Type: "send", Text: "status"})

	require.Eventually(t, func() bool {
		return len(device.Written()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []byte("status"), device.Written()[0])
	assert.Equal(t, 1, session.HistoryLen())
}

func TestMalformedFrame(t *testing.T) {
	session := console.NewSession(console.DefaultOptions(), &fakeTransport{connected: true}, logging.NewNop())
	conn := dialStream(t, session)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))

	assert.Equal(t, "error", readFrame(t, conn).Type)
}

func TestUnknownFrameType(t *testing.T) {
	session := console.NewSession(console.DefaultOptions(), &fakeTransport{connected: true}, logging.NewNop())
	conn := dialStream(t, session)

	writeFrame(t, conn, Frame{Type: "reboot"})

	frame := readFrame(t, conn)
	require.Equal(t, "error", frame.Type)
	assert.Equal(t, "unknown frame type", frame.Text)
}
