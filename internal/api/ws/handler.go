package ws

import (
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/serialbridge/backend/internal/console"
	"github.com/serialbridge/backend/internal/infrastructure/logging"
	"github.com/serialbridge/backend/internal/infrastructure/monitoring"
	"github.com/serialbridge/backend/internal/shared/id"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Origins are filtered by the CORS layer
	},
}

// outboundBuffer bounds per-client queued frames; a slow reader drops
// console events rather than stalling the session.
const outboundBuffer = 256

// Frame is one streamed console event or client command.
type Frame struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	On   bool   `json:"on,omitempty"`
	Mode string `json:"mode,omitempty"`
}

// Handler streams console events to WebSocket clients and accepts console
// commands from them.
type Handler struct {
	session *console.Session
	metrics *monitoring.Metrics
	logger  *logging.Logger
}

// NewHandler creates a WebSocket stream handler.
func NewHandler(session *console.Session, metrics *monitoring.Metrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Handler{session: session, metrics: metrics, logger: logger}
}

// client is one connected stream consumer. All writes to the socket go
// through the outbound channel; the write loop is the only writer.
type client struct {
	id       id.StreamID
	conn     *websocket.Conn
	outbound chan Frame
}

// enqueue queues a frame for delivery, dropping it if the client is slow.
func (c *client) enqueue(frame Frame) {
	select {
	case c.outbound <- frame:
	default:
	}
}

// HandleConnection upgrades the request and serves the event stream until
// the client goes away.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	cl := &client{
		id:       id.NewStreamID(),
		conn:     conn,
		outbound: make(chan Frame, outboundBuffer),
	}
	h.logger.Info("stream client connected", zap.String("client", string(cl.id)))
	if h.metrics != nil {
		h.metrics.WSConnections.Inc()
		defer h.metrics.WSConnections.Dec()
	}

	sub := h.session.Events().Subscribe(func(ev console.Event) {
		cl.enqueue(Frame{Type: ev.Kind.String(), Text: ev.Text, On: ev.On, Mode: ev.Mode})
	})
	defer h.session.Events().Unsubscribe(sub)

	done := make(chan struct{})
	defer close(done)
	go h.writeLoop(cl, done)

	h.readLoop(cl)
}

func (h *Handler) writeLoop(cl *client, done <-chan struct{}) {
	for {
		select {
		case frame := <-cl.outbound:
			payload, err := sonic.Marshal(frame)
			if err != nil {
				h.logger.Error("frame marshal failed", zap.Error(err))
				continue
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
			if h.metrics != nil {
				h.metrics.WSFrames.WithLabelValues("out").Inc()
			}
		case <-done:
			return
		}
	}
}

func (h *Handler) readLoop(cl *client) {
	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			h.logger.Info("stream client disconnected", zap.String("client", string(cl.id)))
			return
		}
		if h.metrics != nil {
			h.metrics.WSFrames.WithLabelValues("in").Inc()
		}

		var frame Frame
		if err := sonic.Unmarshal(data, &frame); err != nil {
			cl.enqueue(Frame{Type: "error", Text: "malformed frame"})
			continue
		}
		h.handleFrame(cl, frame)
	}
}

func (h *Handler) handleFrame(cl *client, frame Frame) {
	switch frame.Type {
	case "send":
		if err := h.session.Send(frame.Text); err != nil {
			cl.enqueue(Frame{Type: "error", Text: err.Error()})
		}
	case "history_up":
		h.session.HistoryUp()
		cl.enqueue(Frame{Type: "history_current", Text: h.session.HistoryCurrent()})
	case "history_down":
		h.session.HistoryDown()
		cl.enqueue(Frame{Type: "history_current", Text: h.session.HistoryCurrent()})
	case "clear":
		h.session.Clear()
	case "ping":
		cl.enqueue(Frame{Type: "pong", Text: time.Now().Format(time.RFC3339)})
	default:
		cl.enqueue(Frame{Type: "error", Text: "unknown frame type"})
	}
}
