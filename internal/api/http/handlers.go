package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/serialbridge/backend/internal/clipboard"
	"github.com/serialbridge/backend/internal/console"
	"github.com/serialbridge/backend/internal/infrastructure/logging"
	"github.com/serialbridge/backend/internal/infrastructure/monitoring"
)

// Handlers bundles the console session with its HTTP surface.
type Handlers struct {
	session *console.Session
	clip    *clipboard.Board
	metrics *monitoring.Metrics
	logger  *logging.Logger
	started time.Time
}

// NewHandlers creates the HTTP handler set.
func NewHandlers(session *console.Session, clip *clipboard.Board, metrics *monitoring.Metrics, logger *logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Handlers{
		session: session,
		clip:    clip,
		metrics: metrics,
		logger:  logger,
		started: time.Now(),
	}
}

// Root returns service identification.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "serial-bridge-console",
		"status":  "running",
	})
}

// Health reports liveness and basic console state.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"uptime":    time.Since(h.started).Seconds(),
		"connected": h.session.Connected(),
		"lines":     h.session.LineCount(),
		"history":   h.session.HistoryLen(),
	})
}

// GetLines returns a snapshot of the scrollback.
func (h *Handlers) GetLines(c *gin.Context) {
	lines := h.session.Lines()
	c.JSON(http.StatusOK, gin.H{
		"lines": lines,
		"count": len(lines),
	})
}

// SendRequest carries a user command.
type SendRequest struct {
	Text string `json:"text" binding:"required"`
}

// Send forwards a user command to the device.
func (h *Handlers) Send(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	err := h.session.Send(req.Text)
	switch {
	case err == nil:
		if h.metrics != nil {
			h.metrics.RecordSend("ok", len(req.Text))
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	case errors.Is(err, console.ErrMalformedHex):
		if h.metrics != nil {
			h.metrics.RecordSend("malformed_hex", 0)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, console.ErrNotConnected):
		if h.metrics != nil {
			h.metrics.RecordSend("not_connected", 0)
		}
		c.JSON(http.StatusConflict, gin.H{"error": "device not connected"})
	default:
		if h.metrics != nil {
			h.metrics.RecordSend("write_failed", 0)
		}
		h.logger.Warn("send failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}

// Clear empties the scrollback and pending device data.
func (h *Handlers) Clear(c *gin.Context) {
	h.session.Clear()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// HistoryUp moves the recall cursor toward older commands.
func (h *Handlers) HistoryUp(c *gin.Context) {
	h.session.HistoryUp()
	c.JSON(http.StatusOK, gin.H{"current": h.session.HistoryCurrent()})
}

// HistoryDown moves the recall cursor toward newer commands.
func (h *Handlers) HistoryDown(c *gin.Context) {
	h.session.HistoryDown()
	c.JSON(http.StatusOK, gin.H{"current": h.session.HistoryCurrent()})
}

// HistoryCurrent returns the command under the recall cursor.
func (h *Handlers) HistoryCurrent(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"current": h.session.HistoryCurrent()})
}

// GetSettings returns the active console settings.
func (h *Handlers) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"echo":           h.session.Echo(),
		"autoscroll":     h.session.Autoscroll(),
		"show_timestamp": h.session.ShowTimestamp(),
		"data_mode":      h.session.DataMode().String(),
		"display_mode":   h.session.DisplayMode().String(),
		"line_ending":    h.session.LineEnding().String(),
	})
}

// SettingsRequest carries a partial settings update; absent fields keep
// their current values.
type SettingsRequest struct {
	Echo          *bool   `json:"echo"`
	Autoscroll    *bool   `json:"autoscroll"`
	ShowTimestamp *bool   `json:"show_timestamp"`
	DataMode      *string `json:"data_mode"`
	DisplayMode   *string `json:"display_mode"`
	LineEnding    *string `json:"line_ending"`
}

// UpdateSettings applies a partial settings update.
func (h *Handlers) UpdateSettings(c *gin.Context) {
	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings payload"})
		return
	}

	if req.DataMode != nil {
		mode, err := console.ParseDataMode(*req.DataMode)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.session.SetDataMode(mode)
	}
	if req.DisplayMode != nil {
		mode, err := console.ParseDisplayMode(*req.DisplayMode)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.session.SetDisplayMode(mode)
	}
	if req.LineEnding != nil {
		ending, err := console.ParseLineEnding(*req.LineEnding)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.session.SetLineEnding(ending)
	}
	if req.Echo != nil {
		h.session.SetEcho(*req.Echo)
	}
	if req.Autoscroll != nil {
		h.session.SetAutoscroll(*req.Autoscroll)
	}
	if req.ShowTimestamp != nil {
		h.session.SetShowTimestamp(*req.ShowTimestamp)
	}

	h.GetSettings(c)
}

// ExportRequest names the destination file for a scrollback export.
type ExportRequest struct {
	Path string `json:"path" binding:"required"`
}

// Export writes the scrollback to a file on the server host.
func (h *Handlers) Export(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	if err := h.session.Export(req.Path); err != nil {
		h.logger.Error("export failed", zap.String("path", req.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "path": req.Path})
}

// Charset reports the detected charset of recent device bytes.
func (h *Handlers) Charset(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"charset": h.session.Charset()})
}

// CopyRequest carries text for the system clipboard.
type CopyRequest struct {
	Text string `json:"text" binding:"required"`
}

// Copy places console text on the system clipboard.
func (h *Handlers) Copy(c *gin.Context) {
	var req CopyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	if err := h.clip.Copy(req.Text); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
