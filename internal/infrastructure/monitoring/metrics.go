package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the console service. Each
// instance owns a private registry so tests can create metrics freely.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Console metrics
	BytesReceived  prometheus.Counter
	BytesSent      prometheus.Counter
	FlushesTotal   prometheus.Counter
	LinesTotal     prometheus.Counter
	FragmentsTotal prometheus.Counter
	SendsTotal     *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSFrames      *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry:  registry,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "console_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		BytesReceived: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "console_device_bytes_received_total",
				Help: "Raw bytes received from the device",
			},
		),
		BytesSent: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "console_device_bytes_sent_total",
				Help: "Bytes written to the device",
			},
		),
		FlushesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "console_flushes_total",
				Help: "Display flush ticks that had pending data",
			},
		),
		LinesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "console_lines_total",
				Help: "Lines closed in the scrollback buffer",
			},
		),
		FragmentsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "console_fragments_total",
				Help: "Appends that extended the open line without closing it",
			},
		),
		SendsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_sends_total",
				Help: "User commands sent, by outcome",
			},
			[]string{"status"},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "console_ws_connections",
				Help: "Number of active WebSocket stream clients",
			},
		),
		WSFrames: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_ws_frames_total",
				Help: "WebSocket frames, by direction",
			},
			[]string{"direction"},
		),

		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "console_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
	}
}

// RecordHTTPRequest records metrics for one handled HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordSend records the outcome of a user command.
func (m *Metrics) RecordSend(status string, bytes int) {
	m.SendsTotal.WithLabelValues(status).Inc()
	if bytes > 0 {
		m.BytesSent.Add(float64(bytes))
	}
}

// Handler returns the Prometheus scrape handler for this collector.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// UpdateUptime refreshes the uptime gauge; called from the scrape path.
func (m *Metrics) UpdateUptime() {
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}
