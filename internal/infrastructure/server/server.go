package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/serialbridge/backend/internal/api/http"
	"github.com/serialbridge/backend/internal/api/middleware"
	"github.com/serialbridge/backend/internal/api/ws"
	"github.com/serialbridge/backend/internal/clipboard"
	"github.com/serialbridge/backend/internal/console"
	"github.com/serialbridge/backend/internal/infrastructure/config"
	"github.com/serialbridge/backend/internal/infrastructure/logging"
	"github.com/serialbridge/backend/internal/infrastructure/monitoring"
	"github.com/serialbridge/backend/internal/scheduler"
	"github.com/serialbridge/backend/internal/transport"
)

// Server wraps the HTTP server and its console dependencies.
type Server struct {
	router    *gin.Engine
	session   *console.Session
	transport transport.Transport
	flusher   *scheduler.Ticker
	logger    *logging.Logger
	config    *config.Config
	metrics   *monitoring.Metrics
}

// NewServer creates a new server instance.
func NewServer(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("Initializing console server",
		zap.String("port", cfg.Server.Port),
		zap.String("transport", cfg.Transport.Kind),
	)

	metrics := monitoring.NewMetrics()

	opts, err := consoleOptions(cfg.Console)
	if err != nil {
		return nil, err
	}

	device, err := buildTransport(cfg.Transport, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open transport: %w", err)
	}
	logger.Info("Transport ready", zap.String("kind", cfg.Transport.Kind))

	session := console.NewSession(opts, device, logger)

	device.Subscribe(func(data []byte) {
		metrics.BytesReceived.Add(float64(len(data)))
		session.OnDataReceived(data)
	})

	session.Events().Subscribe(func(ev console.Event) {
		switch ev.Kind {
		case console.KindLineReceived:
			metrics.LinesTotal.Inc()
		case console.KindFragmentReceived:
			metrics.FragmentsTotal.Inc()
		}
	})

	flusher := scheduler.New(cfg.Console.FlushInterval, func() {
		metrics.FlushesTotal.Inc()
		session.Flush()
	})

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := http.NewHandlers(session, clipboard.New(), metrics, logger)
	wsHandler := ws.NewHandler(session, metrics, logger)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Console buffer
	router.GET("/console/lines", handlers.GetLines)
	router.POST("/console/send", handlers.Send)
	router.POST("/console/clear", handlers.Clear)

	// Command history
	router.GET("/console/history", handlers.HistoryCurrent)
	router.POST("/console/history/up", handlers.HistoryUp)
	router.POST("/console/history/down", handlers.HistoryDown)

	// Settings
	router.GET("/console/settings", handlers.GetSettings)
	router.PUT("/console/settings", handlers.UpdateSettings)

	// Utilities
	router.POST("/console/export", handlers.Export)
	router.GET("/console/charset", handlers.Charset)
	router.POST("/console/copy", handlers.Copy)

	// WebSocket
	router.GET("/stream", wsHandler.HandleConnection)

	// Metrics
	router.GET("/metrics", func(c *gin.Context) {
		metrics.UpdateUptime()
		gin.WrapH(metrics.Handler())(c)
	})

	logger.Info("Server initialized successfully")

	return &Server{
		router:    router,
		session:   session,
		transport: device,
		flusher:   flusher,
		logger:    logger,
		config:    cfg,
		metrics:   metrics,
	}, nil
}

// Run starts the flush ticker and the HTTP server.
func (s *Server) Run() error {
	s.flusher.Start()

	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	s.flusher.Stop()

	if err := s.transport.Close(); err != nil {
		s.logger.Error("Failed to close transport", zap.Error(err))
		return fmt.Errorf("failed to close transport: %w", err)
	}
	s.logger.Info("Closed transport")

	s.logger.Sync()

	return nil
}

// consoleOptions translates configuration strings into session options.
func consoleOptions(cfg config.ConsoleConfig) (console.Options, error) {
	opts := console.DefaultOptions()
	opts.Scrollback = cfg.Scrollback
	opts.HistorySize = cfg.HistorySize
	opts.Echo = cfg.Echo
	opts.Autoscroll = cfg.Autoscroll
	opts.ShowTimestamp = cfg.ShowTimestamp

	dataMode, err := console.ParseDataMode(cfg.DataMode)
	if err != nil {
		return opts, fmt.Errorf("invalid console config: %w", err)
	}
	opts.DataMode = dataMode

	displayMode, err := console.ParseDisplayMode(cfg.DisplayMode)
	if err != nil {
		return opts, fmt.Errorf("invalid console config: %w", err)
	}
	opts.DisplayMode = displayMode

	lineEnding, err := console.ParseLineEnding(cfg.LineEnding)
	if err != nil {
		return opts, fmt.Errorf("invalid console config: %w", err)
	}
	opts.LineEnding = lineEnding

	return opts, nil
}

func buildTransport(cfg config.TransportConfig, logger *logging.Logger) (transport.Transport, error) {
	switch cfg.Kind {
	case "tcp":
		if cfg.Address == "" {
			return nil, fmt.Errorf("tcp transport requires an address")
		}
		return transport.DialTCP(cfg.Address, logger)
	case "pty":
		return transport.StartPTY(cfg.Command, nil, logger)
	case "loopback", "":
		return transport.NewLoopback(), nil
	default:
		return nil, fmt.Errorf("unknown transport kind %q", cfg.Kind)
	}
}
