package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/haskel/sysbar/internal/alert"
	"github.com/haskel/sysbar/internal/config"
	"github.com/haskel/sysbar/internal/diskscan"
	"github.com/haskel/sysbar/internal/monitor"
	"github.com/haskel/sysbar/internal/server/middleware"
)

// Sampler is the part of monitor.Sampler the server reads from.
type Sampler interface {
	CurrentSnapshot() *monitor.SystemSnapshot
	History(metric monitor.Metric) ([]float64, bool)
	HistoryCapacity() int
	Interval() time.Duration
	SetInterval(d time.Duration) error
	Subscribe(buffer int) (<-chan *monitor.SystemSnapshot, func())
}

// DiskScanner runs an on-demand disk usage scan.
type DiskScanner interface {
	Scan(ctx context.Context) ([]diskscan.Entry, error)
}

// AlertLog exposes recently raised alerts.
type AlertLog interface {
	Enabled() bool
	Recent() []alert.Alert
}

// Deps are the components served over HTTP. Scanner and Alerts are
// optional.
type Deps struct {
	Sampler Sampler
	Scanner DiskScanner
	Alerts  AlertLog
}

type Server struct {
	httpServer *http.Server
	sampler    Sampler
	scanner    DiskScanner
	alerts     AlertLog
	logger     *slog.Logger
	version    string
	authConfig *middleware.AuthConfig
	upgrader   websocket.Upgrader
	startedAt  time.Time

	// scanMu serializes disk scans; each one walks large trees.
	scanMu sync.Mutex

	streamsMu sync.Mutex
	streams   map[*websocket.Conn]struct{}
}

func New(cfg *config.Config, deps Deps, logger *slog.Logger, version string) *Server {
	s := &Server{
		sampler:    deps.Sampler,
		scanner:    deps.Scanner,
		alerts:     deps.Alerts,
		logger:     logger,
		version:    version,
		authConfig: middleware.NewAuthConfig(cfg.Auth.Enabled, cfg.Auth.User, cfg.Auth.Password),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 8192,
		},
		startedAt: time.Now(),
		streams:   make(map[*websocket.Conn]struct{}),
	}

	handler := middleware.Chain(
		s.setupRoutes(),
		middleware.Recovery(logger),
		middleware.Logging(logger),
		middleware.SecurityHeaders(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Enabled:           cfg.Server.RateLimit.Enabled,
			RequestsPerSecond: cfg.Server.RateLimit.RequestsPerSecond,
			Burst:             cfg.Server.RateLimit.Burst,
		}),
		middleware.Auth(s.authConfig, "/health", "/ready"),
	)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// ReloadConfig applies settings that can change at runtime. Host, port and
// rate limits need a restart.
func (s *Server) ReloadConfig(cfg *config.Config) {
	s.authConfig.Update(cfg.Auth.Enabled, cfg.Auth.User, cfg.Auth.Password)
	s.logger.Info("server configuration reloaded", "auth_enabled", cfg.Auth.Enabled)
}

func (s *Server) Start() error {
	s.logger.Info("server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting requests and closes open streams.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")

	s.streamsMu.Lock()
	for conn := range s.streams {
		conn.Close()
	}
	s.streamsMu.Unlock()

	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the fully wrapped root handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
