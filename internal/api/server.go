// Package api exposes the spell catalogue over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/ramonehamilton/grimorio/internal/api/handlers"
	"github.com/ramonehamilton/grimorio/internal/api/websocket"
	"github.com/ramonehamilton/grimorio/internal/catalog"
	"github.com/ramonehamilton/grimorio/internal/metrics"
)

// Config holds configuration for the API server.
type Config struct {
	Host string
	Port int

	// AllowedOrigins are CORS origins; websocket origins are derived from
	// their host part.
	AllowedOrigins []string

	// RateLimit is the sustained requests per second allowed per client IP.
	// Zero disables rate limiting.
	RateLimit float64
	RateBurst int

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the default API server configuration.
func DefaultConfig() *Config {
	return &Config{
		Host:            "127.0.0.1",
		Port:            8080,
		AllowedOrigins:  []string{"http://localhost:*", "http://127.0.0.1:*", "https://localhost:*"},
		RateLimit:       20,
		RateBurst:       40,
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Dependencies are the services the server routes to.
type Dependencies struct {
	Catalog  handlers.SpellService
	Importer handlers.Reloader

	// SeedPath is re-imported by the admin reload route.
	SeedPath string

	// AdminTokenHash is the argon2id hash guarding admin routes.
	AdminTokenHash string

	// Hub and Metrics are created when nil.
	Hub     *websocket.Hub
	Metrics *metrics.ServerMetrics
}

// Server represents the REST API server.
type Server struct {
	cfg        *Config
	router     *chi.Mux
	httpServer *http.Server

	deps    Dependencies
	wsHub   *websocket.Hub
	metrics *metrics.ServerMetrics
	limiter *ipLimiter
}

// NewServer creates a new API server.
func NewServer(cfg *Config, deps Dependencies) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if deps.Catalog == nil {
		return nil, errors.New("catalog service is required")
	}

	if deps.Hub == nil {
		deps.Hub = websocket.NewHub(originHosts(cfg.AllowedOrigins)...)
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewServerMetrics()
	}

	s := &Server{
		cfg:     cfg,
		router:  chi.NewRouter(),
		deps:    deps,
		wsHub:   deps.Hub,
		metrics: deps.Metrics,
	}
	if cfg.RateLimit > 0 {
		s.limiter = newIPLimiter(cfg.RateLimit, cfg.RateBurst)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// Run serves HTTP and the websocket hub until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.Addr(),
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.wsHub.Run(ctx)
	})

	g.Go(func() error {
		log.Printf("API server listening on %s", s.Addr())
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Shutdown gracefully shuts down the API server and stops the hub.
func (s *Server) Shutdown(ctx context.Context) error {
	s.wsHub.Stop()
	if s.httpServer == nil {
		return nil
	}

	log.Println("Shutting down API server...")
	return s.httpServer.Shutdown(ctx)
}

// Port returns the port the server is configured to listen on.
func (s *Server) Port() int {
	return s.cfg.Port
}

// WebSocketHub returns the hub broadcasting catalogue events.
func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}

// Metrics returns the request metrics.
func (s *Server) Metrics() *metrics.ServerMetrics {
	return s.metrics
}

// NotifyReload records a finished import and tells websocket clients.
func (s *Server) NotifyReload(result *catalog.ImportResult) {
	if result == nil {
		return
	}
	s.metrics.Reloads.Add(1)
	if !s.wsHub.CatalogReloaded(result.RunID, result.Count, result.Fingerprint) {
		log.Printf("Reload %s not broadcast: hub is stopped", result.RunID)
	}
}
