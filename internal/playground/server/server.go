// ============================================================================
// VibeScript (vbs) - Interpreter & Playground
// ============================================================================
//
// Package:     server
// Description: Playground HTTP server with health checks and request logging
// Author:      Mike Stoffels
// Created:     2026-09-24
// License:     MIT
// ============================================================================

package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/msto63/vibescript/foundation/vibe/engine"
	"github.com/msto63/vibescript/internal/catalog"
	"github.com/msto63/vibescript/internal/playground/handler"
	"github.com/msto63/vibescript/internal/store"
	"github.com/msto63/vibescript/pkg/core/health"
	"github.com/msto63/vibescript/pkg/core/logging"
)

// Store is the run history the server records into
type Store interface {
	store.RunStore
	Ping(ctx context.Context) error
}

// Server is the playground server
type Server struct {
	httpServer *http.Server
	handler    *handler.Handler
	health     *health.Registry
	logger     *logging.Logger
	config     Config
}

// Config holds server configuration
type Config struct {
	Host           string
	HTTPPort       int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RunTimeout     time.Duration
	MaxRequestSize int64
	Version        string
	CORS           handler.CORSConfig

	Engine  *engine.Engine
	Store   Store            // optional
	Catalog *catalog.Catalog // optional
	Logger  *logging.Logger
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Host:           "127.0.0.1",
		HTTPPort:       5000,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   60 * time.Second,
		RunTimeout:     5 * time.Second,
		MaxRequestSize: 1 << 20,
		Version:        "dev",
		CORS: handler.CORSConfig{
			Enabled:        true,
			AllowedOrigins: []string{"*"},
		},
	}
}

// New creates a new playground server
func New(cfg Config) (*Server, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("server: engine is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("playground-server")
	}

	healthRegistry := health.NewRegistry("playground", cfg.Version)
	healthRegistry.Register(health.AlwaysHealthy("http"))
	healthRegistry.Register(health.ErrorCheck("interpreter", func(ctx context.Context) error {
		result := cfg.Engine.Run(ctx, "spill_the_tea 1 + 1;", nil)
		if result.Err != nil {
			return result.Err
		}
		if result.Output != "2\n" {
			return fmt.Errorf("smoke run printed %q", result.Output)
		}
		return nil
	}))

	// Only pass non-nil implementations into the interface fields
	var runStore store.RunStore
	if cfg.Store != nil {
		runStore = cfg.Store
		healthRegistry.Register(health.ErrorCheck("store", cfg.Store.Ping))
	}
	var examples handler.Examples
	if cfg.Catalog != nil {
		examples = cfg.Catalog
		healthRegistry.Register(health.OptionalCheck("catalog", func(ctx context.Context) error {
			if cfg.Catalog.Len() == 0 {
				return fmt.Errorf("no examples loaded from %s", cfg.Catalog.Dir())
			}
			return nil
		}))
	}

	h := handler.NewHandler(handler.Config{
		Version:        cfg.Version,
		Engine:         cfg.Engine,
		Store:          runStore,
		Examples:       examples,
		Health:         healthRegistry,
		Logger:         logger,
		RunTimeout:     cfg.RunTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		CORS:           cfg.CORS,
	})

	wsHandler := handler.NewWebSocketHandler(h)

	mux := http.NewServeMux()

	// WebSocket route
	mux.Handle("/api/v1/run/ws", wsHandler)

	// API routes
	mux.Handle("/", h)

	httpServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.HTTPPort)),
		Handler:      loggingMiddleware(logger, mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		httpServer: httpServer,
		handler:    h,
		health:     healthRegistry,
		logger:     logger,
		config:     cfg,
	}, nil
}

// loggingMiddleware adds request logging
func loggingMiddleware(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// WebSocket upgrades need the unwrapped writer for hijacking
		if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
			logger.Info("WebSocket upgrade", "path", r.URL.Path, "remote", r.RemoteAddr)
			next.ServeHTTP(w, r)
			return
		}

		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapper.statusCode,
			"duration", time.Since(start).String(),
		)
	})
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Start starts the server and blocks until it stops
func (s *Server) Start() error {
	s.logger.Info("Starting VibeScript playground",
		"host", s.config.Host,
		"port", s.config.HTTPPort,
	)
	return s.httpServer.ListenAndServe()
}

// StartAsync starts the server asynchronously
func (s *Server) StartAsync() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.httpServer.Addr, err)
	}

	s.logger.Info("Starting VibeScript playground (async)",
		"address", listener.Addr().String(),
	)

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", "error", err.Error())
		}
	}()

	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping VibeScript playground")
	return s.httpServer.Shutdown(ctx)
}

// Address returns the server address
func (s *Server) Address() string {
	return s.httpServer.Addr
}

// Handler returns the root HTTP handler including middleware
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// HealthRegistry returns the health check registry
func (s *Server) HealthRegistry() *health.Registry {
	return s.health
}
