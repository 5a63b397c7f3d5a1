// Package api provides the HTTP API server of a floodgate storage node.
// The server accepts records, runs server-side batches through the node's
// submitter and exposes node stats, cluster membership and metrics.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/concave-dev/floodgate/internal/logging"
	"github.com/concave-dev/floodgate/internal/version"
	"github.com/gin-gonic/gin"
)

// Server is the floodgate API server
type Server struct {
	config     *Config
	httpServer *http.Server
	listener   net.Listener
	startTime  time.Time

	// batches counts server-side batches run by this node
	batches atomic.Int64
}

// NewServer creates a new API server instance
func NewServer(config *Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid API config: %w", err)
	}

	// Set Gin to release mode for production
	gin.SetMode(gin.ReleaseMode)

	return &Server{
		config:    config,
		startTime: time.Now(),
	}, nil
}

// NewServerWithListener creates a server that serves on an already bound
// listener. The bind address of config is replaced by the listener's.
func NewServerWithListener(config *Config, listener net.Listener) (*Server, error) {
	host, portStr, err := net.SplitHostPort(listener.Addr().String())
	if err != nil {
		return nil, fmt.Errorf("invalid listener address: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid listener port: %w", err)
	}

	cfg := *config
	cfg.BindAddr = host
	cfg.BindPort = port

	s, err := NewServer(&cfg)
	if err != nil {
		return nil, err
	}
	s.listener = listener
	return s, nil
}

// Handler builds the router with middleware and every route
func (s *Server) Handler() http.Handler {
	router := gin.New()

	// Configure Gin logging only if not already configured by CLI tools
	if !logging.IsConfiguredByCLI() {
		gin.DefaultWriter = logging.NewLevelWriter("DEBUG", "gin")
		gin.DefaultErrorWriter = logging.NewLevelWriter("ERROR", "gin")
	}

	router.Use(s.loggingMiddleware())
	router.Use(s.corsMiddleware())
	if s.config.Metrics != nil {
		router.Use(s.metricsMiddleware())
	}
	router.Use(gin.Recovery())

	s.setupRoutes(router)
	return router
}

// Start binds the listener, unless one was given, and serves in the background
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.config.BindAddr, strconv.Itoa(s.config.BindPort))
	logging.Info("Starting HTTP API server on %s", addr)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		// Batches can run for a long time, so no write timeout
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if s.listener == nil {
		listener, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("failed to bind to %s: %w", addr, err)
		}
		s.listener = listener
	}

	go func() {
		if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("HTTP server failed: %v", err)
		}
	}()

	logging.Success("HTTP API server started successfully")
	return nil
}

// Addr returns the address the server listens on, or "" before Start
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown gracefully shuts down the HTTP server, waiting for running
// batches until ctx is done
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down HTTP API server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

func (s *Server) userAgent() string {
	return "floodgated/" + version.FloodgatedVersion
}
