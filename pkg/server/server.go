// Package server runs the storefront HTTP servers with graceful startup and shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/nimburion/storefront/pkg/observability/logger"
	"github.com/nimburion/storefront/pkg/server/router"
)

// DefaultShutdownTimeout bounds how long in-flight requests may drain.
const DefaultShutdownTimeout = 30 * time.Second

// Server wraps http.Server with configurable timeouts and graceful lifecycle management.
type Server struct {
	httpServer *http.Server
	router     router.Router
	logger     logger.Logger
	config     Config
}

// Config holds configuration for the HTTP server.
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// ShutdownTimeout defaults to DefaultShutdownTimeout.
	ShutdownTimeout time.Duration
}

// NewServer creates a Server serving r.
func NewServer(cfg Config, r router.Router, log logger.Logger) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	return &Server{
		router: r,
		logger: log,
		config: cfg,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      r,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// Start listens on the configured port and blocks until ctx is cancelled
// or the listener fails. Cancellation triggers a graceful Shutdown.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.logger.Info("starting server", "addr", listener.Addr().String())

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown stops accepting connections and waits for in-flight requests,
// at most ShutdownTimeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server", "addr", s.httpServer.Addr)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server shutdown complete", "addr", s.httpServer.Addr)
	return nil
}

// Router returns the router served by s.
func (s *Server) Router() router.Router {
	return s.router
}
