// Package http serves the assessment form and JSON API.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"heartguard/logging"
)

// Server wraps the stdlib server with the middleware chain.
type Server struct {
	server *http.Server
	config ServerConfig
}

// ServerConfig holds the HTTP settings.
type ServerConfig struct {
	Port           int
	Timeout        time.Duration
	AllowedOrigins []string
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:           8080,
		Timeout:        30 * time.Second,
		AllowedOrigins: []string{"*"},
	}
}

// NewServer builds the server with all routes registered.
func NewServer(config ServerConfig) *Server {
	if config.Port == 0 {
		config = DefaultServerConfig()
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	mux := http.NewServeMux()
	RegisterHandlers(mux)
	RegisterFormHandlers(mux)

	chain := Chain(
		RecoveryMiddleware,
		LoggerMiddleware,
		SecurityHeadersMiddleware,
		CORSMiddleware(config.AllowedOrigins),
		TimeoutMiddleware(config.Timeout),
		GzipMiddleware,
	)

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			Handler:      chain(mux),
			ReadTimeout:  config.Timeout,
			WriteTimeout: config.Timeout,
			IdleTimeout:  120 * time.Second,
		},
		config: config,
	}
}

// Start blocks serving requests.
func (s *Server) Start() error {
	logging.L().Infof("starting HTTP server on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logging.L().Info("shutting down HTTP server...")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}
