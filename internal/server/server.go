// Package server hosts the HTTP surface: operational endpoints plus
// any mounted protocol handlers.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fulmenhq/gofulmen/errors"
	"github.com/go-chi/chi/v5"

	apperrors "github.com/chenat9/mcp-server/internal/errors"
	"github.com/chenat9/mcp-server/internal/server/handlers"
	"github.com/chenat9/mcp-server/internal/server/middleware"
)

// Server wraps an http.Server with the standard route set.
type Server struct {
	host   string
	port   int
	router chi.Router
	http   *http.Server

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// New creates a server bound to host:port with the operational routes
// registered. Protocol handlers are attached with Mount before Start.
func New(host string, port int) *Server {
	s := &Server{
		host:         host,
		port:         port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		envelope := errors.NewErrorEnvelope("NOT_FOUND", fmt.Sprintf("no route for %s", r.URL.Path)).
			WithCorrelationID(middleware.GetRequestID(r.Context()))
		apperrors.WriteError(w, envelope, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		envelope := errors.NewErrorEnvelope("METHOD_NOT_ALLOWED", fmt.Sprintf("method %s not allowed", r.Method)).
			WithCorrelationID(middleware.GetRequestID(r.Context()))
		apperrors.WriteError(w, envelope, http.StatusMethodNotAllowed)
	})

	r.Get("/health", handlers.HealthHandler)
	r.Get("/health/live", handlers.LivenessHandler)
	r.Get("/health/ready", handlers.ReadinessHandler)
	r.Get("/health/startup", handlers.StartupHandler)
	r.Get("/version", handlers.VersionHandler)

	return r
}

// Mount attaches a protocol handler under the given pattern.
func (s *Server) Mount(pattern string, handler http.Handler) {
	s.router.Mount(pattern, handler)
}

// Handle registers a handler for exactly the given path.
func (s *Server) Handle(pattern string, handler http.Handler) {
	s.router.Handle(pattern, handler)
}

// Handler returns the root handler for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Port returns the configured listen port.
func (s *Server) Port() int {
	return s.port
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.host, s.port)
}

// Start blocks serving HTTP until the listener fails or Shutdown is
// called. A closed-server error is returned as nil.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:         s.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
		IdleTimeout:  s.IdleTimeout,
	}
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
