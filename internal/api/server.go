// Package api wires the HTTP server around the qadesk API
package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/qadesk/qadesk/internal/api/router"
	"github.com/qadesk/qadesk/internal/config"
	"github.com/qadesk/qadesk/internal/service"
	"github.com/qadesk/qadesk/internal/telemetry"
)

// Server represents the HTTP server
type Server struct {
	config  *config.Config
	humaAPI huma.API
	server  *http.Server
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, svc service.QAService, metrics *telemetry.Metrics) *Server {
	mux := http.NewServeMux()

	api := router.NewHumaAPI(cfg, svc, mux, metrics)

	return &Server{
		config:  cfg,
		humaAPI: api,
		server: &http.Server{
			Addr:              cfg.ServerAddress,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler returns the root handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins listening for incoming HTTP requests
func (s *Server) Start() error {
	log.Printf("HTTP server starting on %s", s.config.ServerAddress)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
