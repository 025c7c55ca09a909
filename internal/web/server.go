// Package web serves the detailed-statistics API over HTTP.
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/replywatch/replywatch/internal/detailedstats"
)

// Server exposes the pipeline as a JSON API.
type Server struct {
	stats  *detailedstats.Service
	log    detailedstats.Logger
	router *http.ServeMux
	port   int
}

// NewServer creates the API server.
func NewServer(stats *detailedstats.Service, log detailedstats.Logger, port int) *Server {
	s := &Server{
		stats:  stats,
		log:    log,
		router: http.NewServeMux(),
		port:   port,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.HandleFunc("GET /api/detailed-stats", s.handleDetailedStats)
}

// Handler returns the server's handler chain, exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.router)
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.log.Debug(fmt.Sprintf("starting server at http://localhost:%d", s.port))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
