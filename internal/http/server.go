// Package http provides the API server, the metrics server and their shared middleware.
package http

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Server represents the API HTTP server.
type Server struct {
	server   *http.Server
	router   *gin.Engine
	db       *sql.DB
	inMemory bool
	logger   *slog.Logger
}

// NewServer creates a new API server. The router is built by SetupRouter.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// UseInMemoryStorage marks the server as running without a database so
// readiness does not depend on one.
func (s *Server) UseInMemoryStorage() {
	s.inMemory = true
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server. It returns nil after a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router
	return listenAndServe(s.server, "http server", s.logger)
}

// listenAndServe runs srv until it is shut down. http.ErrServerClosed is not an error.
func listenAndServe(srv *http.Server, name string, logger *slog.Logger) error {
	logger.Info("starting "+name, slog.String("addr", srv.Addr))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports ready only when the storage backend answers.
func (s *Server) readinessHandler(c *gin.Context) {
	database := "ok"
	switch {
	case s.inMemory:
		database = "memory"
	case s.db == nil:
		database = "error"
	default:
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.Any("error", err))
			database = "error"
		}
	}

	status, code := "ready", http.StatusOK
	if database == "error" {
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":     status,
		"components": gin.H{"database": database},
	})
}
