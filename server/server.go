// Package server is the arena-server backend proxy: it forwards chat
// prompts to the configured upstream and serves the built front-end.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"arena/config"
	"arena/provider"
)

const shutdownTimeout = 10 * time.Second

// Server is stateless apart from its configuration: every request is
// handled independently with exactly one upstream attempt.
type Server struct {
	cfg      *config.Config
	upstream provider.Upstream
	credErr  error
	engine   *gin.Engine
}

// New builds the proxy. credErr is the credential problem found at start-up,
// if any; the server still starts and reports it on every chat request.
func New(cfg *config.Config, upstream provider.Upstream, credErr error) *Server {
	s := &Server{
		cfg:      cfg,
		upstream: upstream,
		credErr:  credErr,
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Logging(), CORS())

	r.GET("/health", s.handleHealth)
	r.POST("/api/chat", s.handleChat)

	r.NoRoute(s.staticHandler())
	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on the configured port until ctx ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("arena-server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down arena-server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
