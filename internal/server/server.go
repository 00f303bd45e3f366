package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quarrydb/janitor/internal/config"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	cfg    config.Server
	engine *gin.Engine
}

// NewServer builds the HTTP server. The registerHandlerFn callback receives
// a RouterGroup prefixed with /api/v1.
func NewServer(cfg config.Server, registerHandlerFn func(*gin.RouterGroup)) (*Server, error) {
	switch cfg.Mode {
	case "prod":
		gin.SetMode(gin.ReleaseMode)
	case "dev":
		gin.SetMode(gin.DebugMode)
	default:
		return nil, fmt.Errorf("unknown server mode %q", cfg.Mode)
	}

	engine := gin.New()
	engine.Use(
		ginzap.Ginzap(zap.L(), time.RFC3339, true),
		ginzap.RecoveryWithZap(zap.L(), true),
	)

	registerHandlerFn(engine.Group("/api/v1"))

	return &Server{cfg: cfg, engine: engine}, nil
}

// Start runs the server until it fails or ctx is canceled, then shuts it
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.HTTPPort),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.S().Named("server").Infow("listening", "addr", srv.Addr, "mode", s.cfg.Mode)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
