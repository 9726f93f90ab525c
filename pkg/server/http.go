package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/richard-senior/arcmcp/internal/config"
	"github.com/richard-senior/arcmcp/internal/logger"
	"github.com/richard-senior/arcmcp/pkg/transport"
)

// HTTPHandler exposes the server on POST /mcp and GET /healthz
func (s *Server) HTTPHandler(compression bool) http.Handler {
	return transport.NewHTTPHandler(s.HandleRequest, transport.HTTPOptions{Compression: compression})
}

// ListenAndServe listens on cfg.Addr until ctx is cancelled, then gives in-flight
// requests cfg.ShutdownTimeout to finish
func (s *Server) ListenAndServe(ctx context.Context, cfg config.HTTPConfig) error {
	srv := &http.Server{
		Addr:           cfg.Addr,
		Handler:        s.HTTPHandler(cfg.Compression),
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening on", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server forced to shutdown:", err)
		return err
	}
	logger.Info("HTTP server stopped gracefully")
	return nil
}
