// Package server exposes a loaded architecture over a read-only JSON API.
//
// Every request takes a fresh snapshot from the store, so the API always
// reflects the current graph and never blocks writers for longer than the
// copy takes.
//
//	GET /healthz
//	GET /api/v1/graph
//	GET /api/v1/components/{id}
//	GET /api/v1/smells
//	GET /api/v1/layout/{kind}?seed=&iterations=
//
// Errors are returned as {"error": {"code": ..., "message": ...}} with the
// status from errors.HTTPStatus.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

const shutdownTimeout = 5 * time.Second

// Server wraps an http.Server with context-driven shutdown.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
}

// New creates a server listening on addr.
func New(addr string, handler http.Handler, logger *log.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("serving architecture API", "addr", ln.Addr().String())

	errc := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}
