// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

package web

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/samber/oops"
)

// Server serves the GraphQL API over HTTP.
type Server struct {
	addr       string
	handler    http.Handler
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer creates a new API server.
// addr: listen address in "host:port" format (e.g., ":4000").
func NewServer(addr string, handler http.Handler) *Server {
	return &Server{
		addr:    addr,
		handler: handler,
	}
}

// Start begins serving requests.
// It returns an error channel that will receive any errors from the HTTP
// server after it starts. The channel is closed when the server stops
// gracefully. Callers should monitor this channel to detect server failures.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("api server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	// Buffered so the goroutine doesn't block if nobody is listening yet
	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		// Use local httpSrv to avoid race with subsequent Start() calls
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			slog.Error("api server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	slog.Info("api server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the server, waiting for in-flight requests.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			// Restore running state on failure so the server can be stopped again
			s.running.Store(true)
			return oops.With("operation", "shutdown_api_server").Wrap(err)
		}
	}

	slog.Info("api server stopped")
	return nil
}

// Addr returns the address the server is listening on.
// Returns empty string if not running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
