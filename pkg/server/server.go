package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/Jboschlagos/Emmet-Cloude/pkg/emmet"
	"github.com/Jboschlagos/Emmet-Cloude/pkg/snippets"
)

// Server is the HTTP/WebSocket playground server.
type Server struct {
	config   *Config
	expander *emmet.Expander
	store    snippets.Store
	logger   *slog.Logger

	handler http.Handler
	live    *LiveHub

	mu         sync.Mutex
	httpServer *http.Server
}

// New creates a server that expands with exp and persists snippets in
// store. A nil config uses DefaultConfig, a nil exp uses emmet.New() and a
// nil store uses an in-memory store.
func New(config *Config, exp *emmet.Expander, store snippets.Store) *Server {
	config = config.withDefaults()
	if exp == nil {
		exp = emmet.New()
	}
	if store == nil {
		store = snippets.NewMemoryStore()
	}

	s := &Server{
		config:   config,
		expander: exp,
		store:    store,
		logger:   config.Logger.With("component", "server"),
	}
	s.live = newLiveHub(s)
	s.handler = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Live returns the live playground hub.
func (s *Server) Live() *LiveHub {
	return s.live
}

// Logger returns the server's logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}

// Run listens on the configured address and serves until ctx is done,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done or the server fails.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		ReadTimeout:       s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	s.logger.Info("server starting", "address", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutdown requested")
		// ctx is already done, so the grace period needs a fresh one.
		return s.Shutdown(context.WithoutCancel(ctx))
	}
}

// Shutdown closes live connections and waits for in-flight requests,
// bounded by Config.ShutdownTimeout.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.live.Close()

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}
