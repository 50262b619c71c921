// Package server exposes a workspace over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /layout          snapshot JSON
//	PUT    /layout          replace from snapshot JSON
//	DELETE /layout          clear the stored snapshot
//	GET    /layout/tree     tree JSON (null when empty)
//	PUT    /layout/tree     replace from tree JSON
//	GET    /layout/tiles    tile IDs in pre-order
//	POST   /layout/split    {"tile","direction","new_tile","percentage"}
//	POST   /layout/close    {"tile"}
//	POST   /layout/resize   {"node","percentage"}
//	POST   /layout/move     {"dragged","target","zone"}
//	POST   /layout/lock     {"node","locked"}
//
// Errors are JSON objects {"error":{"code","message","suggestions"}} with the
// status from errors.HTTPStatus.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/mosaic/internal/workspace"
	"github.com/matzehuels/mosaic/pkg/observability"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// shutdownTimeout bounds the graceful shutdown in ListenAndServe.
const shutdownTimeout = 5 * time.Second

// Server serves one workspace.
type Server struct {
	ws     *workspace.Workspace
	logger *log.Logger
}

// New creates a server for ws. A nil logger uses log.Default().
func New(ws *workspace.Workspace, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{ws: ws, logger: logger}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Route("/layout", func(r chi.Router) {
		r.Get("/", s.handleSnapshot)
		r.Put("/", s.handleRestore)
		r.Delete("/", s.handleClear)
		r.Get("/tree", s.handleTree)
		r.Put("/tree", s.handleReplaceTree)
		r.Get("/tiles", s.handleTiles)
		r.Post("/split", s.handleSplit)
		r.Post("/close", s.handleClose)
		r.Post("/resize", s.handleResize)
		r.Post("/move", s.handleMove)
		r.Post("/lock", s.handleLock)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving layout", "addr", ln.Addr().String(), "key", s.ws.Key())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// instrument emits HTTP hooks and logs each request at debug level.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, dur)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "duration", dur)
	})
}
