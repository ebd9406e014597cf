// Package server exposes the board over HTTP: a JSON API, a websocket
// status feed, and the embedded web dashboard.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hazz-dev/svcdeck/internal/board"
	"github.com/hazz-dev/svcdeck/internal/logger"
)

// Refresher triggers an out-of-band sweep and reports whether one is in
// flight. *sweeper.Sweeper satisfies it.
type Refresher interface {
	Refresh() bool
	Running() bool
}

// Server holds the chi router and its dependencies.
type Server struct {
	board     *board.Board
	refresher Refresher
	router    chi.Router
	logger    logger.Logger
	assets    http.Handler
	themes    []string
}

// Option configures a Server.
type Option func(*Server)

// WithAssets mounts h at / to serve the web dashboard.
func WithAssets(h http.Handler) Option {
	return func(s *Server) { s.assets = h }
}

// WithThemes sets the theme names listed by GET /api/themes.
func WithThemes(names []string) Option {
	return func(s *Server) { s.themes = names }
}

// New creates a Server and registers all routes. refresher may be nil, in
// which case POST /api/refresh reports 503.
func New(b *board.Board, refresher Refresher, log logger.Logger, opts ...Option) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		board:     b,
		refresher: refresher,
		router:    chi.NewRouter(),
		logger:    log,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerRoutes()
	return s
}

// Router returns the chi router (for mounting or testing).
func (s *Server) Router() chi.Router {
	return s.router
}

func (s *Server) registerRoutes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/catalog", s.handleCatalog)
		r.Get("/summary", s.handleSummary)
		r.Get("/themes", s.handleThemes)
		r.Post("/refresh", s.handleRefresh)
		r.Get("/ws", s.handleWebSocket)

		r.Get("/services", s.handleListServices)
		r.Route("/services/{index}", func(r chi.Router) {
			r.Get("/", s.handleGetService)
			r.Get("/open", s.handleOpenService)
			r.Get("/preview", s.handlePreviewService)
		})
	})

	if s.assets != nil {
		r.Handle("/*", s.assets)
	}
}

// HTTPServer wraps the router in an http.Server listening on addr.
//
// WriteTimeout is left unset so websocket connections outlive it; the
// websocket handler manages its own deadlines.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
// within 30 seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := s.HTTPServer(addr)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// --- Response helpers ---

type envelope struct {
	Data  interface{} `json:"data"`
	Error string      `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Error: msg})
}
