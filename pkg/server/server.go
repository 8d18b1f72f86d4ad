// Package server exposes the mind-map engine over HTTP.
//
// Stateless endpoints lay out and render posted or stored roadmaps through a
// shared [pipeline.Runner], so repeated requests are served from cache.
// Stateful endpoints keep one [mindmap.View] per client in a [session.Store]
// and accept the same pointer, wheel and button input a browser host sees:
//
//	POST /api/views                  {"roadmap_id": 12, "width": 1280, "height": 800}
//	POST /api/views/{id}/events      {"events": [{"type": "pointerdown", "x": 640, "y": 175}]}
//	POST /api/views/{id}/zoom-in
//
// Errors are JSON objects with a machine-readable code and a message.
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/yolcu/mindmap/pkg/buildinfo"
	"github.com/yolcu/mindmap/pkg/mindmap/interact"
	"github.com/yolcu/mindmap/pkg/mindmap/layout"
	"github.com/yolcu/mindmap/pkg/mindmap/viewport"
	"github.com/yolcu/mindmap/pkg/pipeline"
	"github.com/yolcu/mindmap/pkg/roadmap"
	"github.com/yolcu/mindmap/pkg/session"
)

const (
	cleanupInterval = time.Minute
	shutdownTimeout = 10 * time.Second
)

// Config holds listener settings.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxBodyBytes int64
}

// ViewDefaults are applied to views that do not override them.
type ViewDefaults struct {
	Layout           layout.Options
	Viewport         viewport.Options
	Mode             interact.Mode
	InitialSelection string
	Collapsed        bool
	TTL              time.Duration
}

// DefaultViewDefaults returns the stock view settings.
func DefaultViewDefaults() ViewDefaults {
	return ViewDefaults{
		Layout:   layout.DefaultOptions(),
		Viewport: viewport.DefaultOptions(0, 0),
		TTL:      session.DefaultTTL,
	}
}

// Server serves the HTTP API.
type Server struct {
	cfg        Config
	runner     *pipeline.Runner
	source     roadmap.Source
	sourceName string
	views      session.Store
	defaults   ViewDefaults
	logger     *log.Logger
	router     chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithSource serves stored roadmaps from src. name scopes their cache keys.
func WithSource(src roadmap.Source, name string) Option {
	return func(s *Server) { s.source, s.sourceName = src, name }
}

// WithViews replaces the in-memory view store.
func WithViews(st session.Store) Option {
	return func(s *Server) { s.views = st }
}

// WithViewDefaults sets the settings new views start from.
func WithViewDefaults(d ViewDefaults) Option {
	return func(s *Server) { s.defaults = d }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New returns a server rendering through runner.
func New(cfg Config, runner *pipeline.Runner, opts ...Option) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 4 << 20
	}
	s := &Server{
		cfg:      cfg,
		runner:   runner,
		defaults: DefaultViewDefaults(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.views == nil {
		s.views = session.NewMemoryStore(0)
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/scene", s.handleScene)
		r.Post("/render", s.handleRender)

		r.Route("/roadmaps/{roadmapID}", func(r chi.Router) {
			r.Get("/scene", s.handleRoadmapScene)
			r.Get("/render", s.handleRoadmapRender)
		})

		r.Route("/views", func(r chi.Router) {
			r.Post("/", s.handleCreateView)
			r.Route("/{viewID}", func(r chi.Router) {
				r.Get("/", s.handleGetView)
				r.Delete("/", s.handleDeleteView)
				r.Post("/events", s.handleEvents)
				r.Post("/zoom-in", s.handleZoomIn)
				r.Post("/zoom-out", s.handleZoomOut)
				r.Post("/reset", s.handleReset)
				r.Post("/fit", s.handleFit)
				r.Post("/resize", s.handleResize)
				r.Post("/select", s.handleSelect)
				r.Post("/focus", s.handleFocus)
			})
		})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	go session.RunCleanup(ctx, s.views, cleanupInterval)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", s.cfg.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"views":   s.views.Len(),
		"version": buildinfo.Get().Version,
	})
}
