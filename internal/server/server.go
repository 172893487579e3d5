package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/me/procviz/internal/config"
	"github.com/me/procviz/internal/logging"
	"github.com/me/procviz/internal/scheduler"
	"github.com/me/procviz/internal/store"
	"github.com/me/procviz/internal/ui"
)

// Server is the procviz REST API and web UI server.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    config.ServerConfig
	startTime time.Time
	store     store.Store
	service   *scheduler.Service
	sweeper   scheduler.Sweeper // optional; removes idle workspaces
	ui        *ui.UI
	sweeping  bool
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithSweeper sets the idle-workspace sweeper started by StartSweeper.
func WithSweeper(sw scheduler.Sweeper) Option {
	return func(s *Server) {
		s.sweeper = sw
	}
}

// New creates a new Server with all routes registered.
func New(cfg config.ServerConfig, st store.Store, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logging.Component(logger, "server"),
		config:    cfg,
		startTime: time.Now(),
		store:     st,
		service:   scheduler.NewService(st, cfg, logger),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.ui = ui.New(s.service, logger, ui.Config{Secure: cfg.SecureCookies})

	s.routes()
	return s
}

// StartSweeper runs the sweeper in a background goroutine until ctx is done.
func (s *Server) StartSweeper(ctx context.Context) {
	if s.sweeper == nil {
		return
	}
	s.sweeping = true
	go func() {
		if err := s.sweeper.Start(ctx); err != nil && err != context.Canceled {
			s.logger.Error("sweeper stopped", "error", err)
		}
	}()
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	// UI routes (HTML)
	s.ui.RegisterRoutes(r)

	// API routes (JSON)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", s.handleDiscovery)
		r.Get("/health", s.handleHealth)
		r.Get("/policies", s.handleListPolicies)
		r.Post("/simulate", s.handleSimulate)

		r.Route("/workspaces", func(r chi.Router) {
			r.Get("/", s.handleListWorkspaces)
			r.Post("/", s.handleCreateWorkspace)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetWorkspace)
				r.Delete("/", s.handleDeleteWorkspace)
				r.Put("/policy", s.handleSelectPolicy)
				r.Post("/run", s.handleRun)
				r.Route("/processes", func(r chi.Router) {
					r.Post("/", s.handleAddProcesses)
					r.Delete("/", s.handleClearProcesses)
					r.Delete("/{pid}", s.handleRemoveProcess)
				})
			})
		})
	})
}
