package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Middleware groups the cross-cutting handlers applied to every page.
// Nil entries are skipped.
type Middleware struct {
	CORS     func(http.Handler) http.Handler
	Tracing  func(http.Handler) http.Handler
	Timeout  func(http.Handler) http.Handler
	Logger   func(http.Handler) http.Handler
	Recovery func(http.Handler) http.Handler
}

type Server struct {
	server *http.Server
	logger zerolog.Logger
	// pages holds the routes; chi refuses Use after a route is registered
	pages chi.Router
	// root carries the middleware chain and mounts pages
	root    *chi.Mux
	mounted bool
}

type ServerConfig struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

func NewServer(cfg ServerConfig, pages chi.Router, logger zerolog.Logger) *Server {
	s := &Server{
		logger: logger,
		pages:  pages,
		root:   chi.NewRouter(),
	}

	s.server = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.root,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// Handler exposes the full chain, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.root
}

func (s *Server) Start() error {
	s.logger.Info().Str("address", s.server.Addr).Msg("Starting server")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server")
	return s.server.Shutdown(ctx)
}

func (s *Server) SetupMiddleware(mw Middleware) {
	s.root.Use(middleware.RequestID)
	s.root.Use(middleware.RealIP)
	s.root.Use(middleware.StripSlashes)
	s.root.Use(middleware.CleanPath)
	s.root.Use(middleware.GetHead)
	s.root.Use(middleware.Compress(5))

	// order matters: cors first, recovery closest to the handler
	for _, m := range []func(http.Handler) http.Handler{
		mw.CORS,
		mw.Tracing,
		mw.Timeout,
		mw.Logger,
		mw.Recovery,
	} {
		if m != nil {
			s.root.Use(m)
		}
	}

	if !s.mounted {
		s.root.Mount("/", s.pages)
		s.mounted = true
	}
}
