package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/me/narabid/internal/config"
	"github.com/me/narabid/internal/procurement"
	"github.com/me/narabid/internal/store"
	"github.com/me/narabid/internal/ui"
	"github.com/me/narabid/pkg/model"
)

// Searcher runs one procurement search.
type Searcher interface {
	Search(ctx context.Context, q procurement.Query) (*model.SearchResult, error)
}

// Server is the narabid REST API server.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    config.ServerConfig
	startTime time.Time
	search    Searcher
	store     store.Store // optional; nil disables /fetches
	ui        *ui.UI      // HTML search pages
}

// New creates a new Server with all routes registered.
// st may be nil when the fetch log is disabled.
func New(cfg config.ServerConfig, search Searcher, st store.Store, logger *slog.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		config:    cfg,
		startTime: time.Now(),
		search:    search,
		store:     st,
	}
	s.ui = ui.New(search, st, logger, s.defaults())
	s.routes()
	return s
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
	r.Use(corsMiddleware(s.config.AllowedOrigin))

	r.NotFound(s.handleNotFound)

	// UI routes (HTML)
	s.ui.RegisterRoutes(r)

	r.Route("/api/v1", func(r chi.Router) {
		// Discovery
		r.Get("/", s.handleDiscovery)

		// Health
		r.Get("/health", s.handleHealth)

		// Search
		r.Get("/procurement", s.handleSearch)

		// Upstream call log
		r.Get("/fetches", s.handleListFetches)
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, RequestIDFromContext(r.Context()), http.StatusNotFound,
		model.NewNotFoundError("route", r.URL.Path))
}
