// Package api provides the HTTP API server and handlers for the Sanctum application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sanctumapp/sanctum-server/internal/ratelimit"
	"github.com/sanctumapp/sanctum-server/internal/session"
	"github.com/sanctumapp/sanctum-server/internal/store"
	"github.com/sanctumapp/sanctum-server/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	sessions    *session.Cache
	store       store.ChapterStore
	validator   *validation.Validator
	limiter     *ratelimit.KeyedRateLimiter
	corsOrigins []string
	router      *chi.Mux
	logger      *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(sessions *session.Cache, chapterStore store.ChapterStore, limiter *ratelimit.KeyedRateLimiter, corsOrigins []string, logger *slog.Logger) *Server {
	s := &Server{
		sessions:    sessions,
		store:       chapterStore,
		validator:   validation.New(),
		limiter:     limiter,
		corsOrigins: corsOrigins,
		router:      chi.NewRouter(),
		logger:      logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	if len(s.corsOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.corsOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1/bible", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(RateLimitMiddleware(s.limiter, s.logger))
		}

		r.Post("/session/initialize", s.handleInitializeSession)
		r.Get("/chapter/{book}/{chapter}", s.handleGetChapter)
		r.Get("/search", s.handleSearch)
		r.Get("/navigation", s.handleNavigation)
		r.Get("/stats", s.handleStats)
		r.Get("/compliance", s.handleCompliance)
	})
}
