// Package server exposes the cratewise HTTP API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cratewise/cratewise/internal/jobs"
	"github.com/cratewise/cratewise/pkg/models"
)

const (
	// DefaultHTTPTimeout is the per-request timeout. Wide enough for a
	// synchronous first-time recommendation run.
	DefaultHTTPTimeout = 120 * time.Second

	// DefaultRateLimit allows this many requests per second, shared.
	DefaultRateLimit = 20.0

	// DefaultRateBurst is the allowed request burst.
	DefaultRateBurst = 40

	// maxCatalogBody bounds a catalog replace payload.
	maxCatalogBody = 8 << 20
)

// Recommender is the recommendation surface the handlers call.
type Recommender interface {
	Grouped(ctx context.Context, userID uuid.UUID) ([]models.RecommendationGroup, error)
	Refresh(userID uuid.UUID) jobs.Job
	Status(userID uuid.UUID) (jobs.Job, bool)
}

// CatalogStore is the catalog surface the handlers call.
type CatalogStore interface {
	UserCatalog(ctx context.Context, userID uuid.UUID) ([]models.CatalogEntry, error)
	ReplaceCatalog(ctx context.Context, userID uuid.UUID, entries []models.CatalogEntry) error
}

// Service is the HTTP API server.
type Service struct {
	recommender Recommender
	catalog     CatalogStore
	limiter     *RateLimiter
	router      *chi.Mux
	server      *http.Server
}

// NewService builds the router and wires the handlers.
func NewService(recommender Recommender, catalog CatalogStore, port int) *Service {
	s := &Service{
		recommender: recommender,
		catalog:     catalog,
		limiter:     NewRateLimiter(DefaultRateLimit, DefaultRateBurst),
		router:      chi.NewRouter(),
	}

	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(DefaultHTTPTimeout))
	s.router.Use(RateLimitMiddleware(s.limiter))

	s.setupRoutes()

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Service) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/users/{userID}", func(r chi.Router) {
		r.Get("/recommendations", s.handleGetRecommendations)
		r.Post("/recommendations/refresh", s.handleRefresh)
		r.Get("/recommendations/status", s.handleRefreshStatus)
		r.Get("/catalog", s.handleGetCatalog)
		r.Put("/catalog", s.handlePutCatalog)
	})
}

// Handler returns the router, for tests and embedding.
func (s *Service) Handler() http.Handler { return s.router }

// Start serves HTTP until the listener closes.
func (s *Service) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("HTTP server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Service) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
