package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cratewise/cratewise/pkg/models"
)

// Store persists taste profiles keyed by user.
type Store interface {
	// GetProfile returns the stored profile, or nil when none exists.
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.TasteProfile, error)
	SaveProfile(ctx context.Context, userID uuid.UUID, profile *models.TasteProfile) error
}

// CatalogReader reads a user's full catalog snapshot.
type CatalogReader interface {
	UserCatalog(ctx context.Context, userID uuid.UUID) ([]models.CatalogEntry, error)
}

// Service wraps the builder with the persistence and staleness policy.
type Service struct {
	builder *Builder
	store   Store
	catalog CatalogReader
	config  *models.ProfileConfig
}

// NewService creates a taste profile service.
func NewService(store Store, catalog CatalogReader, config *models.ProfileConfig) *Service {
	if config == nil {
		config = models.DefaultProfileConfig()
	}
	return &Service{
		builder: NewBuilder(config),
		store:   store,
		catalog: catalog,
		config:  config,
	}
}

// Current returns the stored profile when it is younger than the staleness
// window, recomputing and persisting otherwise.
func (s *Service) Current(ctx context.Context, userID uuid.UUID) (*models.TasteProfile, error) {
	stored, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read taste profile: %w", err)
	}
	if stored != nil && time.Since(stored.ComputedAt) < s.config.StalenessWindow {
		return stored, nil
	}
	return s.Fresh(ctx, userID)
}

// Fresh recomputes the profile from the catalog and persists it.
func (s *Service) Fresh(ctx context.Context, userID uuid.UUID) (*models.TasteProfile, error) {
	entries, err := s.catalog.UserCatalog(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	built := s.builder.Build(entries, time.Now())
	if err := s.store.SaveProfile(ctx, userID, &built); err != nil {
		return nil, fmt.Errorf("save taste profile: %w", err)
	}

	log.Debug().
		Str("user_id", userID.String()).
		Int("catalog_items", len(entries)).
		Int("genres", len(built.Genres)).
		Int("artists", len(built.Artists)).
		Msg("taste profile rebuilt")

	return &built, nil
}
