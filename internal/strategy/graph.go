package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cratewise/cratewise/pkg/models"
)

// graphMaxSeedArtists caps how many of the user's top artists seed the
// traversal; relation fetches are the expensive part of this strategy.
const graphMaxSeedArtists = 10

// RelationSource fetches typed relationship edges for an artist from the
// external graph service.
type RelationSource interface {
	ArtistRelations(ctx context.Context, artistID string) ([]models.ArtistRelation, error)
}

// CatalogReader reads a user's catalog entries; the graph strategy needs
// them to resolve top artists to their external identifiers.
type CatalogReader interface {
	UserCatalog(ctx context.Context, userID uuid.UUID) ([]models.CatalogEntry, error)
}

// GraphStrategy surfaces albums by people connected to artists the user
// already collects, walking the external artist-relationship graph.
type GraphStrategy struct {
	relations  RelationSource
	catalog    CatalogReader
	candidates CandidateSource
	owned      OwnedSetReader
	weights    map[string]float64
}

// NewGraphStrategy creates the artist-graph strategy. weights may be nil to
// use the default relation-weight table.
func NewGraphStrategy(relations RelationSource, catalog CatalogReader, candidates CandidateSource, owned OwnedSetReader, weights map[string]float64) *GraphStrategy {
	return &GraphStrategy{
		relations:  relations,
		catalog:    catalog,
		candidates: candidates,
		owned:      owned,
		weights:    weights,
	}
}

// Name implements Strategy.
func (s *GraphStrategy) Name() models.StrategyName { return models.StrategyGraph }

// Score implements Strategy.
func (s *GraphStrategy) Score(ctx context.Context, userID uuid.UUID, profile *models.TasteProfile, limit int) ([]models.StrategyScore, error) {
	if profile == nil || len(profile.Artists) == 0 {
		return nil, nil
	}

	ownedSet, err := s.owned.OwnedAlbumIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load owned set: %w", err)
	}

	seeds, err := s.seedArtists(ctx, userID, profile)
	if err != nil {
		return nil, err
	}

	// Highest-weight path wins per album; summing would over-reward albums
	// reachable through hub artists with many edges.
	best := map[int64]models.StrategyScore{}
	for _, seed := range seeds {
		relations, err := s.relations.ArtistRelations(ctx, seed.id)
		if err != nil {
			// One artist's fetch failing never sinks the strategy.
			log.Warn().Err(err).
				Str("artist", seed.name).
				Msg("artist relation fetch failed, skipping")
			continue
		}

		for _, rel := range relations {
			weight := s.relationWeight(rel.Type)
			albums, err := s.candidates.AlbumsByArtist(ctx, rel.ArtistID, rel.ArtistName)
			if err != nil {
				log.Warn().Err(err).Str("artist", rel.ArtistName).Msg("related-artist album lookup failed")
				continue
			}
			for _, album := range albums {
				if _, known := ownedSet[album.ID]; known {
					continue
				}
				if existing, ok := best[album.ID]; ok && existing.Score >= weight {
					continue
				}
				best[album.ID] = models.StrategyScore{
					AlbumID:     album.ID,
					Score:       clamp01(weight),
					Explanation: fmt.Sprintf("%s is %s of %s", rel.ArtistName, strings.ToLower(rel.Type), seed.name),
					Strategy:    models.StrategyGraph,
				}
			}
		}
	}

	scores := make([]models.StrategyScore, 0, len(best))
	for _, sc := range best {
		scores = append(scores, sc)
	}
	return sortAndTruncate(scores, limit), nil
}

type seedArtist struct {
	id   string
	name string
}

// seedArtists resolves the user's top profile artists to external ids,
// keeping at most graphMaxSeedArtists that have one.
func (s *GraphStrategy) seedArtists(ctx context.Context, userID uuid.UUID, profile *models.TasteProfile) ([]seedArtist, error) {
	entries, err := s.catalog.UserCatalog(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	idByName := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.Artist != "" && entry.ArtistID != "" {
			if _, ok := idByName[entry.Artist]; !ok {
				idByName[entry.Artist] = entry.ArtistID
			}
		}
	}

	seeds := make([]seedArtist, 0, graphMaxSeedArtists)
	for _, top := range models.TopWeights(profile.Artists, 0) {
		id, ok := idByName[top.Name]
		if !ok {
			continue
		}
		seeds = append(seeds, seedArtist{id: id, name: top.Name})
		if len(seeds) == graphMaxSeedArtists {
			break
		}
	}
	return seeds, nil
}

func (s *GraphStrategy) relationWeight(relationType string) float64 {
	if s.weights != nil {
		if w, ok := s.weights[strings.ToLower(relationType)]; ok {
			return w
		}
		return models.DefaultRelationWeight
	}
	return models.RelationWeight(relationType)
}
