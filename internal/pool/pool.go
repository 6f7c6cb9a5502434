// Package pool keeps the shared candidate album pool topped up from the
// external catalog service.
package pool

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/cratewise/cratewise/pkg/models"
)

const (
	// maxQueryTerms caps how many profile dimensions one sync searches.
	maxQueryTerms = 5

	// perQueryLimit caps results fetched per search term.
	perQueryLimit = 100
)

// Searcher finds candidate albums in the external catalog.
type Searcher interface {
	SearchReleases(ctx context.Context, query string, limit int) ([]models.CandidateAlbum, error)
}

// Upserter writes candidates into the shared pool.
type Upserter interface {
	Upsert(ctx context.Context, albums []models.CandidateAlbum) error
}

// Syncer tops up the candidate pool ahead of a recommendation run.
type Syncer struct {
	searcher Searcher
	albums   Upserter
}

// NewSyncer creates a pool syncer. searcher may be nil when no external
// catalog is configured; Sync is then a no-op.
func NewSyncer(searcher Searcher, albums Upserter) *Syncer {
	return &Syncer{searcher: searcher, albums: albums}
}

// Sync searches the external catalog for the profile's strongest genres and
// styles and upserts the results. Failures degrade to whatever the pool
// already holds; Sync never fails a recommendation run.
func (s *Syncer) Sync(ctx context.Context, profile *models.TasteProfile) {
	if s.searcher == nil || profile == nil || profile.IsEmpty() {
		return
	}

	fetched := 0
	for _, query := range s.queries(profile) {
		albums, err := s.searcher.SearchReleases(ctx, query, perQueryLimit)
		if err != nil {
			log.Warn().Err(err).Str("query", query).Msg("candidate pool search failed")
			continue
		}
		if len(albums) == 0 {
			continue
		}
		if err := s.albums.Upsert(ctx, albums); err != nil {
			log.Warn().Err(err).Str("query", query).Msg("candidate pool upsert failed")
			continue
		}
		fetched += len(albums)
	}

	log.Debug().Int("albums", fetched).Msg("candidate pool synced")
}

// queries picks the strongest genres topped up with styles, bounded at
// maxQueryTerms.
func (s *Syncer) queries(profile *models.TasteProfile) []string {
	terms := make([]string, 0, maxQueryTerms)
	for _, entry := range models.TopWeights(profile.Genres, maxQueryTerms) {
		terms = append(terms, entry.Name)
	}
	for _, entry := range models.TopWeights(profile.Styles, maxQueryTerms) {
		if len(terms) == maxQueryTerms {
			break
		}
		terms = append(terms, entry.Name)
	}
	return terms
}
