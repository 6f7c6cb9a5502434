// Package strategy implements the four independent recommendation scoring
// strategies: content, collaborative, graph, and AI.
package strategy

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/cratewise/cratewise/pkg/models"
)

// Strategy scores candidate albums for a user. Implementations never return
// albums already in the user's catalog, keep scores in [0,1], and return
// results sorted descending, truncated to limit.
type Strategy interface {
	Name() models.StrategyName
	Score(ctx context.Context, userID uuid.UUID, profile *models.TasteProfile, limit int) ([]models.StrategyScore, error)
}

// CandidateSource provides read access to the shared album catalog.
type CandidateSource interface {
	// TopByHaveCount returns up to limit candidates ordered by community
	// have-count, descending.
	TopByHaveCount(ctx context.Context, limit int) ([]models.CandidateAlbum, error)
	// TopByCommunityRating returns up to limit candidates ordered by
	// aggregate community rating, descending.
	TopByCommunityRating(ctx context.Context, limit int) ([]models.CandidateAlbum, error)
	// AlbumsByArtist returns candidates credited to the artist, matched by
	// external id when present, falling back to exact name.
	AlbumsByArtist(ctx context.Context, artistID, artistName string) ([]models.CandidateAlbum, error)
}

// OwnedSetReader returns the album ids already owned, wanted, or listened
// by a user. Strategies use it to exclude known albums.
type OwnedSetReader interface {
	OwnedAlbumIDs(ctx context.Context, userID uuid.UUID) (map[int64]struct{}, error)
}

// sortAndTruncate orders scores descending and applies the limit. Ties break
// by album id so repeated runs rank identically.
func sortAndTruncate(scores []models.StrategyScore, limit int) []models.StrategyScore {
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].AlbumID < scores[j].AlbumID
	})
	if limit > 0 && len(scores) > limit {
		scores = scores[:limit]
	}
	return scores
}

// clamp01 clips a score into the closed interval [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
