package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cratewise/cratewise/pkg/models"
	"github.com/cratewise/cratewise/pkg/similarity"
)

const (
	// Component weights for the collaborative blend.
	collabNicheWeight      = 0.5
	collabPopularityWeight = 0.3
	collabDemandWeight     = 0.2

	// collabMinNicheMatch discards candidates whose taste fit is pure noise.
	collabMinNicheMatch = 0.1

	// collabPoolSize caps the candidate pool, taken by community have-count.
	collabPoolSize = 2000

	// demandCap limits the want/have ratio so tiny pressings with three
	// owners and six wants don't dominate.
	demandCap = 2.0
)

// CollaborativeStrategy blends taste fit with community ownership and
// demand signals.
type CollaborativeStrategy struct {
	candidates CandidateSource
	owned      OwnedSetReader
}

// NewCollaborativeStrategy creates the community-signal strategy.
func NewCollaborativeStrategy(candidates CandidateSource, owned OwnedSetReader) *CollaborativeStrategy {
	return &CollaborativeStrategy{candidates: candidates, owned: owned}
}

// Name implements Strategy.
func (s *CollaborativeStrategy) Name() models.StrategyName { return models.StrategyCollaborative }

// Score implements Strategy.
func (s *CollaborativeStrategy) Score(ctx context.Context, userID uuid.UUID, profile *models.TasteProfile, limit int) ([]models.StrategyScore, error) {
	if profile == nil || profile.IsEmpty() {
		return nil, nil
	}

	ownedSet, err := s.owned.OwnedAlbumIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load owned set: %w", err)
	}

	pool, err := s.candidates.TopByHaveCount(ctx, collabPoolSize)
	if err != nil {
		return nil, fmt.Errorf("load candidate pool: %w", err)
	}

	maxHave := 0
	for _, cand := range pool {
		if cand.HaveCount > maxHave {
			maxHave = cand.HaveCount
		}
	}
	if maxHave == 0 {
		return nil, nil
	}

	scores := make([]models.StrategyScore, 0, len(pool))
	for _, cand := range pool {
		if cand.HaveCount == 0 {
			continue
		}
		if _, known := ownedSet[cand.ID]; known {
			continue
		}

		nicheMatch := BlendedSimilarity(profile, cand.Genres, cand.Styles)
		if nicheMatch < collabMinNicheMatch {
			continue
		}

		popularity := float64(cand.HaveCount) / float64(maxHave)
		demand := demandRatio(cand)

		score := collabNicheWeight*nicheMatch +
			collabPopularityWeight*popularity +
			collabDemandWeight*demand

		scores = append(scores, models.StrategyScore{
			AlbumID:     cand.ID,
			Score:       clamp01(score),
			Explanation: s.explain(profile, cand),
			Strategy:    models.StrategyCollaborative,
		})
	}

	return sortAndTruncate(scores, limit), nil
}

// demandRatio normalizes want/have into [0,1], capped at demandCap.
func demandRatio(cand models.CandidateAlbum) float64 {
	if cand.HaveCount == 0 {
		return 0
	}
	ratio := float64(cand.WantCount) / float64(cand.HaveCount)
	if ratio > demandCap {
		ratio = demandCap
	}
	return ratio / demandCap
}

func (s *CollaborativeStrategy) explain(profile *models.TasteProfile, cand models.CandidateAlbum) string {
	parts := make([]string, 0, 2)

	matched := similarity.Overlap(profile.Genres, similarity.UniformVector(cand.Genres))
	if len(matched) > 0 {
		if len(matched) > 2 {
			matched = matched[:2]
		}
		parts = append(parts, fmt.Sprintf("Popular with %s collectors", strings.Join(matched, "/")))
	} else {
		parts = append(parts, "Popular in the community")
	}

	if cand.WantCount > cand.HaveCount {
		parts = append(parts, "highly sought after")
	}

	return strings.Join(parts, ", ")
}
