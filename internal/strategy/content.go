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
	// contentGenreWeight and contentStyleWeight blend the two similarity
	// components. Tunable constants, not derived values.
	contentGenreWeight = 0.6
	contentStyleWeight = 0.4

	// contentPoolSize caps how many catalog candidates one run considers.
	contentPoolSize = 2000
)

// ContentStrategy scores candidates by vector similarity between the taste
// profile and each candidate's genre/style attributes.
type ContentStrategy struct {
	candidates CandidateSource
	owned      OwnedSetReader
}

// NewContentStrategy creates the content similarity strategy.
func NewContentStrategy(candidates CandidateSource, owned OwnedSetReader) *ContentStrategy {
	return &ContentStrategy{candidates: candidates, owned: owned}
}

// Name implements Strategy.
func (s *ContentStrategy) Name() models.StrategyName { return models.StrategyContent }

// Score implements Strategy.
func (s *ContentStrategy) Score(ctx context.Context, userID uuid.UUID, profile *models.TasteProfile, limit int) ([]models.StrategyScore, error) {
	if profile == nil || (len(profile.Genres) == 0 && len(profile.Styles) == 0) {
		return nil, nil
	}

	ownedSet, err := s.owned.OwnedAlbumIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load owned set: %w", err)
	}

	pool, err := s.candidates.TopByHaveCount(ctx, contentPoolSize)
	if err != nil {
		return nil, fmt.Errorf("load candidate pool: %w", err)
	}

	scores := make([]models.StrategyScore, 0, len(pool))
	for _, cand := range pool {
		if _, known := ownedSet[cand.ID]; known {
			continue
		}

		score := BlendedSimilarity(profile, cand.Genres, cand.Styles)
		if score <= 0 {
			continue
		}

		scores = append(scores, models.StrategyScore{
			AlbumID:     cand.ID,
			Score:       clamp01(score),
			Explanation: s.explain(profile, cand),
			Strategy:    models.StrategyContent,
		})
	}

	return sortAndTruncate(scores, limit), nil
}

// BlendedSimilarity combines genre and style cosine similarity 60/40. When
// one side has no signal on either end, the other side takes the full
// weight, so a perfect genre match is not penalized for missing style data.
func BlendedSimilarity(profile *models.TasteProfile, genres, styles []string) float64 {
	genreVec := similarity.UniformVector(genres)
	styleVec := similarity.UniformVector(styles)

	genreSim := similarity.Cosine(profile.Genres, genreVec)
	styleSim := similarity.Cosine(profile.Styles, styleVec)

	hasGenre := len(profile.Genres) > 0 && len(genreVec) > 0
	hasStyle := len(profile.Styles) > 0 && len(styleVec) > 0

	switch {
	case hasGenre && hasStyle:
		return contentGenreWeight*genreSim + contentStyleWeight*styleSim
	case hasGenre:
		return genreSim
	case hasStyle:
		return styleSim
	default:
		return 0
	}
}

func (s *ContentStrategy) explain(profile *models.TasteProfile, cand models.CandidateAlbum) string {
	matched := similarity.Overlap(profile.Genres, similarity.UniformVector(cand.Genres))
	if len(matched) > 2 {
		matched = matched[:2]
	}
	if len(matched) == 0 {
		matched = similarity.Overlap(profile.Styles, similarity.UniformVector(cand.Styles))
		if len(matched) > 2 {
			matched = matched[:2]
		}
	}
	if len(matched) == 0 {
		return "Close to your overall listening profile"
	}
	return fmt.Sprintf("Matches your taste in %s", strings.Join(matched, ", "))
}
