package strategy

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/cratewise/cratewise/pkg/models"
)

type ContentStrategyTestSuite struct {
	suite.Suite
	userID uuid.UUID
}

func TestContentStrategyTestSuite(t *testing.T) {
	suite.Run(t, new(ContentStrategyTestSuite))
}

func (s *ContentStrategyTestSuite) SetupTest() {
	s.userID = uuid.New()
}

func (s *ContentStrategyTestSuite) newStrategy(albums []models.CandidateAlbum, owned map[int64]struct{}) *ContentStrategy {
	return NewContentStrategy(&fakeCandidates{albums: albums}, &fakeOwned{ids: owned})
}

func (s *ContentStrategyTestSuite) TestExactGenreMatchScoresHigh() {
	profile := &models.TasteProfile{Genres: map[string]float64{"Jazz": 1.0}}
	strat := s.newStrategy([]models.CandidateAlbum{
		{ID: 1, Title: "Speak No Evil", Artist: "Wayne Shorter", Genres: []string{"Jazz"}, HaveCount: 500},
		{ID: 2, Title: "Ride the Lightning", Artist: "Metallica", Genres: []string{"Metal"}, HaveCount: 900},
	}, nil)

	scores, err := strat.Score(context.Background(), s.userID, profile, 10)
	s.Require().NoError(err)
	s.Require().Len(scores, 1)
	s.Equal(int64(1), scores[0].AlbumID)
	s.Greater(scores[0].Score, 0.9)
}

func (s *ContentStrategyTestSuite) TestExcludesKnownAlbums() {
	strat := s.newStrategy([]models.CandidateAlbum{
		{ID: 1, Genres: []string{"Jazz"}},
		{ID: 2, Genres: []string{"Jazz"}},
	}, map[int64]struct{}{1: {}})

	scores, err := strat.Score(context.Background(), s.userID, jazzProfile(), 10)
	s.Require().NoError(err)
	s.Require().Len(scores, 1)
	s.Equal(int64(2), scores[0].AlbumID)
}

func (s *ContentStrategyTestSuite) TestEmptyProfileReturnsNothing() {
	strat := s.newStrategy([]models.CandidateAlbum{{ID: 1, Genres: []string{"Jazz"}}}, nil)

	scores, err := strat.Score(context.Background(), s.userID, &models.TasteProfile{}, 10)
	s.Require().NoError(err)
	s.Empty(scores)

	scores, err = strat.Score(context.Background(), s.userID, nil, 10)
	s.Require().NoError(err)
	s.Empty(scores)
}

func (s *ContentStrategyTestSuite) TestScoresBoundedAndSorted() {
	albums := []models.CandidateAlbum{
		{ID: 1, Genres: []string{"Jazz"}, Styles: []string{"Hard Bop"}},
		{ID: 2, Genres: []string{"Jazz", "Funk"}},
		{ID: 3, Genres: []string{"Electronic"}, Styles: []string{"Ambient"}},
		{ID: 4, Genres: []string{"Funk"}},
	}
	strat := s.newStrategy(albums, nil)

	scores, err := strat.Score(context.Background(), s.userID, jazzProfile(), 10)
	s.Require().NoError(err)
	s.Require().NotEmpty(scores)
	for i, sc := range scores {
		s.GreaterOrEqual(sc.Score, 0.0)
		s.LessOrEqual(sc.Score, 1.0)
		s.Equal(models.StrategyContent, sc.Strategy)
		if i > 0 {
			s.GreaterOrEqual(scores[i-1].Score, sc.Score)
		}
	}
	// Nothing in the pool matches Electronic/Ambient.
	for _, sc := range scores {
		s.NotEqual(int64(3), sc.AlbumID)
	}
}

func (s *ContentStrategyTestSuite) TestLimitTruncates() {
	albums := make([]models.CandidateAlbum, 0, 8)
	for i := int64(1); i <= 8; i++ {
		albums = append(albums, models.CandidateAlbum{ID: i, Genres: []string{"Jazz"}})
	}
	strat := s.newStrategy(albums, nil)

	scores, err := strat.Score(context.Background(), s.userID, jazzProfile(), 3)
	s.Require().NoError(err)
	s.Len(scores, 3)
	// Equal scores break ties by album id.
	s.Equal(int64(1), scores[0].AlbumID)
	s.Equal(int64(2), scores[1].AlbumID)
	s.Equal(int64(3), scores[2].AlbumID)
}

func (s *ContentStrategyTestSuite) TestExplanationNamesMatchedGenres() {
	strat := s.newStrategy([]models.CandidateAlbum{
		{ID: 1, Genres: []string{"Jazz", "Funk"}},
	}, nil)

	scores, err := strat.Score(context.Background(), s.userID, jazzProfile(), 10)
	s.Require().NoError(err)
	s.Require().Len(scores, 1)
	s.Contains(scores[0].Explanation, "Jazz")
}

func TestBlendedSimilarity(t *testing.T) {
	profile := &models.TasteProfile{
		Genres: map[string]float64{"Jazz": 1.0},
		Styles: map[string]float64{"Hard Bop": 1.0},
	}

	tests := []struct {
		name   string
		genres []string
		styles []string
		want   float64
	}{
		{"both exact", []string{"Jazz"}, []string{"Hard Bop"}, 1.0},
		{"genre only, full weight", []string{"Jazz"}, nil, 1.0},
		{"style only, full weight", nil, []string{"Hard Bop"}, 1.0},
		{"style mismatch drags 40%", []string{"Jazz"}, []string{"Fusion"}, 0.6},
		{"no overlap", []string{"Country"}, []string{"Honky Tonk"}, 0.0},
		{"no attributes", nil, nil, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BlendedSimilarity(profile, tt.genres, tt.styles)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("BlendedSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}
