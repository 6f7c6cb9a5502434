package strategy

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/cratewise/cratewise/pkg/models"
)

type CollaborativeStrategyTestSuite struct {
	suite.Suite
	userID uuid.UUID
}

func TestCollaborativeStrategyTestSuite(t *testing.T) {
	suite.Run(t, new(CollaborativeStrategyTestSuite))
}

func (s *CollaborativeStrategyTestSuite) SetupTest() {
	s.userID = uuid.New()
}

func (s *CollaborativeStrategyTestSuite) newStrategy(albums []models.CandidateAlbum, owned map[int64]struct{}) *CollaborativeStrategy {
	return NewCollaborativeStrategy(&fakeCandidates{albums: albums}, &fakeOwned{ids: owned})
}

func (s *CollaborativeStrategyTestSuite) TestBlendFormula() {
	// Single jazz candidate: nicheMatch 1.0, popularity 1.0 (it is the max),
	// demand 100/1000 = 0.1 ratio -> 0.05 normalized.
	strat := s.newStrategy([]models.CandidateAlbum{
		{ID: 1, Genres: []string{"Jazz"}, HaveCount: 1000, WantCount: 100},
	}, nil)
	profile := &models.TasteProfile{Genres: map[string]float64{"Jazz": 1.0}}

	scores, err := strat.Score(context.Background(), s.userID, profile, 10)
	s.Require().NoError(err)
	s.Require().Len(scores, 1)
	s.InDelta(0.5*1.0+0.3*1.0+0.2*0.05, scores[0].Score, 1e-9)
}

func (s *CollaborativeStrategyTestSuite) TestDemandRatioCapped() {
	// 3 owners, 60 wants: raw ratio 20 is capped at 2, normalizing to 1.0.
	cand := models.CandidateAlbum{HaveCount: 3, WantCount: 60}
	s.InDelta(1.0, demandRatio(cand), 1e-9)

	cand = models.CandidateAlbum{HaveCount: 100, WantCount: 100}
	s.InDelta(0.5, demandRatio(cand), 1e-9)

	cand = models.CandidateAlbum{HaveCount: 0, WantCount: 50}
	s.Zero(demandRatio(cand))
}

func (s *CollaborativeStrategyTestSuite) TestDiscardsWeakTasteFit() {
	strat := s.newStrategy([]models.CandidateAlbum{
		{ID: 1, Genres: []string{"Gospel"}, HaveCount: 5000, WantCount: 5000},
	}, nil)
	profile := &models.TasteProfile{Genres: map[string]float64{"Jazz": 1.0}}

	scores, err := strat.Score(context.Background(), s.userID, profile, 10)
	s.Require().NoError(err)
	s.Empty(scores)
}

func (s *CollaborativeStrategyTestSuite) TestSkipsZeroHaveAndKnown() {
	strat := s.newStrategy([]models.CandidateAlbum{
		{ID: 1, Genres: []string{"Jazz"}, HaveCount: 0, WantCount: 80},
		{ID: 2, Genres: []string{"Jazz"}, HaveCount: 40},
		{ID: 3, Genres: []string{"Jazz"}, HaveCount: 60},
	}, map[int64]struct{}{3: {}})
	profile := &models.TasteProfile{Genres: map[string]float64{"Jazz": 1.0}}

	scores, err := strat.Score(context.Background(), s.userID, profile, 10)
	s.Require().NoError(err)
	s.Require().Len(scores, 1)
	s.Equal(int64(2), scores[0].AlbumID)
}

func (s *CollaborativeStrategyTestSuite) TestEmptyPoolReturnsNothing() {
	strat := s.newStrategy(nil, nil)

	scores, err := strat.Score(context.Background(), s.userID, jazzProfile(), 10)
	s.Require().NoError(err)
	s.Empty(scores)
}

func (s *CollaborativeStrategyTestSuite) TestExplanationMentionsDemand() {
	strat := s.newStrategy([]models.CandidateAlbum{
		{ID: 1, Genres: []string{"Jazz"}, HaveCount: 10, WantCount: 50},
	}, nil)
	profile := &models.TasteProfile{Genres: map[string]float64{"Jazz": 1.0}}

	scores, err := strat.Score(context.Background(), s.userID, profile, 10)
	s.Require().NoError(err)
	s.Require().Len(scores, 1)
	s.Contains(scores[0].Explanation, "Jazz")
	s.Contains(scores[0].Explanation, "highly sought after")
}
