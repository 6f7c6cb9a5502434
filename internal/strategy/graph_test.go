package strategy

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/cratewise/cratewise/pkg/models"
)

type GraphStrategyTestSuite struct {
	suite.Suite
	userID uuid.UUID
}

func TestGraphStrategyTestSuite(t *testing.T) {
	suite.Run(t, new(GraphStrategyTestSuite))
}

func (s *GraphStrategyTestSuite) SetupTest() {
	s.userID = uuid.New()
}

// catalogWithMiles maps the profile's top artist to an external id.
func catalogWithMiles() *fakeCatalog {
	return &fakeCatalog{entries: []models.CatalogEntry{
		{AlbumID: 100, Artist: "Miles Davis", ArtistID: "art-miles"},
		{AlbumID: 101, Artist: "Herbie Hancock", ArtistID: "art-herbie"},
	}}
}

func (s *GraphStrategyTestSuite) TestRelatedArtistAlbumsScored() {
	relations := &fakeRelations{edges: map[string][]models.ArtistRelation{
		"art-miles": {
			{ArtistID: "art-shorter", ArtistName: "Wayne Shorter", Type: "Collaboration"},
		},
	}}
	candidates := &fakeCandidates{albums: []models.CandidateAlbum{
		{ID: 1, Title: "Speak No Evil", Artist: "Wayne Shorter", ArtistID: "art-shorter"},
	}}
	strat := NewGraphStrategy(relations, catalogWithMiles(), candidates, &fakeOwned{}, nil)

	scores, err := strat.Score(context.Background(), s.userID, jazzProfile(), 10)
	s.Require().NoError(err)
	s.Require().Len(scores, 1)
	s.Equal(int64(1), scores[0].AlbumID)
	s.InDelta(0.8, scores[0].Score, 1e-9)
	s.Contains(scores[0].Explanation, "Wayne Shorter")
	s.Contains(scores[0].Explanation, "collaboration")
	s.Contains(scores[0].Explanation, "Miles Davis")
}

func (s *GraphStrategyTestSuite) TestStrongestPathWinsPerAlbum() {
	// The same album is reachable as a collaboration (0.8) and a remix
	// (0.5); the max must be kept, never the sum.
	relations := &fakeRelations{edges: map[string][]models.ArtistRelation{
		"art-miles": {
			{ArtistID: "art-x", ArtistName: "X", Type: "Remix"},
		},
		"art-herbie": {
			{ArtistID: "art-x", ArtistName: "X", Type: "Collaboration"},
		},
	}}
	candidates := &fakeCandidates{albums: []models.CandidateAlbum{
		{ID: 1, Artist: "X", ArtistID: "art-x"},
	}}
	strat := NewGraphStrategy(relations, catalogWithMiles(), candidates, &fakeOwned{}, nil)

	scores, err := strat.Score(context.Background(), s.userID, jazzProfile(), 10)
	s.Require().NoError(err)
	s.Require().Len(scores, 1)
	s.InDelta(0.8, scores[0].Score, 1e-9)
}

func (s *GraphStrategyTestSuite) TestUnknownRelationTypeGetsDefaultWeight() {
	relations := &fakeRelations{edges: map[string][]models.ArtistRelation{
		"art-miles": {
			{ArtistID: "art-x", ArtistName: "X", Type: "Tribute Act"},
		},
	}}
	candidates := &fakeCandidates{albums: []models.CandidateAlbum{
		{ID: 1, Artist: "X", ArtistID: "art-x"},
	}}
	strat := NewGraphStrategy(relations, catalogWithMiles(), candidates, &fakeOwned{}, nil)

	scores, err := strat.Score(context.Background(), s.userID, jazzProfile(), 10)
	s.Require().NoError(err)
	s.Require().Len(scores, 1)
	s.InDelta(models.DefaultRelationWeight, scores[0].Score, 1e-9)
}

func (s *GraphStrategyTestSuite) TestAllFetchesFailingYieldsEmptyNotError() {
	relations := &fakeRelations{err: errExternal}
	candidates := &fakeCandidates{albums: []models.CandidateAlbum{
		{ID: 1, Artist: "X", ArtistID: "art-x"},
	}}
	strat := NewGraphStrategy(relations, catalogWithMiles(), candidates, &fakeOwned{}, nil)

	scores, err := strat.Score(context.Background(), s.userID, jazzProfile(), 10)
	s.Require().NoError(err)
	s.Empty(scores)
	s.Equal(2, relations.calls) // both seeds were still attempted
}

func (s *GraphStrategyTestSuite) TestKnownAlbumsExcluded() {
	relations := &fakeRelations{edges: map[string][]models.ArtistRelation{
		"art-miles": {
			{ArtistID: "art-x", ArtistName: "X", Type: "Producer"},
		},
	}}
	candidates := &fakeCandidates{albums: []models.CandidateAlbum{
		{ID: 1, Artist: "X", ArtistID: "art-x"},
		{ID: 2, Artist: "X", ArtistID: "art-x"},
	}}
	strat := NewGraphStrategy(relations, catalogWithMiles(), candidates, &fakeOwned{ids: map[int64]struct{}{1: {}}}, nil)

	scores, err := strat.Score(context.Background(), s.userID, jazzProfile(), 10)
	s.Require().NoError(err)
	s.Require().Len(scores, 1)
	s.Equal(int64(2), scores[0].AlbumID)
}

func (s *GraphStrategyTestSuite) TestNoArtistSignalReturnsNothing() {
	strat := NewGraphStrategy(&fakeRelations{}, catalogWithMiles(), &fakeCandidates{}, &fakeOwned{}, nil)

	scores, err := strat.Score(context.Background(), s.userID, &models.TasteProfile{Genres: map[string]float64{"Jazz": 1.0}}, 10)
	s.Require().NoError(err)
	s.Empty(scores)
}

func (s *GraphStrategyTestSuite) TestSeedsSkipArtistsWithoutExternalID() {
	// Herbie has no catalog id here, so only Miles seeds the walk.
	catalog := &fakeCatalog{entries: []models.CatalogEntry{
		{AlbumID: 100, Artist: "Miles Davis", ArtistID: "art-miles"},
		{AlbumID: 101, Artist: "Herbie Hancock"},
	}}
	relations := &fakeRelations{edges: map[string][]models.ArtistRelation{}}
	strat := NewGraphStrategy(relations, catalog, &fakeCandidates{}, &fakeOwned{}, nil)

	_, err := strat.Score(context.Background(), s.userID, jazzProfile(), 10)
	s.Require().NoError(err)
	s.Equal(1, relations.calls)
}

func (s *GraphStrategyTestSuite) TestCustomWeightTable() {
	relations := &fakeRelations{edges: map[string][]models.ArtistRelation{
		"art-miles": {
			{ArtistID: "art-x", ArtistName: "X", Type: "Collaboration"},
		},
	}}
	candidates := &fakeCandidates{albums: []models.CandidateAlbum{
		{ID: 1, Artist: "X", ArtistID: "art-x"},
	}}
	strat := NewGraphStrategy(relations, catalogWithMiles(), candidates, &fakeOwned{},
		map[string]float64{"collaboration": 0.95})

	scores, err := strat.Score(context.Background(), s.userID, jazzProfile(), 10)
	s.Require().NoError(err)
	s.Require().Len(scores, 1)
	s.InDelta(0.95, scores[0].Score, 1e-9)
}
