// Package recommend fuses the four strategy outputs into one persisted,
// explainable recommendation set per user.
package recommend

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/cratewise/cratewise/pkg/models"
)

// defaultGroupSize is how many albums each presentation group carries.
const defaultGroupSize = 10

// TopPicksTitle is the heading of the fused global group.
const TopPicksTitle = "Top Picks"

var strategyGroupTitles = map[models.StrategyName]string{
	models.StrategyContent:       "More Like Your Collection",
	models.StrategyCollaborative: "Collectors' Favorites",
	models.StrategyGraph:         "Connected Artists",
	models.StrategyAI:            "Curated For You",
}

// Grouped serves the user's recommendations as presentation groups: the
// fused top picks first, then one group per strategy that contributed.
func (s *Service) Grouped(ctx context.Context, userID uuid.UUID) ([]models.RecommendationGroup, error) {
	recs, err := s.Recommendations(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return []models.RecommendationGroup{}, nil
	}

	ids := make([]int64, len(recs))
	for i, rec := range recs {
		ids[i] = rec.AlbumID
	}
	albums, err := s.aggregator.albums.AlbumsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	return BuildGroups(recs, albums, defaultGroupSize), nil
}

// BuildGroups assembles the presentation groups from a fused set. Strategy
// groups rank by that strategy's own score, not the fused one, so each
// group reads as that strategy's voice.
func BuildGroups(recs []models.AggregatedRecommendation, albums map[int64]models.CandidateAlbum, perGroup int) []models.RecommendationGroup {
	if perGroup <= 0 {
		perGroup = defaultGroupSize
	}

	groups := make([]models.RecommendationGroup, 0, 1+len(models.AllStrategies))

	top := models.RecommendationGroup{Title: TopPicksTitle}
	for _, rec := range recs {
		if len(top.Albums) == perGroup {
			break
		}
		top.Albums = append(top.Albums, toRecommendedAlbum(rec, albums, rec.FinalScore))
	}
	groups = append(groups, top)

	for _, name := range models.AllStrategies {
		var contributed []models.AggregatedRecommendation
		for _, rec := range recs {
			if rec.ScoreFor(name) > 0 {
				contributed = append(contributed, rec)
			}
		}
		if len(contributed) == 0 {
			continue
		}

		sort.Slice(contributed, func(i, j int) bool {
			si, sj := contributed[i].ScoreFor(name), contributed[j].ScoreFor(name)
			if si != sj {
				return si > sj
			}
			return contributed[i].AlbumID < contributed[j].AlbumID
		})
		if len(contributed) > perGroup {
			contributed = contributed[:perGroup]
		}

		group := models.RecommendationGroup{Title: strategyGroupTitles[name], Strategy: name}
		for _, rec := range contributed {
			group.Albums = append(group.Albums, toRecommendedAlbum(rec, albums, rec.ScoreFor(name)))
		}
		groups = append(groups, group)
	}

	return groups
}

func toRecommendedAlbum(rec models.AggregatedRecommendation, albums map[int64]models.CandidateAlbum, score float64) models.RecommendedAlbum {
	album := albums[rec.AlbumID]
	return models.RecommendedAlbum{
		AlbumID:     rec.AlbumID,
		Title:       album.Title,
		Artist:      album.Artist,
		CoverURL:    album.CoverURL,
		Year:        album.Year,
		Genres:      album.Genres,
		Score:       score,
		Explanation: rec.Explanation,
	}
}
