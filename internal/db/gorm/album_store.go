// Package gorm provides the GORM-backed persistence layer for cratewise.
package gorm

import (
	"context"
	"fmt"
	"time"

	gormdb "gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cratewise/cratewise/pkg/models"
)

// albumUpsertBatch bounds one upsert statement in Upsert.
const albumUpsertBatch = 200

// AlbumStore persists the shared candidate album pool.
type AlbumStore struct {
	db *gormdb.DB
}

// NewAlbumStore creates an AlbumStore backed by the shared connection.
func NewAlbumStore(store *Store) *AlbumStore {
	return &AlbumStore{db: store.DB}
}

// TopByHaveCount returns up to limit candidates ordered by community
// have-count, descending.
func (s *AlbumStore) TopByHaveCount(ctx context.Context, limit int) ([]models.CandidateAlbum, error) {
	var rows []Album
	err := s.db.WithContext(ctx).
		Order("have_count DESC, id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load albums by have count: %w", err)
	}
	return toCandidates(rows), nil
}

// TopByCommunityRating returns up to limit candidates ordered by aggregate
// community rating, descending.
func (s *AlbumStore) TopByCommunityRating(ctx context.Context, limit int) ([]models.CandidateAlbum, error) {
	var rows []Album
	err := s.db.WithContext(ctx).
		Order("community_rating DESC, id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load albums by rating: %w", err)
	}
	return toCandidates(rows), nil
}

// AlbumsByArtist returns candidates credited to the artist, matched by
// external id when present, falling back to exact name.
func (s *AlbumStore) AlbumsByArtist(ctx context.Context, artistID, artistName string) ([]models.CandidateAlbum, error) {
	query := s.db.WithContext(ctx).Order("have_count DESC, id ASC")
	if artistID != "" {
		query = query.Where("artist_id = ? OR artist = ?", artistID, artistName)
	} else {
		query = query.Where("artist = ?", artistName)
	}

	var rows []Album
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load albums by artist: %w", err)
	}
	return toCandidates(rows), nil
}

// AlbumsByIDs returns the candidates with the given ids, keyed by id.
func (s *AlbumStore) AlbumsByIDs(ctx context.Context, ids []int64) (map[int64]models.CandidateAlbum, error) {
	if len(ids) == 0 {
		return map[int64]models.CandidateAlbum{}, nil
	}

	var rows []Album
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load albums by ids: %w", err)
	}

	byID := make(map[int64]models.CandidateAlbum, len(rows))
	for _, cand := range toCandidates(rows) {
		byID[cand.ID] = cand
	}
	return byID, nil
}

// Upsert inserts or refreshes pool entries, keyed by external release id.
func (s *AlbumStore) Upsert(ctx context.Context, albums []models.CandidateAlbum) error {
	if len(albums) == 0 {
		return nil
	}

	now := time.Now().UnixMilli()
	rows := make([]Album, len(albums))
	for i, cand := range albums {
		rows[i] = Album{
			ID:               cand.ID,
			Title:            cand.Title,
			Artist:           cand.Artist,
			ArtistID:         cand.ArtistID,
			Label:            cand.Label,
			Year:             cand.Year,
			Genres:           models.JSONStringArray(cand.Genres),
			Styles:           models.JSONStringArray(cand.Styles),
			CoverURL:         cand.CoverURL,
			HaveCount:        cand.HaveCount,
			WantCount:        cand.WantCount,
			CommunityRating:  cand.CommunityRating,
			CommunityRatings: cand.CommunityRatings,
			UpdatedAtEpoch:   now,
		}
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		CreateInBatches(rows, albumUpsertBatch).Error
	if err != nil {
		return fmt.Errorf("upsert albums: %w", err)
	}
	return nil
}

func toCandidates(rows []Album) []models.CandidateAlbum {
	out := make([]models.CandidateAlbum, len(rows))
	for i, row := range rows {
		out[i] = models.CandidateAlbum{
			ID:               row.ID,
			Title:            row.Title,
			Artist:           row.Artist,
			ArtistID:         row.ArtistID,
			Label:            row.Label,
			Year:             row.Year,
			Genres:           row.Genres,
			Styles:           row.Styles,
			CoverURL:         row.CoverURL,
			HaveCount:        row.HaveCount,
			WantCount:        row.WantCount,
			CommunityRating:  row.CommunityRating,
			CommunityRatings: row.CommunityRatings,
		}
	}
	return out
}
