// Package gorm provides the GORM-backed persistence layer for cratewise.
package gorm

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	gormdb "gorm.io/gorm"

	"github.com/cratewise/cratewise/pkg/models"
)

// catalogInsertBatch bounds one INSERT statement in ReplaceCatalog.
const catalogInsertBatch = 200

// CatalogStore persists the per-user album catalogs.
type CatalogStore struct {
	db *gormdb.DB
}

// NewCatalogStore creates a CatalogStore backed by the shared connection.
func NewCatalogStore(store *Store) *CatalogStore {
	return &CatalogStore{db: store.DB}
}

// UserCatalog returns every catalog entry for the user.
func (s *CatalogStore) UserCatalog(ctx context.Context, userID uuid.UUID) ([]models.CatalogEntry, error) {
	var rows []CatalogItem
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID.String()).
		Order("added_at_epoch DESC, album_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	entries := make([]models.CatalogEntry, len(rows))
	for i, row := range rows {
		entries[i] = models.CatalogEntry{
			AlbumID:  row.AlbumID,
			Title:    row.Title,
			Artist:   row.Artist,
			ArtistID: row.ArtistID,
			Label:    row.Label,
			Year:     row.Year,
			Genres:   row.Genres,
			Styles:   row.Styles,
			Status:   models.CatalogStatus(row.Status),
			Rating:   row.Rating,
		}
	}
	return entries, nil
}

// OwnedAlbumIDs returns the ids of every album the user has in any status.
// Strategies exclude these from scoring.
func (s *CatalogStore) OwnedAlbumIDs(ctx context.Context, userID uuid.UUID) (map[int64]struct{}, error) {
	var ids []int64
	err := s.db.WithContext(ctx).
		Model(&CatalogItem{}).
		Where("user_id = ?", userID.String()).
		Pluck("album_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("load owned ids: %w", err)
	}

	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// ReplaceCatalog swaps the user's catalog for the given entries in one
// transaction.
func (s *CatalogStore) ReplaceCatalog(ctx context.Context, userID uuid.UUID, entries []models.CatalogEntry) error {
	rows := make([]CatalogItem, len(entries))
	for i, entry := range entries {
		rows[i] = CatalogItem{
			UserID:   userID.String(),
			AlbumID:  entry.AlbumID,
			Title:    entry.Title,
			Artist:   entry.Artist,
			ArtistID: entry.ArtistID,
			Label:    entry.Label,
			Year:     entry.Year,
			Genres:   models.JSONStringArray(entry.Genres),
			Styles:   models.JSONStringArray(entry.Styles),
			Status:   string(entry.Status),
			Rating:   entry.Rating,
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gormdb.DB) error {
		if err := tx.Where("user_id = ?", userID.String()).Delete(&CatalogItem{}).Error; err != nil {
			return fmt.Errorf("clear catalog: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, catalogInsertBatch).Error; err != nil {
			return fmt.Errorf("insert catalog: %w", err)
		}
		return nil
	})
}
