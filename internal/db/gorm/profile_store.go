// Package gorm provides the GORM-backed persistence layer for cratewise.
package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gormdb "gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cratewise/cratewise/pkg/models"
)

// ProfileStore persists computed taste profiles, one row per user.
type ProfileStore struct {
	db *gormdb.DB
}

// NewProfileStore creates a ProfileStore backed by the shared connection.
func NewProfileStore(store *Store) *ProfileStore {
	return &ProfileStore{db: store.DB}
}

// GetProfile returns the user's stored profile, or nil when none exists.
func (s *ProfileStore) GetProfile(ctx context.Context, userID uuid.UUID) (*models.TasteProfile, error) {
	var row TasteProfileRow
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID.String()).
		First(&row).Error
	if errors.Is(err, gormdb.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	return &models.TasteProfile{
		Genres:     row.Genres,
		Styles:     row.Styles,
		Eras:       row.Eras,
		Labels:     row.Labels,
		Artists:    row.Artists,
		ComputedAt: time.UnixMilli(row.ComputedAtEpoch).UTC(),
	}, nil
}

// SaveProfile upserts the user's profile.
func (s *ProfileStore) SaveProfile(ctx context.Context, userID uuid.UUID, profile *models.TasteProfile) error {
	row := TasteProfileRow{
		UserID:          userID.String(),
		Genres:          profile.Genres,
		Styles:          profile.Styles,
		Eras:            profile.Eras,
		Labels:          profile.Labels,
		Artists:         profile.Artists,
		ComputedAtEpoch: profile.ComputedAt.UnixMilli(),
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
