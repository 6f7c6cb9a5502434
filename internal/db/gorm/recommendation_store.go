// Package gorm provides the GORM-backed persistence layer for cratewise.
package gorm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gormdb "gorm.io/gorm"

	"github.com/cratewise/cratewise/pkg/models"
)

// recInsertBatch bounds one INSERT statement in ReplaceForUser.
const recInsertBatch = 200

// RecommendationStore persists fused recommendation sets.
type RecommendationStore struct {
	db *gormdb.DB
}

// NewRecommendationStore creates a RecommendationStore backed by the shared
// connection.
func NewRecommendationStore(store *Store) *RecommendationStore {
	return &RecommendationStore{db: store.DB}
}

// ReplaceForUser swaps the user's entire recommendation set in one
// transaction, so readers never observe a half-written refresh.
func (s *RecommendationStore) ReplaceForUser(ctx context.Context, userID uuid.UUID, recs []models.AggregatedRecommendation) error {
	rows := make([]Recommendation, len(recs))
	for i, rec := range recs {
		rows[i] = Recommendation{
			UserID:             userID.String(),
			AlbumID:            rec.AlbumID,
			ContentScore:       rec.ContentScore,
			CollaborativeScore: rec.CollaborativeScore,
			GraphScore:         rec.GraphScore,
			AIScore:            rec.AIScore,
			FinalScore:         rec.FinalScore,
			BestStrategy:       string(rec.BestStrategy),
			Explanation:        rec.Explanation,
			MultiStrategy:      rec.MultiStrategy,
			ComputedAtEpoch:    rec.ComputedAt.UnixMilli(),
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gormdb.DB) error {
		if err := tx.Where("user_id = ?", userID.String()).Delete(&Recommendation{}).Error; err != nil {
			return fmt.Errorf("clear recommendations: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, recInsertBatch).Error; err != nil {
			return fmt.Errorf("insert recommendations: %w", err)
		}
		return nil
	})
}

// ListForUser returns the user's recommendations ordered by final score,
// ties broken by album id.
func (s *RecommendationStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.AggregatedRecommendation, error) {
	var rows []Recommendation
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID.String()).
		Order("final_score DESC, album_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load recommendations: %w", err)
	}

	recs := make([]models.AggregatedRecommendation, len(rows))
	for i, row := range rows {
		recs[i] = models.AggregatedRecommendation{
			AlbumID:            row.AlbumID,
			ContentScore:       row.ContentScore,
			CollaborativeScore: row.CollaborativeScore,
			GraphScore:         row.GraphScore,
			AIScore:            row.AIScore,
			FinalScore:         row.FinalScore,
			BestStrategy:       models.StrategyName(row.BestStrategy),
			Explanation:        row.Explanation,
			MultiStrategy:      row.MultiStrategy,
			ComputedAt:         time.UnixMilli(row.ComputedAtEpoch).UTC(),
		}
	}
	return recs, nil
}

// OldestComputedAt returns the oldest compute time among the user's
// recommendations. The zero time means the user has none.
func (s *RecommendationStore) OldestComputedAt(ctx context.Context, userID uuid.UUID) (time.Time, error) {
	var epoch *int64
	err := s.db.WithContext(ctx).
		Model(&Recommendation{}).
		Where("user_id = ?", userID.String()).
		Select("MIN(computed_at_epoch)").
		Scan(&epoch).Error
	if err != nil {
		return time.Time{}, fmt.Errorf("load oldest computed_at: %w", err)
	}
	if epoch == nil {
		return time.Time{}, nil
	}
	return time.UnixMilli(*epoch).UTC(), nil
}
