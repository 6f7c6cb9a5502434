// Package gorm provides the GORM-backed persistence layer for cratewise.
package gorm

import (
	"time"

	"gorm.io/gorm"

	"github.com/cratewise/cratewise/pkg/models"
)

// CatalogItem is one album in a user's personal catalog.
type CatalogItem struct {
	UserID       string                 `gorm:"type:text;not null;index;uniqueIndex:idx_catalog_user_album,priority:1"`
	AlbumID      int64                  `gorm:"not null;uniqueIndex:idx_catalog_user_album,priority:2"`
	Title        string                 `gorm:"not null"`
	Artist       string                 `gorm:"index;not null"`
	ArtistID     string                 `gorm:"index"`
	Label        string
	Year         int
	Genres       models.JSONStringArray `gorm:"type:text"`
	Styles       models.JSONStringArray `gorm:"type:text"`
	Status       string                 `gorm:"type:text;check:status IN ('owned', 'wanted', 'listened');not null;index"`
	Rating       int                    `gorm:"default:0"`
	ID           int64                  `gorm:"primaryKey;autoIncrement"`
	AddedAtEpoch int64                  `gorm:"index;not null"`
}

func (CatalogItem) TableName() string { return "catalog_items" }

// BeforeCreate stamps the addition time.
func (c *CatalogItem) BeforeCreate(tx *gorm.DB) error {
	if c.AddedAtEpoch == 0 {
		c.AddedAtEpoch = time.Now().UnixMilli()
	}
	return nil
}

// Album is one entry in the shared candidate pool, keyed by the external
// release id and refreshed from the catalog service.
type Album struct {
	ID               int64                  `gorm:"primaryKey"`
	Title            string                 `gorm:"not null"`
	Artist           string                 `gorm:"index;not null"`
	ArtistID         string                 `gorm:"index"`
	Label            string
	Year             int
	Genres           models.JSONStringArray `gorm:"type:text"`
	Styles           models.JSONStringArray `gorm:"type:text"`
	CoverURL         string
	HaveCount        int                    `gorm:"index:idx_albums_have,sort:desc;default:0"`
	WantCount        int                    `gorm:"default:0"`
	CommunityRating  float64                `gorm:"index:idx_albums_rating,sort:desc;default:0"`
	CommunityRatings int                    `gorm:"default:0"`
	UpdatedAtEpoch   int64                  `gorm:"not null"`
}

func (Album) TableName() string { return "albums" }

// BeforeSave stamps the refresh time.
func (a *Album) BeforeSave(tx *gorm.DB) error {
	if a.UpdatedAtEpoch == 0 {
		a.UpdatedAtEpoch = time.Now().UnixMilli()
	}
	return nil
}

// TasteProfileRow is the persisted taste profile, one row per user.
type TasteProfileRow struct {
	UserID          string               `gorm:"type:text;primaryKey"`
	Genres          models.JSONWeightMap `gorm:"type:text"`
	Styles          models.JSONWeightMap `gorm:"type:text"`
	Eras            models.JSONWeightMap `gorm:"type:text"`
	Labels          models.JSONWeightMap `gorm:"type:text"`
	Artists         models.JSONWeightMap `gorm:"type:text"`
	ComputedAtEpoch int64                `gorm:"not null"`
}

func (TasteProfileRow) TableName() string { return "taste_profiles" }

// Recommendation is one fused recommendation row. Zero in a strategy score
// column means that strategy did not score the album.
type Recommendation struct {
	UserID             string  `gorm:"type:text;not null;uniqueIndex:idx_recs_user_album,priority:1;index:idx_recs_user_final,priority:1"`
	AlbumID            int64   `gorm:"not null;uniqueIndex:idx_recs_user_album,priority:2"`
	ContentScore       float64 `gorm:"default:0"`
	CollaborativeScore float64 `gorm:"default:0"`
	GraphScore         float64 `gorm:"default:0"`
	AIScore            float64 `gorm:"default:0"`
	FinalScore         float64 `gorm:"index:idx_recs_user_final,priority:2,sort:desc;not null"`
	BestStrategy       string  `gorm:"type:text;not null"`
	Explanation        string  `gorm:"type:text"`
	MultiStrategy      bool    `gorm:"default:false"`
	ID                 int64   `gorm:"primaryKey;autoIncrement"`
	ComputedAtEpoch    int64   `gorm:"not null"`
}

func (Recommendation) TableName() string { return "recommendations" }
