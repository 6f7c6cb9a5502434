// Package gorm provides the GORM-backed persistence layer for cratewise.
package gorm

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// runMigrations runs all database migrations using gormigrate.
func runMigrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		// Migration 001: catalog and candidate pool tables
		{
			ID: "001_catalog_tables",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&CatalogItem{}); err != nil {
					return err
				}
				return tx.AutoMigrate(&Album{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("catalog_items", "albums")
			},
		},

		// Migration 002: taste profiles
		{
			ID: "002_taste_profiles",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&TasteProfileRow{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("taste_profiles")
			},
		},

		// Migration 003: fused recommendations
		{
			ID: "003_recommendations",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&Recommendation{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("recommendations")
			},
		},
	})

	return m.Migrate()
}
