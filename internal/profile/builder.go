// Package profile builds normalized taste profiles from user catalogs.
package profile

import (
	"fmt"
	"time"

	"github.com/cratewise/cratewise/pkg/models"
)

// Builder converts a catalog snapshot into a taste profile.
type Builder struct {
	config *models.ProfileConfig
}

// NewBuilder creates a new profile builder.
// If config is nil, uses the default configuration.
func NewBuilder(config *models.ProfileConfig) *Builder {
	if config == nil {
		config = models.DefaultProfileConfig()
	}
	return &Builder{config: config}
}

// Build computes a taste profile from the user's catalog.
//
// Per entry: weight = statusMultiplier(status) x ratingBoost(rating), where
// ratingBoost is rating/6 when rated, else 1.0. The weight accumulates into
// every genre, style, and decade the entry carries. Artist credits add a
// flat +1 each: credit data is sparser and noisier, so artists are weighted
// by frequency only. Every map normalizes independently to sum 1.0.
//
// Build is a pure function of the snapshot; an empty catalog yields an
// all-empty profile, which is a valid "no recommendations possible" state.
func (b *Builder) Build(entries []models.CatalogEntry, now time.Time) models.TasteProfile {
	genres := map[string]float64{}
	styles := map[string]float64{}
	eras := map[string]float64{}
	labels := map[string]float64{}
	artists := map[string]float64{}

	for _, entry := range entries {
		weight := b.config.StatusMultiplier(entry.Status)
		if entry.Rating > 0 {
			weight *= float64(entry.Rating) / b.config.RatingDivisor
		}

		for _, g := range entry.Genres {
			if g != "" {
				genres[g] += weight
			}
		}
		for _, s := range entry.Styles {
			if s != "" {
				styles[s] += weight
			}
		}
		if era := DecadeOf(entry.Year); era != "" {
			eras[era] += weight
		}
		if entry.Label != "" {
			labels[entry.Label] += weight
		}
		if entry.Artist != "" {
			artists[entry.Artist] += 1.0
		}
	}

	return models.TasteProfile{
		Genres:     normalize(genres),
		Styles:     normalize(styles),
		Eras:       normalize(eras),
		Labels:     normalize(labels),
		Artists:    normalize(artists),
		ComputedAt: now,
	}
}

// DecadeOf buckets a release year into a decade label like "1970s".
// Returns "" for missing or implausible years.
func DecadeOf(year int) string {
	if year < 1900 || year > 2100 {
		return ""
	}
	return fmt.Sprintf("%ds", (year/10)*10)
}

// normalize divides every weight by the map's total. A zero-total map comes
// back empty rather than producing NaN weights.
func normalize(m map[string]float64) map[string]float64 {
	var total float64
	for _, w := range m {
		total += w
	}
	if total <= 0 {
		return map[string]float64{}
	}
	for k, w := range m {
		m[k] = w / total
	}
	return m
}
