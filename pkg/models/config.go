package models

import "time"

// ProfileConfig contains the tunable parameters of taste profile building.
type ProfileConfig struct {
	// StatusMultipliers weight catalog entries by relationship strength.
	// Owned items speak loudest; a logged listen is the weakest signal.
	StatusMultipliers map[CatalogStatus]float64 `json:"status_multipliers"`

	// RatingDivisor converts a 1-10 rating into a boost factor (rating/divisor).
	// With 6.0, a 6/10 album contributes its base weight unchanged and a
	// 10/10 album contributes ~1.67x.
	RatingDivisor float64 `json:"rating_divisor"`

	// StalenessWindow is how long a persisted profile stays current before a
	// read recomputes it.
	StalenessWindow time.Duration `json:"staleness_window"`
}

// DefaultProfileConfig returns the default profile building configuration.
func DefaultProfileConfig() *ProfileConfig {
	return &ProfileConfig{
		StatusMultipliers: map[CatalogStatus]float64{
			StatusOwned:    1.5,
			StatusWanted:   1.0,
			StatusListened: 0.75,
		},
		RatingDivisor:   6.0,
		StalenessWindow: 24 * time.Hour,
	}
}

// StatusMultiplier returns the weight multiplier for a catalog status.
func (c *ProfileConfig) StatusMultiplier(status CatalogStatus) float64 {
	if m, ok := c.StatusMultipliers[status]; ok {
		return m
	}
	return 1.0
}

// FusionConfig contains the score fusion weights and policy knobs. The
// defaults carry no derivation beyond tuning against real collections, so
// every value stays configurable rather than hard-coded.
type FusionConfig struct {
	// StrategyWeights scale each strategy's contribution to the fused score.
	// AI is weighted highest because its explanations are qualitatively
	// richer, not because it is more reliable.
	StrategyWeights map[StrategyName]float64 `json:"strategy_weights"`

	// MultiSourceBonus multiplies the fused score when two or more
	// strategies agree on an album.
	MultiSourceBonus float64 `json:"multi_source_bonus"`

	// StrategyTimeout caps how long one strategy may run before its
	// contribution is treated as absent.
	StrategyTimeout time.Duration `json:"strategy_timeout"`

	// StalenessWindow is how old stored recommendations may be before a read
	// triggers a background refresh.
	StalenessWindow time.Duration `json:"staleness_window"`

	// MaxPerGenreShare caps one genre's share of the final list in the
	// diversity pass.
	MaxPerGenreShare float64 `json:"max_per_genre_share"`

	// PerStrategyLimit is how many scores each strategy may return.
	PerStrategyLimit int `json:"per_strategy_limit"`

	// ResultLimit is how many fused recommendations are kept.
	ResultLimit int `json:"result_limit"`
}

// DefaultFusionConfig returns the default fusion configuration.
func DefaultFusionConfig() *FusionConfig {
	return &FusionConfig{
		StrategyWeights: map[StrategyName]float64{
			StrategyContent:       0.25,
			StrategyCollaborative: 0.20,
			StrategyGraph:         0.20,
			StrategyAI:            0.35,
		},
		MultiSourceBonus: 1.10,
		StrategyTimeout:  60 * time.Second,
		StalenessWindow:  24 * time.Hour,
		MaxPerGenreShare: 0.4,
		PerStrategyLimit: 50,
		ResultLimit:      50,
	}
}

// Weight returns the fusion weight for a strategy, 0 for unknown names.
func (c *FusionConfig) Weight(name StrategyName) float64 {
	return c.StrategyWeights[name]
}
