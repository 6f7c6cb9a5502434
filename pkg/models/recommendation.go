package models

import "time"

// StrategyName identifies one of the four scoring strategies.
type StrategyName string

const (
	StrategyContent       StrategyName = "content"
	StrategyCollaborative StrategyName = "collaborative"
	StrategyGraph         StrategyName = "graph"
	StrategyAI            StrategyName = "ai"
)

// AllStrategies lists every strategy in fusion order.
var AllStrategies = []StrategyName{
	StrategyContent, StrategyCollaborative, StrategyGraph, StrategyAI,
}

// StrategyScore is one strategy's verdict on one candidate album.
// Score is always normalized to [0,1] before it reaches the aggregator.
type StrategyScore struct {
	AlbumID     int64        `json:"album_id"`
	Score       float64      `json:"score"`
	Explanation string       `json:"explanation"`
	Strategy    StrategyName `json:"strategy"`
}

// AggregatedRecommendation is the fused result for one album, holding every
// strategy's contribution (0 where a strategy did not score the album).
type AggregatedRecommendation struct {
	AlbumID            int64        `json:"album_id"`
	ContentScore       float64      `json:"content_score"`
	CollaborativeScore float64      `json:"collaborative_score"`
	GraphScore         float64      `json:"graph_score"`
	AIScore            float64      `json:"ai_score"`
	FinalScore         float64      `json:"final_score"`
	BestStrategy       StrategyName `json:"best_strategy"`
	Explanation        string       `json:"explanation"`
	MultiStrategy      bool         `json:"multi_strategy"`
	ComputedAt         time.Time    `json:"computed_at"`
}

// ScoreFor returns the stored score slot for the named strategy.
func (r *AggregatedRecommendation) ScoreFor(name StrategyName) float64 {
	switch name {
	case StrategyContent:
		return r.ContentScore
	case StrategyCollaborative:
		return r.CollaborativeScore
	case StrategyGraph:
		return r.GraphScore
	case StrategyAI:
		return r.AIScore
	}
	return 0
}

// SetScore writes the score slot for the named strategy.
func (r *AggregatedRecommendation) SetScore(name StrategyName, score float64) {
	switch name {
	case StrategyContent:
		r.ContentScore = score
	case StrategyCollaborative:
		r.CollaborativeScore = score
	case StrategyGraph:
		r.GraphScore = score
	case StrategyAI:
		r.AIScore = score
	}
}

// SourceCount returns how many strategies contributed a nonzero score.
func (r *AggregatedRecommendation) SourceCount() int {
	count := 0
	for _, name := range AllStrategies {
		if r.ScoreFor(name) > 0 {
			count++
		}
	}
	return count
}

// RecommendedAlbum is the presentation-facing view of one recommendation.
type RecommendedAlbum struct {
	AlbumID     int64    `json:"album_id"`
	Title       string   `json:"title"`
	Artist      string   `json:"artist"`
	CoverURL    string   `json:"cover_url,omitempty"`
	Year        int      `json:"year,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Score       float64  `json:"score"`
	Explanation string   `json:"explanation"`
}

// RecommendationGroup is a named bucket of recommendations sharing a strategy
// or the global top picks. Derived on read, never persisted.
type RecommendationGroup struct {
	Title    string             `json:"title"`
	Strategy StrategyName       `json:"strategy,omitempty"` // empty for the global group
	Albums   []RecommendedAlbum `json:"albums"`
}
