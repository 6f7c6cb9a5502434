// Package recommend fuses the four strategy outputs into one persisted,
// explainable recommendation set per user.
package recommend

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/cratewise/cratewise/internal/strategy"
	"github.com/cratewise/cratewise/pkg/models"
)

// AlbumReader resolves candidate metadata for scored album ids.
type AlbumReader interface {
	AlbumsByIDs(ctx context.Context, ids []int64) (map[int64]models.CandidateAlbum, error)
}

// Aggregator runs every strategy concurrently and fuses their scores.
type Aggregator struct {
	strategies []strategy.Strategy
	albums     AlbumReader
	config     *models.FusionConfig
}

// NewAggregator creates an aggregator over the given strategies.
func NewAggregator(strategies []strategy.Strategy, albums AlbumReader, config *models.FusionConfig) *Aggregator {
	if config == nil {
		config = models.DefaultFusionConfig()
	}
	return &Aggregator{strategies: strategies, albums: albums, config: config}
}

// strategyResult is one strategy's settled outcome.
type strategyResult struct {
	name   models.StrategyName
	scores []models.StrategyScore
}

// Generate runs all strategies and returns the fused, diversity-capped
// recommendation list, ordered by final score. A strategy that errors or
// times out contributes nothing; only all four failing at once is an
// overall failure mode the caller sees as an empty list.
func (a *Aggregator) Generate(ctx context.Context, userID uuid.UUID, profile *models.TasteProfile) ([]models.AggregatedRecommendation, error) {
	results := make([]strategyResult, len(a.strategies))

	g, gctx := errgroup.WithContext(ctx)
	for i, strat := range a.strategies {
		i, strat := i, strat
		g.Go(func() error {
			runCtx, cancel := context.WithTimeout(gctx, a.config.StrategyTimeout)
			defer cancel()

			started := time.Now()
			scores, err := strat.Score(runCtx, userID, profile, a.config.PerStrategyLimit)
			if err != nil {
				// All-settled: a failed strategy is an absent strategy.
				log.Warn().Err(err).
					Str("strategy", string(strat.Name())).
					Dur("elapsed", time.Since(started)).
					Msg("strategy failed, continuing without it")
				scores = nil
			}
			results[i] = strategyResult{name: strat.Name(), scores: scores}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	fused := a.fuse(results)
	capped, err := a.applyDiversityCap(ctx, fused)
	if err != nil {
		return nil, err
	}
	return capped, nil
}

// fuse merges per-strategy scores into one row per album and computes the
// weighted final score with the multi-source bonus.
func (a *Aggregator) fuse(results []strategyResult) []models.AggregatedRecommendation {
	type fusion struct {
		rec          models.AggregatedRecommendation
		explanations map[models.StrategyName]string
	}

	now := time.Now().UTC()
	byAlbum := map[int64]*fusion{}
	for _, result := range results {
		for _, score := range result.scores {
			f, ok := byAlbum[score.AlbumID]
			if !ok {
				f = &fusion{
					rec:          models.AggregatedRecommendation{AlbumID: score.AlbumID, ComputedAt: now},
					explanations: map[models.StrategyName]string{},
				}
				byAlbum[score.AlbumID] = f
			}
			// Strategies dedupe their own output; keep the max if one slips.
			if score.Score > f.rec.ScoreFor(result.name) {
				f.rec.SetScore(result.name, score.Score)
				f.explanations[result.name] = score.Explanation
			}
		}
	}

	recs := make([]models.AggregatedRecommendation, 0, len(byAlbum))
	for _, f := range byAlbum {
		final := 0.0
		best := models.StrategyName("")
		bestScore := 0.0
		for _, name := range models.AllStrategies {
			raw := f.rec.ScoreFor(name)
			final += a.config.Weight(name) * raw
			if raw > bestScore {
				best, bestScore = name, raw
			}
		}
		if final <= 0 {
			continue
		}

		f.rec.MultiStrategy = f.rec.SourceCount() >= 2
		if f.rec.MultiStrategy {
			final *= a.config.MultiSourceBonus
		}
		f.rec.FinalScore = final
		f.rec.BestStrategy = best
		f.rec.Explanation = a.pickExplanation(f.explanations, best)
		recs = append(recs, f.rec)
	}

	sort.Slice(recs, func(i, j int) bool {
		if recs[i].FinalScore != recs[j].FinalScore {
			return recs[i].FinalScore > recs[j].FinalScore
		}
		return recs[i].AlbumID < recs[j].AlbumID
	})
	return recs
}

// pickExplanation prefers the AI's sentence when the AI scored the album,
// since it reads better than the templated ones; otherwise the strongest
// strategy explains.
func (a *Aggregator) pickExplanation(explanations map[models.StrategyName]string, best models.StrategyName) string {
	if text, ok := explanations[models.StrategyAI]; ok && text != "" {
		return text
	}
	return explanations[best]
}

// applyDiversityCap limits any single genre to MaxPerGenreShare of the
// final list, backfilling with skipped albums when the cap would leave the
// list short.
func (a *Aggregator) applyDiversityCap(ctx context.Context, recs []models.AggregatedRecommendation) ([]models.AggregatedRecommendation, error) {
	limit := a.config.ResultLimit
	if limit <= 0 || len(recs) == 0 {
		return recs, nil
	}
	if len(recs) > limit && a.config.MaxPerGenreShare <= 0 {
		return recs[:limit], nil
	}

	ids := make([]int64, len(recs))
	for i, rec := range recs {
		ids[i] = rec.AlbumID
	}
	albums, err := a.albums.AlbumsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	maxPerGenre := int(math.Ceil(a.config.MaxPerGenreShare * float64(limit)))
	if maxPerGenre < 1 {
		maxPerGenre = 1
	}

	taken := make([]models.AggregatedRecommendation, 0, limit)
	skipped := make([]models.AggregatedRecommendation, 0)
	perGenre := map[string]int{}
	for _, rec := range recs {
		if len(taken) == limit {
			break
		}
		genre := primaryGenre(albums[rec.AlbumID])
		if genre != "" && perGenre[genre] >= maxPerGenre {
			skipped = append(skipped, rec)
			continue
		}
		if genre != "" {
			perGenre[genre]++
		}
		taken = append(taken, rec)
	}

	// A short list means the cap was too aggressive for this pool; filling
	// with repeats beats returning fewer albums.
	for _, rec := range skipped {
		if len(taken) == limit {
			break
		}
		taken = append(taken, rec)
	}

	sort.Slice(taken, func(i, j int) bool {
		if taken[i].FinalScore != taken[j].FinalScore {
			return taken[i].FinalScore > taken[j].FinalScore
		}
		return taken[i].AlbumID < taken[j].AlbumID
	})
	return taken, nil
}

func primaryGenre(album models.CandidateAlbum) string {
	if len(album.Genres) == 0 {
		return ""
	}
	return album.Genres[0]
}
