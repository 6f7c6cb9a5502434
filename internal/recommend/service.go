// Package recommend fuses the four strategy outputs into one persisted,
// explainable recommendation set per user.
package recommend

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/cratewise/cratewise/internal/jobs"
	"github.com/cratewise/cratewise/pkg/models"
)

// refreshTimeout bounds one full background refresh, pool sync included.
const refreshTimeout = 5 * time.Minute

// ProfileSource supplies taste profiles.
type ProfileSource interface {
	// Current returns a profile, recomputing only when stale or missing.
	Current(ctx context.Context, userID uuid.UUID) (*models.TasteProfile, error)
	// Fresh always recomputes from the catalog.
	Fresh(ctx context.Context, userID uuid.UUID) (*models.TasteProfile, error)
}

// CatalogReader reads a user's catalog entries.
type CatalogReader interface {
	UserCatalog(ctx context.Context, userID uuid.UUID) ([]models.CatalogEntry, error)
}

// RecommendationStore persists and serves fused recommendation sets.
type RecommendationStore interface {
	ReplaceForUser(ctx context.Context, userID uuid.UUID, recs []models.AggregatedRecommendation) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.AggregatedRecommendation, error)
	OldestComputedAt(ctx context.Context, userID uuid.UUID) (time.Time, error)
}

// PoolSyncer tops up the candidate pool before a run.
type PoolSyncer interface {
	Sync(ctx context.Context, profile *models.TasteProfile)
}

// Service owns the recommendation read path and refresh orchestration.
type Service struct {
	profiles   ProfileSource
	catalog    CatalogReader
	store      RecommendationStore
	aggregator *Aggregator
	syncer     PoolSyncer
	tracker    *jobs.Tracker
	config     *models.FusionConfig
	group      singleflight.Group
	now        func() time.Time
}

// NewService wires the recommendation service.
func NewService(profiles ProfileSource, catalog CatalogReader, store RecommendationStore, aggregator *Aggregator, syncer PoolSyncer, tracker *jobs.Tracker, config *models.FusionConfig) *Service {
	if config == nil {
		config = models.DefaultFusionConfig()
	}
	return &Service{
		profiles:   profiles,
		catalog:    catalog,
		store:      store,
		aggregator: aggregator,
		syncer:     syncer,
		tracker:    tracker,
		config:     config,
		now:        time.Now,
	}
}

// Recommendations serves the user's stored set. A stale set is returned
// immediately while one background refresh regenerates it; a missing set is
// computed synchronously unless the catalog is empty.
func (s *Service) Recommendations(ctx context.Context, userID uuid.UUID) ([]models.AggregatedRecommendation, error) {
	recs, err := s.store.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(recs) > 0 {
		oldest, err := s.store.OldestComputedAt(ctx, userID)
		if err != nil {
			return nil, err
		}
		if s.now().Sub(oldest) > s.config.StalenessWindow {
			log.Debug().Str("user", userID.String()).Time("oldest", oldest).Msg("serving stale recommendations, refreshing in background")
			s.Refresh(userID)
		}
		return recs, nil
	}

	entries, err := s.catalog.UserCatalog(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	// First request for this user: compute in the foreground.
	if err := s.generate(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListForUser(ctx, userID)
}

// Refresh starts a background regeneration for the user and returns its
// job. When a refresh is already pending or running, that job is returned
// instead of starting another.
func (s *Service) Refresh(userID uuid.UUID) jobs.Job {
	job, created := s.tracker.Begin(userID)
	if !created {
		return job
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		s.tracker.Start(job.ID)
		err := s.generate(ctx, userID)
		s.tracker.Finish(job.ID, err)
		if err != nil {
			log.Error().Err(err).Str("user", userID.String()).Msg("recommendation refresh failed")
		}
	}()
	return job
}

// Status returns the user's latest refresh job.
func (s *Service) Status(userID uuid.UUID) (jobs.Job, bool) {
	return s.tracker.Latest(userID)
}

// Job returns a refresh job by id.
func (s *Service) Job(jobID uuid.UUID) (jobs.Job, bool) {
	return s.tracker.Get(jobID)
}

// generate recomputes the profile, tops up the pool, runs the strategies,
// and swaps the stored set. Concurrent calls for one user coalesce onto a
// single run.
func (s *Service) generate(ctx context.Context, userID uuid.UUID) error {
	_, err, _ := s.group.Do(userID.String(), func() (interface{}, error) {
		started := time.Now()

		prof, err := s.profiles.Fresh(ctx, userID)
		if err != nil {
			return nil, err
		}
		if prof == nil || prof.IsEmpty() {
			// Catalog emptied since the caller checked; store the empty set.
			return nil, s.store.ReplaceForUser(ctx, userID, nil)
		}

		if s.syncer != nil {
			s.syncer.Sync(ctx, prof)
		}

		recs, err := s.aggregator.Generate(ctx, userID, prof)
		if err != nil {
			return nil, err
		}
		if err := s.store.ReplaceForUser(ctx, userID, recs); err != nil {
			return nil, err
		}

		log.Info().
			Str("user", userID.String()).
			Int("recommendations", len(recs)).
			Dur("elapsed", time.Since(started)).
			Msg("recommendations regenerated")
		return nil, nil
	})
	return err
}
