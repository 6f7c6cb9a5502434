// Package main provides the entry point for the cratewise API server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cratewise/cratewise/internal/ai"
	"github.com/cratewise/cratewise/internal/cache"
	"github.com/cratewise/cratewise/internal/config"
	"github.com/cratewise/cratewise/internal/db/gorm"
	"github.com/cratewise/cratewise/internal/discogs"
	"github.com/cratewise/cratewise/internal/jobs"
	"github.com/cratewise/cratewise/internal/pool"
	"github.com/cratewise/cratewise/internal/profile"
	"github.com/cratewise/cratewise/internal/recommend"
	"github.com/cratewise/cratewise/internal/server"
	"github.com/cratewise/cratewise/internal/strategy"
)

var Version = "dev"

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	log.Info().
		Str("version", Version).
		Msg("Starting cratewise server")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	store, err := gorm.NewStore(gorm.Config{
		Backend:  cfg.DBBackend,
		DSN:      cfg.DBDSN,
		MaxConns: cfg.MaxConns,
		LogLevel: gormlogger.Silent,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer store.Close()

	redisCache := cache.New(cache.Config{
		RedisAddr:      cfg.RedisAddr,
		RedisPassword:  cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		SearchTTL:      cache.DefaultSearchTTL,
		ReleaseTTL:     cache.DefaultReleaseTTL,
		RelationsTTL:   cache.DefaultRelationsTTL,
		DisableOnError: true,
	}, log.Logger)
	defer redisCache.Close()

	catalogClient := discogs.NewClient(discogs.Config{
		BaseURL:    cfg.CatalogBaseURL,
		Token:      cfg.CatalogToken,
		RatePerMin: cfg.CatalogRatePerMin,
	}, redisCache, log.Logger)

	// The AI strategy degrades to empty output without credentials.
	var aiProvider ai.Provider
	if cfg.AIAPIKey != "" {
		aiProvider, err = ai.NewProvider(ai.Config{
			Provider: cfg.AIProvider,
			APIKey:   cfg.AIAPIKey,
			Model:    cfg.AIModel,
			BaseURL:  cfg.AIBaseURL,
		})
		if err != nil {
			log.Warn().Err(err).Msg("AI provider unavailable, continuing without it")
		}
	} else {
		log.Info().Msg("No AI API key configured, AI strategy disabled")
	}

	catalogStore := gorm.NewCatalogStore(store)
	albumStore := gorm.NewAlbumStore(store)
	profileStore := gorm.NewProfileStore(store)
	recStore := gorm.NewRecommendationStore(store)

	profiles := profile.NewService(profileStore, catalogStore, cfg.Profile)

	strategies := []strategy.Strategy{
		strategy.NewContentStrategy(albumStore, catalogStore),
		strategy.NewCollaborativeStrategy(albumStore, catalogStore),
		strategy.NewGraphStrategy(catalogClient, catalogStore, albumStore, catalogStore, nil),
		strategy.NewAIStrategy(aiProvider, albumStore, catalogStore),
	}

	aggregator := recommend.NewAggregator(strategies, albumStore, cfg.Fusion)
	syncer := pool.NewSyncer(catalogClient, albumStore)
	recommender := recommend.NewService(profiles, catalogStore, recStore, aggregator, syncer, jobs.NewTracker(), cfg.Fusion)

	svc := server.NewService(recommender, catalogStore, cfg.HTTPPort)

	errCh := make(chan error, 1)
	go func() { errCh <- svc.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("Server failed")
		}
	case <-quit:
		log.Info().Msg("Received shutdown signal")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := svc.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Shutdown error")
	}

	log.Info().Msg("Server shutdown complete")
}
