package gorm

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cratewise/cratewise/pkg/models"
)

func TestProfileStore_SaveAndGet(t *testing.T) {
	store := testStore(t)
	profileStore := NewProfileStore(store)
	ctx := context.Background()
	userID := uuid.New()

	computedAt := time.Now().UTC().Truncate(time.Millisecond)
	profile := &models.TasteProfile{
		Genres:     map[string]float64{"Jazz": 0.7, "Funk": 0.3},
		Styles:     map[string]float64{"Hard Bop": 1.0},
		Eras:       map[string]float64{"1960s": 1.0},
		Labels:     map[string]float64{"Blue Note": 1.0},
		Artists:    map[string]float64{"Miles Davis": 1.0},
		ComputedAt: computedAt,
	}
	require.NoError(t, profileStore.SaveProfile(ctx, userID, profile))

	got, err := profileStore.GetProfile(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 0.7, got.Genres["Jazz"], 1e-9)
	assert.InDelta(t, 1.0, got.Styles["Hard Bop"], 1e-9)
	assert.Equal(t, computedAt, got.ComputedAt)
}

func TestProfileStore_GetMissingReturnsNil(t *testing.T) {
	store := testStore(t)
	profileStore := NewProfileStore(store)

	got, err := profileStore.GetProfile(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProfileStore_SaveOverwrites(t *testing.T) {
	store := testStore(t)
	profileStore := NewProfileStore(store)
	ctx := context.Background()
	userID := uuid.New()

	first := &models.TasteProfile{
		Genres:     map[string]float64{"Jazz": 1.0},
		ComputedAt: time.Now().UTC().Add(-time.Hour),
	}
	require.NoError(t, profileStore.SaveProfile(ctx, userID, first))

	second := &models.TasteProfile{
		Genres:     map[string]float64{"Electronic": 1.0},
		ComputedAt: time.Now().UTC(),
	}
	require.NoError(t, profileStore.SaveProfile(ctx, userID, second))

	got, err := profileStore.GetProfile(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.NotContains(t, got.Genres, "Jazz")
	assert.InDelta(t, 1.0, got.Genres["Electronic"], 1e-9)
}
