package gorm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cratewise/cratewise/pkg/models"
)

func seedAlbums(t *testing.T, store *AlbumStore) {
	t.Helper()
	require.NoError(t, store.Upsert(context.Background(), []models.CandidateAlbum{
		{ID: 1, Title: "Maiden Voyage", Artist: "Herbie Hancock", ArtistID: "art-herbie", Genres: []string{"Jazz"}, HaveCount: 900, WantCount: 300, CommunityRating: 4.7, CommunityRatings: 1200},
		{ID: 2, Title: "Head Hunters", Artist: "Herbie Hancock", ArtistID: "art-herbie", Genres: []string{"Jazz", "Funk"}, HaveCount: 1500, WantCount: 400, CommunityRating: 4.5, CommunityRatings: 2200},
		{ID: 3, Title: "Speak No Evil", Artist: "Wayne Shorter", ArtistID: "art-shorter", Genres: []string{"Jazz"}, HaveCount: 700, WantCount: 500, CommunityRating: 4.8, CommunityRatings: 900},
	}))
}

func TestAlbumStore_Orderings(t *testing.T) {
	store := testStore(t)
	albumStore := NewAlbumStore(store)
	seedAlbums(t, albumStore)
	ctx := context.Background()

	byHave, err := albumStore.TopByHaveCount(ctx, 2)
	require.NoError(t, err)
	require.Len(t, byHave, 2)
	assert.Equal(t, int64(2), byHave[0].ID)
	assert.Equal(t, int64(1), byHave[1].ID)

	byRating, err := albumStore.TopByCommunityRating(ctx, 3)
	require.NoError(t, err)
	require.Len(t, byRating, 3)
	assert.Equal(t, int64(3), byRating[0].ID)
	assert.Equal(t, int64(1), byRating[1].ID)
}

func TestAlbumStore_AlbumsByArtist(t *testing.T) {
	store := testStore(t)
	albumStore := NewAlbumStore(store)
	seedAlbums(t, albumStore)
	ctx := context.Background()

	byID, err := albumStore.AlbumsByArtist(ctx, "art-herbie", "Herbie Hancock")
	require.NoError(t, err)
	assert.Len(t, byID, 2)

	byName, err := albumStore.AlbumsByArtist(ctx, "", "Wayne Shorter")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, int64(3), byName[0].ID)

	none, err := albumStore.AlbumsByArtist(ctx, "", "Unknown Artist")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAlbumStore_UpsertRefreshesStats(t *testing.T) {
	store := testStore(t)
	albumStore := NewAlbumStore(store)
	seedAlbums(t, albumStore)
	ctx := context.Background()

	require.NoError(t, albumStore.Upsert(ctx, []models.CandidateAlbum{
		{ID: 1, Title: "Maiden Voyage", Artist: "Herbie Hancock", ArtistID: "art-herbie", Genres: []string{"Jazz"}, HaveCount: 2000, WantCount: 800, CommunityRating: 4.75, CommunityRatings: 1500},
	}))

	byID, err := albumStore.AlbumsByIDs(ctx, []int64{1})
	require.NoError(t, err)
	require.Contains(t, byID, int64(1))
	assert.Equal(t, 2000, byID[1].HaveCount)
	assert.Equal(t, 4.75, byID[1].CommunityRating)

	// Still three rows, not four.
	all, err := albumStore.TopByHaveCount(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAlbumStore_AlbumsByIDsEmpty(t *testing.T) {
	store := testStore(t)
	albumStore := NewAlbumStore(store)

	byID, err := albumStore.AlbumsByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, byID)
}
