package strategy

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/cratewise/cratewise/pkg/models"
)

// fakeCandidates serves a fixed candidate pool.
type fakeCandidates struct {
	albums []models.CandidateAlbum
	err    error
}

func (f *fakeCandidates) TopByHaveCount(_ context.Context, limit int) ([]models.CandidateAlbum, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := append([]models.CandidateAlbum(nil), f.albums...)
	sort.Slice(out, func(i, j int) bool { return out[i].HaveCount > out[j].HaveCount })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeCandidates) TopByCommunityRating(_ context.Context, limit int) ([]models.CandidateAlbum, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := append([]models.CandidateAlbum(nil), f.albums...)
	sort.Slice(out, func(i, j int) bool { return out[i].CommunityRating > out[j].CommunityRating })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeCandidates) AlbumsByArtist(_ context.Context, artistID, artistName string) ([]models.CandidateAlbum, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.CandidateAlbum
	for _, a := range f.albums {
		if (artistID != "" && a.ArtistID == artistID) || a.Artist == artistName {
			out = append(out, a)
		}
	}
	return out, nil
}

// fakeOwned serves a fixed owned set.
type fakeOwned struct {
	ids map[int64]struct{}
}

func (f *fakeOwned) OwnedAlbumIDs(context.Context, uuid.UUID) (map[int64]struct{}, error) {
	if f.ids == nil {
		return map[int64]struct{}{}, nil
	}
	return f.ids, nil
}

// fakeRelations serves per-artist relation edges, or a global error.
type fakeRelations struct {
	edges map[string][]models.ArtistRelation
	err   error
	calls int
}

func (f *fakeRelations) ArtistRelations(_ context.Context, artistID string) ([]models.ArtistRelation, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.edges[artistID], nil
}

// fakeCatalog serves a fixed user catalog.
type fakeCatalog struct {
	entries []models.CatalogEntry
}

func (f *fakeCatalog) UserCatalog(context.Context, uuid.UUID) ([]models.CatalogEntry, error) {
	return f.entries, nil
}

// fakeProvider returns a canned completion.
type fakeProvider struct {
	response string
	err      error
	prompt   string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

var errExternal = errors.New("external service unavailable")

// jazzProfile is a profile dominated by one genre, used across tests.
func jazzProfile() *models.TasteProfile {
	return &models.TasteProfile{
		Genres:  map[string]float64{"Jazz": 0.8, "Funk": 0.2},
		Styles:  map[string]float64{"Hard Bop": 1.0},
		Artists: map[string]float64{"Miles Davis": 0.6, "Herbie Hancock": 0.4},
		Eras:    map[string]float64{"1960s": 1.0},
	}
}
