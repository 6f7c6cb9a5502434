// Package models contains domain models for cratewise.
package models

// CatalogStatus describes how an album relates to a user's collection.
type CatalogStatus string

const (
	// StatusOwned means the user owns a physical or digital copy.
	StatusOwned CatalogStatus = "owned"
	// StatusWanted means the album is on the user's wantlist.
	StatusWanted CatalogStatus = "wanted"
	// StatusListened means the user has logged a listen without owning it.
	StatusListened CatalogStatus = "listened"
)

// CatalogEntry is one album in a user's collection, wantlist, or listen log.
type CatalogEntry struct {
	AlbumID  int64         `json:"album_id"`
	Title    string        `json:"title"`
	Artist   string        `json:"artist"`
	ArtistID string        `json:"artist_id,omitempty"` // canonical external id, empty if unmatched
	Label    string        `json:"label,omitempty"`
	Year     int           `json:"year,omitempty"`
	Genres   []string      `json:"genres,omitempty"`
	Styles   []string      `json:"styles,omitempty"`
	Status   CatalogStatus `json:"status"`
	Rating   int           `json:"rating,omitempty"` // 1-10, 0 = unrated
}

// CandidateAlbum is a scoring candidate drawn from the shared album catalog.
// Strategies treat candidates as read-only.
type CandidateAlbum struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	Artist           string   `json:"artist"`
	ArtistID         string   `json:"artist_id,omitempty"`
	Label            string   `json:"label,omitempty"`
	Year             int      `json:"year,omitempty"`
	Genres           []string `json:"genres,omitempty"`
	Styles           []string `json:"styles,omitempty"`
	CoverURL         string   `json:"cover_url,omitempty"`
	HaveCount        int      `json:"have_count"`
	WantCount        int      `json:"want_count"`
	CommunityRating  float64  `json:"community_rating"`  // 0-5 aggregate, 0 = unknown
	CommunityRatings int      `json:"community_ratings"` // number of votes behind the aggregate
}
