// Package discogs provides a rate-limited client for the external music
// catalog and artist-relationship graph service.
package discogs

// searchResponse is the wire shape of a release search.
type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Year      string   `json:"year"`
	Label     []string `json:"label"`
	Genre     []string `json:"genre"`
	Style     []string `json:"style"`
	Thumb     string   `json:"thumb"`
	CoverImg  string   `json:"cover_image"`
	Community struct {
		Have int `json:"have"`
		Want int `json:"want"`
	} `json:"community"`
}

// releaseResponse is the wire shape of a release detail lookup.
type releaseResponse struct {
	ID      int64    `json:"id"`
	Title   string   `json:"title"`
	Year    int      `json:"year"`
	Genres  []string `json:"genres"`
	Styles  []string `json:"styles"`
	Artists []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"artists"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
	Community struct {
		Have   int `json:"have"`
		Want   int `json:"want"`
		Rating struct {
			Average float64 `json:"average"`
			Count   int     `json:"count"`
		} `json:"rating"`
	} `json:"community"`
}

// artistResponse is the wire shape of an artist lookup, carrying the
// relationship edges consumed by the graph strategy.
type artistResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Members []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"members"`
	Groups []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"groups"`
	Relations []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Role string `json:"role"`
	} `json:"relations"`
}
