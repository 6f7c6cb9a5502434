package discogs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/cratewise/cratewise/internal/cache"
	"github.com/cratewise/cratewise/pkg/models"
)

const (
	defaultBaseURL = "https://api.discogs.com"
	httpTimeout    = 30 * time.Second

	// maxBodyBytes bounds response reads; the service occasionally returns
	// very large embedded tracklists we never use.
	maxBodyBytes = 4 << 20
)

// Config holds client configuration.
type Config struct {
	BaseURL string
	Token   string
	// RatePerMin is the request budget. The public API allows 60
	// authenticated requests per minute.
	RatePerMin float64
}

// Client is a rate-limited, cached HTTP client for the catalog service.
// Every call blocks on the token bucket before hitting the network, so a
// burst of strategy lookups degrades to a queue instead of 429 responses.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *cache.Cache
	logger     zerolog.Logger
	baseURL    string
	token      string
}

// NewClient creates a catalog client. cache may be nil to disable caching.
func NewClient(cfg Config, c *cache.Cache, logger zerolog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	perMin := cfg.RatePerMin
	if perMin <= 0 {
		perMin = 60
	}
	return &Client{
		httpClient: &http.Client{Timeout: httpTimeout},
		limiter:    rate.NewLimiter(rate.Limit(perMin/60.0), int(perMin/10)+1),
		cache:      c,
		logger:     logger.With().Str("component", "discogs").Logger(),
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      cfg.Token,
	}
}

// SearchReleases searches the community catalog, returning candidates with
// have/want counts. Cached on the short TTL tier.
func (c *Client) SearchReleases(ctx context.Context, query string, limit int) ([]models.CandidateAlbum, error) {
	key := cache.KeySearch + query
	var cached []models.CandidateAlbum
	if c.cache != nil && c.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "release")
	params.Set("per_page", strconv.Itoa(limit))

	var resp searchResponse
	if err := c.getJSON(ctx, "/database/search?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	albums := make([]models.CandidateAlbum, 0, len(resp.Results))
	for _, r := range resp.Results {
		year, _ := strconv.Atoi(r.Year)
		album := models.CandidateAlbum{
			ID:        r.ID,
			Title:     r.Title,
			Year:      year,
			Genres:    r.Genre,
			Styles:    r.Style,
			CoverURL:  r.Thumb,
			HaveCount: r.Community.Have,
			WantCount: r.Community.Want,
		}
		if len(r.Label) > 0 {
			album.Label = r.Label[0]
		}
		albums = append(albums, album)
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, key, albums, c.cache.SearchTTL())
	}
	return albums, nil
}

// GetRelease fetches release detail with community statistics. Cached on the
// medium TTL tier.
func (c *Client) GetRelease(ctx context.Context, releaseID int64) (*models.CandidateAlbum, error) {
	key := cache.KeyRelease + strconv.FormatInt(releaseID, 10)
	var cached models.CandidateAlbum
	if c.cache != nil && c.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	var resp releaseResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/releases/%d", releaseID), &resp); err != nil {
		return nil, err
	}

	album := models.CandidateAlbum{
		ID:               resp.ID,
		Title:            resp.Title,
		Year:             resp.Year,
		Genres:           resp.Genres,
		Styles:           resp.Styles,
		HaveCount:        resp.Community.Have,
		WantCount:        resp.Community.Want,
		CommunityRating:  resp.Community.Rating.Average,
		CommunityRatings: resp.Community.Rating.Count,
	}
	if len(resp.Artists) > 0 {
		album.Artist = resp.Artists[0].Name
		album.ArtistID = strconv.FormatInt(resp.Artists[0].ID, 10)
	}
	if len(resp.Labels) > 0 {
		album.Label = resp.Labels[0].Name
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, key, album, c.cache.ReleaseTTL())
	}
	return &album, nil
}

// ArtistRelations fetches the typed relationship edges for an artist.
// Relationship data changes rarely, so this sits on the long TTL tier.
func (c *Client) ArtistRelations(ctx context.Context, artistID string) ([]models.ArtistRelation, error) {
	key := cache.KeyRelations + artistID
	var cached []models.ArtistRelation
	if c.cache != nil && c.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	var resp artistResponse
	if err := c.getJSON(ctx, "/artists/"+url.PathEscape(artistID), &resp); err != nil {
		return nil, err
	}

	relations := make([]models.ArtistRelation, 0, len(resp.Members)+len(resp.Groups)+len(resp.Relations))
	for _, m := range resp.Members {
		relations = append(relations, models.ArtistRelation{
			ArtistID:   strconv.FormatInt(m.ID, 10),
			ArtistName: m.Name,
			Type:       "member of band",
		})
	}
	for _, g := range resp.Groups {
		relations = append(relations, models.ArtistRelation{
			ArtistID:   strconv.FormatInt(g.ID, 10),
			ArtistName: g.Name,
			Type:       "member of band",
		})
	}
	for _, r := range resp.Relations {
		relations = append(relations, models.ArtistRelation{
			ArtistID:   strconv.FormatInt(r.ID, 10),
			ArtistName: r.Name,
			Type:       r.Role,
		})
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, key, relations, c.cache.RelationsTTL())
	}
	return relations, nil
}

// getJSON performs a rate-limited GET and decodes the response body.
func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "cratewise/1.0")
	if c.token != "" {
		req.Header.Set("Authorization", "Discogs token="+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("catalog API error (path=%s, status=%d): %s",
			path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(dest); err != nil {
		return fmt.Errorf("decode catalog response %s: %w", path, err)
	}
	return nil
}
