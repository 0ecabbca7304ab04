// Package geocode resolves free-text addresses to coordinates through a
// Nominatim-compatible service. Every request carries an identifying
// User-Agent header, as required by the Nominatim usage policy, and results
// are cached to keep traffic to the public instance low.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rubiojr/gasfinder/pkg/geo"
)

const (
	DefaultServer    = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "gasfinder/1.0"

	cacheExpiry  = 30 * time.Minute
	cacheCleanup = 90 * time.Minute
)

// ErrNoMatch means the service answered normally but found nothing for the
// query. It is distinct from transport or decode failures.
var ErrNoMatch = errors.New("no geocoding results")

// Client is a Nominatim search client.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	cache      *cache.Cache
	log        *slog.Logger
}

// New creates a Client. Empty baseURL or userAgent fall back to the defaults.
func New(baseURL, userAgent string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultServer
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: cache.New(cacheExpiry, cacheCleanup),
		log:   logger,
	}
}

type searchResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Geocode resolves a free-text address to coordinates, taking the first
// candidate when the service returns several. ErrNoMatch signals an empty
// result set.
func (c *Client) Geocode(ctx context.Context, query string) (geo.Point, error) {
	if cached, ok := c.cache.Get(query); ok {
		c.log.Debug("geocode cache hit", "query", query)
		return cached.(geo.Point), nil
	}

	searchURL := fmt.Sprintf("%s/search?format=json&q=%s", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, http.NoBody)
	if err != nil {
		return geo.Point{}, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return geo.Point{}, fmt.Errorf("error reaching geocoding service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geo.Point{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return geo.Point{}, fmt.Errorf("error unmarshaling JSON: %w", err)
	}
	if len(results) == 0 {
		return geo.Point{}, ErrNoMatch
	}

	first := results[0]
	lat, err := strconv.ParseFloat(first.Lat, 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("error parsing latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(first.Lon, 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("error parsing longitude: %w", err)
	}

	point := geo.Point{Lat: lat, Lng: lng}
	c.cache.Set(query, point, cache.DefaultExpiration)
	c.log.Debug("location found", "query", query, "display_name", first.DisplayName)

	return point, nil
}
