// Package geocode resolves free-text place names to coordinates through the
// Nominatim search API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrUnavailable covers transport failures, timeouts and non-200
	// upstream responses; the caller may retry.
	ErrUnavailable = errors.New("geocoding service unavailable")
	// ErrNotFound means the service answered but matched nothing.
	ErrNotFound = errors.New("location not found")
	// ErrBadData means the upstream payload was missing or malformed
	// coordinates; retrying will not help.
	ErrBadData = errors.New("invalid geocoding response")
)

const (
	defaultBaseURL = "https://nominatim.openstreetmap.org"
	requestTimeout = 5 * time.Second
	cacheTTL       = 24 * time.Hour
)

// Place is a resolved location.
type Place struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	cache     *redis.Client
}

// NewClient builds a Nominatim client. baseURL may be empty to use the
// public instance. The Nominatim usage policy requires a User-Agent that
// identifies the application and carries a contact address, and encourages
// caching; cache may be nil, which disables caching.
func NewClient(baseURL, version, contact string, cache *redis.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: fmt.Sprintf("mangal/%s (%s)", version, contact),
		http:      &http.Client{Timeout: requestTimeout},
		cache:     cache,
	}
}

// nominatim jsonv2 encodes coordinates as strings.
type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Resolve looks up the best match for a free-text place name.
func (c *Client) Resolve(ctx context.Context, name string) (*Place, error) {
	if cached := c.fromCache(ctx, name); cached != nil {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/search?q=%s&format=jsonv2&limit=1", c.baseURL, url.QueryEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: upstream returned %d", ErrUnavailable, resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadData, err)
	}

	if len(results) == 0 {
		return nil, ErrNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad latitude %q", ErrBadData, results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad longitude %q", ErrBadData, results[0].Lon)
	}

	place := &Place{
		Name:      results[0].DisplayName,
		Latitude:  lat,
		Longitude: lon,
	}
	if place.Name == "" {
		place.Name = name
	}

	c.toCache(ctx, name, place)
	return place, nil
}

func cacheKey(name string) string {
	return "geocode:" + strings.ToLower(strings.TrimSpace(name))
}

// Cache failures are never surfaced; a dead cache just means an extra
// upstream call.
func (c *Client) fromCache(ctx context.Context, name string) *Place {
	if c.cache == nil {
		return nil
	}
	data, err := c.cache.Get(ctx, cacheKey(name)).Bytes()
	if err != nil {
		return nil
	}
	var place Place
	if err := json.Unmarshal(data, &place); err != nil {
		return nil
	}
	return &place
}

func (c *Client) toCache(ctx context.Context, name string, place *Place) {
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(place)
	if err != nil {
		return
	}
	c.cache.Set(ctx, cacheKey(name), data, cacheTTL)
}
