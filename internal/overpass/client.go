// Package overpass obtains population grids for a coordinate from an
// Overpass-style building-footprint feed, with caching and a synthetic
// fallback. The upstream is an untrusted third party: its absence degrades
// fidelity, never availability.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client queries the building-footprint feed.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client with a hard request timeout. A slow upstream
// must never block a computation beyond this bound.
func NewClient(endpoint string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Building is one structure returned by the feed.
type Building struct {
	Type   string
	Levels int
	Lat    float64
	Lng    float64
}

// overpassResponse mirrors the subset of the feed's JSON we consume.
type overpassResponse struct {
	Elements []struct {
		Tags map[string]string `json:"tags"`
		Center *struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"center"`
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"elements"`
}

// QueryBuildings fetches structures within radiusKm of the center. The
// context bounds the call in addition to the client timeout so an engine
// cancellation aborts the request immediately.
func (c *Client) QueryBuildings(ctx context.Context, lat, lng, radiusKm float64) ([]Building, error) {
	query := fmt.Sprintf(
		`[out:json][timeout:%d];(way["building"](around:%d,%f,%f););out center %d;`,
		int(c.httpClient.Timeout.Seconds()),
		int(radiusKm*1000), lat, lng,
		maxElements,
	)

	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("building query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("building query returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed overpassResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("malformed building payload: %w", err)
	}

	buildings := make([]Building, 0, len(parsed.Elements))
	for _, el := range parsed.Elements {
		b := Building{
			Type:   el.Tags["building"],
			Levels: parseLevels(el.Tags["building:levels"]),
			Lat:    el.Lat,
			Lng:    el.Lon,
		}
		if el.Center != nil {
			b.Lat = el.Center.Lat
			b.Lng = el.Center.Lon
		}
		if b.Lat == 0 && b.Lng == 0 {
			continue
		}
		buildings = append(buildings, b)
	}

	c.logger.Debug("Building query complete", "count", len(buildings), "lat", lat, "lng", lng)
	return buildings, nil
}

const (
	maxElements      = 50000
	maxResponseBytes = 64 << 20
)

// parseLevels parses the feed's floor-count tag, which may be absent,
// non-numeric, or fractional. Anything unusable counts as one floor.
func parseLevels(s string) int {
	if s == "" {
		return 1
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return int(f)
	}
	return 1
}
