package overpass

import (
	"context"
	"log/slog"

	"github.com/blastmap/engine/internal/cache"
	"github.com/blastmap/engine/internal/model"
)

// AdapterConfig sizes the grids the adapter produces.
type AdapterConfig struct {
	GridSize  int // cells per side for real building grids
	Synthetic SyntheticConfig
}

// Adapter turns the building feed into population grids, consulting the
// cache first and falling back to a synthetic grid when the feed fails.
// It satisfies the density service's Fetcher contract.
type Adapter struct {
	client *Client
	cache  cache.GridCache
	cfg    AdapterConfig
	logger *slog.Logger
}

// NewAdapter wires the client, cache, and fallback generator together.
func NewAdapter(client *Client, gridCache cache.GridCache, cfg AdapterConfig, logger *slog.Logger) *Adapter {
	return &Adapter{
		client: client,
		cache:  gridCache,
		cfg:    cfg,
		logger: logger,
	}
}

// FetchPopulationGrid resolves a grid for the location. Resolution order is
// cache, live feed, synthetic fallback. Only feed-backed grids are cached so
// a later successful fetch is not shadowed by a stored fallback.
func (a *Adapter) FetchPopulationGrid(ctx context.Context, lat, lng, radiusKm float64) (*model.PopulationGrid, error) {
	key := cache.NewKey(lat, lng, radiusKm)
	if grid, ok := a.cache.Get(key); ok {
		a.logger.Debug("Population grid cache hit", "lat", key.Lat, "lng", key.Lng, "radiusKm", radiusKm)
		return grid, nil
	}

	center := model.LatLng{Lat: lat, Lng: lng}

	buildings, err := a.client.QueryBuildings(ctx, lat, lng, radiusKm)
	if err != nil {
		a.logger.Debug("Building feed unavailable, generating synthetic grid",
			"lat", lat, "lng", lng, "error", err)
		return SyntheticGrid(center, radiusKm, a.cfg.Synthetic), nil
	}
	if len(buildings) == 0 {
		return SyntheticGrid(center, radiusKm, a.cfg.Synthetic), nil
	}

	grid := BuildGrid(buildings, center, radiusKm, a.cfg.GridSize)
	a.cache.Set(key, grid)
	return grid, nil
}
