// Package density produces a plausible population-density estimate for a
// location, optionally backed by a rasterized grid from the external data
// source adapter. It is a heuristic texture generator, not a demographic
// model: the hard requirements are determinism for a given (lat, lng, city,
// hour) and output bounded to a sane range.
package density

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/blastmap/engine/internal/geo"
	"github.com/blastmap/engine/internal/model"
)

// Fetcher obtains a population grid for a coordinate and radius. A nil grid
// with a nil error means "no data available, use the heuristic".
type Fetcher interface {
	FetchPopulationGrid(ctx context.Context, lat, lng, radiusKm float64) (*model.PopulationGrid, error)
}

// CityDensity is one row of the known-city density table (people/km²).
type CityDensity struct {
	Name    string
	Density float64
}

// defaultCityDensities lists rough residential densities for cities the
// UI's search box commonly produces. Matching is case-insensitive substring.
var defaultCityDensities = []CityDensity{
	{"manhattan", 27500},
	{"new york", 11300},
	{"mumbai", 32300},
	{"delhi", 29200},
	{"dhaka", 30500},
	{"tokyo", 15500},
	{"seoul", 16700},
	{"paris", 20800},
	{"london", 5700},
	{"cairo", 19400},
	{"lagos", 13100},
	{"moscow", 8500},
	{"beijing", 13000},
	{"shanghai", 14400},
	{"los angeles", 3200},
	{"chicago", 4600},
	{"mexico city", 6200},
	{"sao paulo", 7700},
	{"berlin", 4100},
	{"sydney", 2100},
}

// Config bounds the heuristic's output.
type Config struct {
	DefaultUrbanDensity float64 // people/km² when no city matches
	MinDensity          float64
	MaxDensity          float64
	MaxFetchRadiusKm    float64 // cap on the grid search radius
}

// DefaultConfig returns the standard bounds.
func DefaultConfig() Config {
	return Config{
		DefaultUrbanDensity: 4000,
		MinDensity:          500,
		MaxDensity:          50000,
		MaxFetchRadiusKm:    20,
	}
}

// Service estimates population density.
type Service struct {
	cfg     Config
	cities  []CityDensity
	fetcher Fetcher
	logger  *slog.Logger

	// now is swappable in tests; only the hour of day is consumed.
	now func() time.Time
}

// NewService creates a density service. fetcher may be nil, in which case
// the grid path is never attempted.
func NewService(cfg Config, fetcher Fetcher, logger *slog.Logger) *Service {
	return &Service{
		cfg:     cfg,
		cities:  defaultCityDensities,
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

// Estimate produces a density model for the location. It never returns an
// error: external data failure degrades to the heuristic scalar path.
func (s *Service) Estimate(ctx context.Context, lat, lng float64, cityName string) model.PopulationDensityModel {
	if s.fetcher != nil {
		grid, err := s.fetcher.FetchPopulationGrid(ctx, lat, lng, s.cfg.MaxFetchRadiusKm)
		if err != nil {
			s.logger.Debug("Population grid fetch failed, using heuristic density",
				"lat", lat, "lng", lng, "error", err)
		} else if grid != nil {
			return model.PopulationDensityModel{Source: model.GridSource(grid)}
		}
	}

	density, urbanFactor := s.heuristic(lat, lng, cityName)
	return model.PopulationDensityModel{Source: model.ScalarSource(density, urbanFactor)}
}

// heuristic derives a deterministic density and urban factor from the
// coordinate's fractional part, a falloff from an implied local center, and
// a business-hours multiplier.
func (s *Service) heuristic(lat, lng float64, cityName string) (density, urbanFactor float64) {
	base := s.baseDensity(cityName)

	fLat := lat - math.Floor(lat)
	fLng := lng - math.Floor(lng)

	// Superimposed sinusoids at unrelated spatial frequencies give visually
	// distinct points distinct densities while staying deterministic.
	texture := 0.5 +
		0.25*math.Sin(fLat*97*2*math.Pi)*math.Cos(fLng*83*2*math.Pi) +
		0.15*math.Sin((fLat*13+fLng*17)*2*math.Pi) +
		0.10*math.Cos(fLat*5*2*math.Pi)*math.Sin(fLng*7*2*math.Pi)

	// Falloff from the implied local center of the containing degree cell.
	center := model.LatLng{Lat: math.Floor(lat) + 0.5, Lng: math.Floor(lng) + 0.5}
	distKm := geo.Haversine(model.LatLng{Lat: lat, Lng: lng}, center) / 1000
	falloff := 0.5 + 0.5/(1+distKm/20)

	density = base * (0.6 + 0.8*texture) * falloff * s.hoursMultiplier()
	density = math.Min(math.Max(density, s.cfg.MinDensity), s.cfg.MaxDensity)

	// texture is bounded to [0,1], mapping the urban factor into [0.5,0.9].
	urbanFactor = 0.5 + 0.4*clamp01(texture)
	return density, urbanFactor
}

// baseDensity matches the city name against the known-city table,
// defaulting to a generic urban density.
func (s *Service) baseDensity(cityName string) float64 {
	needle := strings.ToLower(strings.TrimSpace(cityName))
	if needle == "" {
		return s.cfg.DefaultUrbanDensity
	}
	for _, c := range s.cities {
		if strings.Contains(needle, c.Name) {
			return c.Density
		}
	}
	return s.cfg.DefaultUrbanDensity
}

// hoursMultiplier models daytime concentration in business districts.
func (s *Service) hoursMultiplier() float64 {
	h := s.now().Hour()
	switch {
	case h >= 9 && h < 18:
		return 1.3
	case h >= 22 || h < 6:
		return 0.85
	default:
		return 1.0
	}
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
