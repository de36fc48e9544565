// Package casualty estimates fatalities and injuries per effect ring. Two
// strategies share one survivor cascade: a scalar ring-density model and a
// grid-integration model used when rasterized population data is available.
package casualty

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/blastmap/engine/internal/geo"
	"github.com/blastmap/engine/internal/model"
)

// ErrNoZones is returned when the zone list is empty.
var ErrNoZones = errors.New("no effect zones supplied")

// Estimator runs casualty computations. It is stateless between calls.
type Estimator struct {
	logger *slog.Logger
}

// NewEstimator creates an estimator.
func NewEstimator(logger *slog.Logger) *Estimator {
	return &Estimator{logger: logger}
}

// Estimate computes per-ring casualties for the given zones. Strategy
// selection: a grid-backed source with a known center uses grid integration;
// anything else uses the scalar ring-density model. center may be nil for
// scalar sources.
func (e *Estimator) Estimate(zones []model.EffectZone, src model.DensitySource, center *model.LatLng) (model.CasualtyData, error) {
	if len(zones) == 0 {
		return model.CasualtyData{}, ErrNoZones
	}
	for _, z := range zones {
		if err := z.Validate(); err != nil {
			return model.CasualtyData{}, fmt.Errorf("zone %q: %w", z.Name, err)
		}
	}

	sorted := make([]model.EffectZone, len(zones))
	copy(sorted, zones)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].RadiusM < sorted[j].RadiusM })

	var estimates []model.CasualtyEstimate
	usingRealData := false

	if src.IsGrid() && center != nil {
		estimates = e.estimateFromGrid(sorted, src.Grid(), *center)
		usingRealData = true
	} else {
		density, urbanFactor := scalarParams(src)
		estimates = e.estimateFromDensity(sorted, density, urbanFactor)
	}

	data := model.CasualtyData{
		Estimates:     estimates,
		Totals:        sumTotals(estimates),
		MedicalBurden: medicalBurden(estimates),
		UsingRealData: usingRealData,
	}
	e.logger.Debug("Casualty estimate complete",
		"zones", len(estimates),
		"fatalities", data.Totals.Fatalities,
		"injuries", data.Totals.Injuries,
		"realData", usingRealData)
	return data, nil
}

// scalarParams extracts density parameters for the ring-density strategy.
// A grid source arriving here (no center supplied) degrades to the grid's
// mean density over its bounding box.
func scalarParams(src model.DensitySource) (density, urbanFactor float64) {
	if !src.IsGrid() {
		return src.Scalar()
	}
	g := src.Grid()
	widthKm := geo.Haversine(
		model.LatLng{Lat: (g.Bounds.North + g.Bounds.South) / 2, Lng: g.Bounds.West},
		model.LatLng{Lat: (g.Bounds.North + g.Bounds.South) / 2, Lng: g.Bounds.East},
	) / 1000
	heightKm := geo.Haversine(
		model.LatLng{Lat: g.Bounds.South, Lng: g.Bounds.West},
		model.LatLng{Lat: g.Bounds.North, Lng: g.Bounds.West},
	) / 1000
	areaKm2 := widthKm * heightKm
	if areaKm2 <= 0 {
		return 0, 1
	}
	return g.TotalPopulation() / areaKm2, 1
}

// estimateFromDensity runs the scalar ring-density strategy: each ring's
// population is its annular area times density times the urban factor.
func (e *Estimator) estimateFromDensity(sorted []model.EffectZone, density, urbanFactor float64) []model.CasualtyEstimate {
	estimates := make([]model.CasualtyEstimate, 0, len(sorted))
	st := cascadeState{}

	for _, z := range sorted {
		if z.RadiusM <= st.previousRadiusM {
			continue // degenerate ring, no area of its own
		}
		areaKm2 := geo.CircleAreaKm2(z.RadiusM) - geo.CircleAreaKm2(st.previousRadiusM)
		ringPopulation := int64(math.Round(areaKm2 * density * urbanFactor))
		estimates = append(estimates, applyCascade(z, ringPopulation, areaKm2, &st))
	}
	return estimates
}
