package casualty

import (
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blastmap/engine/internal/geo"
	"github.com/blastmap/engine/internal/model"
)

func newTestEstimator() *Estimator {
	return NewEstimator(slog.Default())
}

func zone(name string, cat model.ZoneCategory, radiusM, rate float64, inj model.InjuryDistribution) model.EffectZone {
	return model.EffectZone{
		Name:         name,
		Category:     cat,
		RadiusM:      radiusM,
		FatalityRate: rate,
		Injuries:     inj,
	}
}

func TestEstimate_TwoRingScenario(t *testing.T) {
	zones := []model.EffectZone{
		zone("inner", model.CategoryBlast, 1000, 1.0, model.InjuryDistribution{}),
		zone("outer", model.CategoryBlast, 3000, 0.5, model.InjuryDistribution{Severe: 0.7, Moderate: 0.2, Light: 0.1}),
	}

	data, err := newTestEstimator().Estimate(zones, model.ScalarSource(1000, 1.0), nil)
	require.NoError(t, err)
	require.Len(t, data.Estimates, 2)

	inner := data.Estimates[0]
	assert.Equal(t, int64(3142), inner.PopulationAffected)
	assert.Equal(t, int64(3142), inner.Fatalities)
	assert.Equal(t, int64(0), inner.Injuries.Total())
	assert.InDelta(t, math.Pi, inner.AreaKm2, 1e-9)

	outer := data.Estimates[1]
	assert.Equal(t, int64(25133), outer.PopulationAffected)
	assert.Equal(t, int64(12567), outer.Fatalities)
	assert.Equal(t, int64(8796), outer.Injuries.Severe)
	assert.Equal(t, int64(2513), outer.Injuries.Moderate)
	assert.Equal(t, int64(1257), outer.Injuries.Light)
	assert.InDelta(t, 8*math.Pi, outer.AreaKm2, 1e-9)

	assert.Equal(t, int64(28275), data.Totals.PopulationAffected)
	assert.Equal(t, int64(15709), data.Totals.Fatalities)
	assert.Equal(t, int64(12566), data.Totals.Injuries)
	assert.False(t, data.UsingRealData)
}

func TestEstimate_UnsortedInputSortedByRadius(t *testing.T) {
	zones := []model.EffectZone{
		zone("outer", model.CategoryBlast, 3000, 0.5, model.InjuryDistribution{Severe: 0.7, Moderate: 0.2, Light: 0.1}),
		zone("inner", model.CategoryBlast, 1000, 1.0, model.InjuryDistribution{}),
	}

	data, err := newTestEstimator().Estimate(zones, model.ScalarSource(1000, 1.0), nil)
	require.NoError(t, err)
	require.Len(t, data.Estimates, 2)
	assert.Equal(t, "inner", data.Estimates[0].ZoneName)
	assert.Equal(t, int64(12567), data.Estimates[1].Fatalities)
}

func TestEstimate_DegenerateRingsSkipped(t *testing.T) {
	zones := []model.EffectZone{
		zone("zero", model.CategoryBlast, 0, 1.0, model.InjuryDistribution{}),
		zone("a", model.CategoryBlast, 1000, 1.0, model.InjuryDistribution{}),
		zone("a-duplicate", model.CategoryBlast, 1000, 0.5, model.InjuryDistribution{}),
		zone("b", model.CategoryBlast, 3000, 0.5, model.InjuryDistribution{Severe: 0.7, Moderate: 0.2, Light: 0.1}),
	}

	data, err := newTestEstimator().Estimate(zones, model.ScalarSource(1000, 1.0), nil)
	require.NoError(t, err)
	require.Len(t, data.Estimates, 2, "zero-radius and duplicate-radius zones emit nothing")

	// Skipped zones must not advance the cascade: the numbers match the
	// plain two-ring case exactly.
	assert.Equal(t, int64(3142), data.Estimates[0].Fatalities)
	assert.Equal(t, int64(12567), data.Estimates[1].Fatalities)
}

func TestEstimate_RejectsInvalidZone(t *testing.T) {
	zones := []model.EffectZone{
		zone("bad", model.CategoryBlast, 1000, 1.5, model.InjuryDistribution{}),
	}
	_, err := newTestEstimator().Estimate(zones, model.ScalarSource(1000, 1.0), nil)
	require.ErrorIs(t, err, model.ErrRateOutOfRange)
}

func TestEstimate_EmptyZones(t *testing.T) {
	_, err := newTestEstimator().Estimate(nil, model.ScalarSource(1000, 1.0), nil)
	assert.ErrorIs(t, err, ErrNoZones)
}

func TestEstimate_FatalitiesNeverExceedPopulation(t *testing.T) {
	zones := []model.EffectZone{
		zone("a", model.CategoryBlast, 500, 1.0, model.InjuryDistribution{Severe: 1, Moderate: 1, Light: 1}),
		zone("b", model.CategoryThermal, 1500, 1.0, model.InjuryDistribution{Severe: 1, Moderate: 1, Light: 1}),
		zone("c", model.CategoryRadiation, 4000, 1.0, model.InjuryDistribution{}),
	}
	data, err := newTestEstimator().Estimate(zones, model.ScalarSource(30000, 0.9), nil)
	require.NoError(t, err)

	for _, est := range data.Estimates {
		assert.LessOrEqual(t, est.Fatalities, est.PopulationAffected, "zone %s", est.ZoneName)
	}
	assert.LessOrEqual(t, data.Totals.Fatalities, data.Totals.PopulationAffected)
}

func TestEstimate_MoreZonesMoreFatalities(t *testing.T) {
	base := []model.EffectZone{
		zone("a", model.CategoryBlast, 1000, 0.9, model.InjuryDistribution{}),
	}
	extended := append(append([]model.EffectZone{}, base...),
		zone("b", model.CategoryBlast, 2500, 0.3, model.InjuryDistribution{}))

	e := newTestEstimator()
	d1, err := e.Estimate(base, model.ScalarSource(5000, 0.8), nil)
	require.NoError(t, err)
	d2, err := e.Estimate(extended, model.ScalarSource(5000, 0.8), nil)
	require.NoError(t, err)

	assert.Greater(t, d2.Totals.Fatalities, d1.Totals.Fatalities)
}

func TestEstimate_MedicalBurden(t *testing.T) {
	zones := []model.EffectZone{
		zone("psi5", model.CategoryBlast, 2000, 0.5, model.InjuryDistribution{Severe: 0.4}),
		zone("thermal3rd", model.CategoryThermal, 4000, 0.2, model.InjuryDistribution{Moderate: 0.5}),
		zone("rem100", model.CategoryRadiation, 6000, 0.05, model.InjuryDistribution{Light: 0.3}),
	}

	data, err := newTestEstimator().Estimate(zones, model.ScalarSource(2000, 1.0), nil)
	require.NoError(t, err)
	require.Len(t, data.Estimates, 3)

	b := data.MedicalBurden
	assert.Equal(t, data.Estimates[0].Injuries.Total(), b.SevereTrauma)
	assert.Equal(t, data.Estimates[1].Injuries.Total(), b.Burns)
	assert.Equal(t, data.Estimates[2].Injuries.Total(), b.RadiationSickness)

	total := b.SevereTrauma + b.Burns + b.RadiationSickness
	assert.Equal(t, int64(math.Round(float64(total)*0.10)), b.CombinedInjuries)
	assert.Equal(t, total, data.Totals.Injuries)
}

func TestEstimate_Idempotent(t *testing.T) {
	zones := []model.EffectZone{
		zone("a", model.CategoryBlast, 1000, 0.98, model.InjuryDistribution{Severe: 0.6, Moderate: 0.3, Light: 0.1}),
		zone("b", model.CategoryThermal, 3500, 0.4, model.InjuryDistribution{Severe: 0.2, Moderate: 0.4, Light: 0.3}),
	}
	src := model.ScalarSource(8700, 0.75)

	e := newTestEstimator()
	d1, err := e.Estimate(zones, src, nil)
	require.NoError(t, err)
	d2, err := e.Estimate(zones, src, nil)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}

// uniformGrid builds a grid whose every cell holds density people/km²
// converted to the cell's area.
func uniformGrid(center model.LatLng, radiusKm, densityPerKm2 float64, size int) *model.PopulationGrid {
	bounds := geo.BoundsAround(center, radiusKm)
	cellM := geo.CellSizeM(bounds, size, size)
	perCell := densityPerKm2 * (cellM / 1000) * (cellM / 1000)

	data := make([][]float64, size)
	for i := range data {
		data[i] = make([]float64, size)
		for j := range data[i] {
			data[i][j] = perCell
		}
	}
	return &model.PopulationGrid{Bounds: bounds, ResolutionM: cellM, Data: data}
}

func TestEstimate_GridStrategyMatchesScalarOnUniformGrid(t *testing.T) {
	center := model.LatLng{Lat: 0, Lng: 0}
	grid := uniformGrid(center, 5, 1000, 120)

	zones := []model.EffectZone{
		zone("inner", model.CategoryBlast, 1000, 1.0, model.InjuryDistribution{}),
		zone("outer", model.CategoryBlast, 3000, 0.5, model.InjuryDistribution{Severe: 0.7, Moderate: 0.2, Light: 0.1}),
	}

	e := newTestEstimator()
	scalar, err := e.Estimate(zones, model.ScalarSource(1000, 1.0), nil)
	require.NoError(t, err)
	gridded, err := e.Estimate(zones, model.GridSource(grid), &center)
	require.NoError(t, err)

	assert.True(t, gridded.UsingRealData)
	assert.False(t, scalar.UsingRealData)

	for i := range zones {
		s, g := scalar.Estimates[i], gridded.Estimates[i]
		assert.InEpsilon(t, float64(s.PopulationAffected), float64(g.PopulationAffected), 0.05,
			"zone %s population", s.ZoneName)
		assert.InEpsilon(t, float64(s.Fatalities), float64(g.Fatalities), 0.05,
			"zone %s fatalities", s.ZoneName)
	}
}

func TestEstimate_GridRingsNeverDoubleCount(t *testing.T) {
	center := model.LatLng{Lat: 40, Lng: -74}
	grid := uniformGrid(center, 5, 3000, 80)

	zones := []model.EffectZone{
		zone("a", model.CategoryBlast, 800, 1.0, model.InjuryDistribution{}),
		zone("b", model.CategoryBlast, 2000, 0.5, model.InjuryDistribution{}),
		zone("c", model.CategoryThermal, 4200, 0.1, model.InjuryDistribution{}),
	}

	data, err := newTestEstimator().Estimate(zones, model.GridSource(grid), &center)
	require.NoError(t, err)

	// The rings partition the outermost disc: their populations must sum to
	// the single-disc total at the largest radius, within per-ring rounding.
	disc := discPopulation(grid, center, 4200)
	var ringSum int64
	for _, est := range data.Estimates {
		ringSum += est.PopulationAffected
	}
	assert.InDelta(t, disc, float64(ringSum), float64(len(data.Estimates)))
}

func TestEstimate_GridWithoutCenterFallsBackToScalar(t *testing.T) {
	center := model.LatLng{Lat: 0, Lng: 0}
	grid := uniformGrid(center, 5, 1000, 40)

	zones := []model.EffectZone{
		zone("a", model.CategoryBlast, 1000, 1.0, model.InjuryDistribution{}),
	}
	data, err := newTestEstimator().Estimate(zones, model.GridSource(grid), nil)
	require.NoError(t, err)

	assert.False(t, data.UsingRealData)
	// Mean density over the box approximates the uniform 1000/km².
	assert.InEpsilon(t, 3142.0, float64(data.Estimates[0].PopulationAffected), 0.05)
}
