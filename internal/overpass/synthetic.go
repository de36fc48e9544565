package overpass

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/blastmap/engine/internal/geo"
	"github.com/blastmap/engine/internal/model"
)

// SyntheticConfig tunes the fallback grid generator.
type SyntheticConfig struct {
	Size             int     // grid dimension, typically 50
	MaxDensityPerKm2 float64 // population cap per km²
	Seed             int64   // noise seed; fixed seed keeps results deterministic
}

// SyntheticGrid generates a population grid with density decaying radially
// from the center plus bounded deterministic noise. It stands in for the
// building feed when the upstream is unavailable.
func SyntheticGrid(center model.LatLng, radiusKm float64, cfg SyntheticConfig) *model.PopulationGrid {
	bounds := geo.BoundsAround(center, radiusKm)
	cellM := geo.CellSizeM(bounds, cfg.Size, cfg.Size)
	cellAreaKm2 := (cellM / 1000) * (cellM / 1000)

	noise := opensimplex.NewNormalized(cfg.Seed)

	data := make([][]float64, cfg.Size)
	mid := float64(cfg.Size-1) / 2
	for row := range data {
		data[row] = make([]float64, cfg.Size)
		for col := range data[row] {
			// Normalized distance from grid center: 0 at center, 1 at edge.
			dRow := (float64(row) - mid) / mid
			dCol := (float64(col) - mid) / mid
			dist := math.Sqrt(dRow*dRow + dCol*dCol)
			if dist > 1 {
				dist = 1
			}

			falloff := math.Exp(-2.5 * dist)
			n := noise.Eval2(float64(row)/8, float64(col)/8) // [0,1]
			densityPerKm2 := cfg.MaxDensityPerKm2 * falloff * (0.4 + 0.6*n)

			data[row][col] = densityPerKm2 * cellAreaKm2
		}
	}

	return &model.PopulationGrid{
		Bounds:      bounds,
		ResolutionM: cellM,
		Data:        data,
	}
}
