package overpass

import (
	"github.com/blastmap/engine/internal/geo"
	"github.com/blastmap/engine/internal/model"
)

// occupantsPerFloor estimates residents/workers per building floor by
// declared structure type.
var occupantsPerFloor = map[string]float64{
	"residential": 5,
	"apartments":  6,
	"house":       4,
	"detached":    4,
	"terrace":     4,
	"dormitory":   8,
	"commercial":  20,
	"office":      20,
	"retail":      15,
	"industrial":  10,
	"school":      50,
	"university":  40,
	"hospital":    30,
	"hotel":       12,
}

const defaultOccupantsPerFloor = 4

// occupants estimates the population of one structure.
func occupants(b Building) float64 {
	perFloor, ok := occupantsPerFloor[b.Type]
	if !ok {
		perFloor = defaultOccupantsPerFloor
	}
	levels := b.Levels
	if levels < 1 {
		levels = 1
	}
	return perFloor * float64(levels)
}

// BuildGrid buckets structures into a size×size grid spanning a bounding
// box of radiusKm around the center. Buildings outside the box are dropped.
func BuildGrid(buildings []Building, center model.LatLng, radiusKm float64, size int) *model.PopulationGrid {
	bounds := geo.BoundsAround(center, radiusKm)

	data := make([][]float64, size)
	for i := range data {
		data[i] = make([]float64, size)
	}

	latSpan := bounds.North - bounds.South
	lngSpan := bounds.East - bounds.West

	for _, b := range buildings {
		rowF := (b.Lat - bounds.South) / latSpan * float64(size)
		colF := (b.Lng - bounds.West) / lngSpan * float64(size)
		row, col := int(rowF), int(colF)
		if row < 0 || row >= size || col < 0 || col >= size {
			continue
		}
		data[row][col] += occupants(b)
	}

	return &model.PopulationGrid{
		Bounds:      bounds,
		ResolutionM: geo.CellSizeM(bounds, size, size),
		Data:        data,
	}
}
