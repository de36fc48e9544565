package model

// LatLng is a coordinate in decimal degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GridBounds is a latitude/longitude bounding box.
type GridBounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// PopulationGrid is a rasterized population count over a bounding box.
// Data is row-major: Data[row][col], row 0 at the southern edge.
type PopulationGrid struct {
	Bounds      GridBounds  `json:"bounds"`
	ResolutionM float64     `json:"resolutionM"`
	Data        [][]float64 `json:"data"`
}

// Rows returns the number of grid rows.
func (g *PopulationGrid) Rows() int { return len(g.Data) }

// Cols returns the number of grid columns, 0 for an empty grid.
func (g *PopulationGrid) Cols() int {
	if len(g.Data) == 0 {
		return 0
	}
	return len(g.Data[0])
}

// CellCenter returns the coordinate at the center of the given cell.
func (g *PopulationGrid) CellCenter(row, col int) LatLng {
	latStep := (g.Bounds.North - g.Bounds.South) / float64(g.Rows())
	lngStep := (g.Bounds.East - g.Bounds.West) / float64(g.Cols())
	return LatLng{
		Lat: g.Bounds.South + (float64(row)+0.5)*latStep,
		Lng: g.Bounds.West + (float64(col)+0.5)*lngStep,
	}
}

// TotalPopulation sums every cell.
func (g *PopulationGrid) TotalPopulation() float64 {
	var total float64
	for _, row := range g.Data {
		for _, v := range row {
			total += v
		}
	}
	return total
}

// DensitySource is a tagged variant: either a scalar density model or a
// rasterized population grid. The estimator dispatches on the tag instead
// of null-checking optional fields.
type DensitySource struct {
	grid        *PopulationGrid
	density     float64
	urbanFactor float64
}

// ScalarSource builds a density source from people/km² and an urban
// concentration factor.
func ScalarSource(density, urbanFactor float64) DensitySource {
	return DensitySource{density: density, urbanFactor: urbanFactor}
}

// GridSource builds a density source backed by a population grid.
func GridSource(grid *PopulationGrid) DensitySource {
	return DensitySource{grid: grid}
}

// IsGrid reports whether this source carries a population grid.
func (s DensitySource) IsGrid() bool { return s.grid != nil }

// Grid returns the population grid, nil for scalar sources.
func (s DensitySource) Grid() *PopulationGrid { return s.grid }

// Scalar returns the density and urban factor for scalar sources.
func (s DensitySource) Scalar() (density, urbanFactor float64) {
	return s.density, s.urbanFactor
}

// PopulationDensityModel is the output of the density estimation step.
// TotalPopulation is a placeholder carried for interface compatibility and
// is always zero in the current design.
type PopulationDensityModel struct {
	TotalPopulation float64       `json:"totalPopulation"`
	Source          DensitySource `json:"-"`
}
