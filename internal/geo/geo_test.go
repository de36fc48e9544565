package geo

import (
	"math"
	"testing"

	"github.com/blastmap/engine/internal/model"
)

func TestCircleAreaKm2_UnitCircle(t *testing.T) {
	got := CircleAreaKm2(1000)
	if math.Abs(got-math.Pi) > 1e-9 {
		t.Errorf("expected pi km² for 1km radius, got %f", got)
	}
}

func TestCircleAreaKm2_Zero(t *testing.T) {
	if got := CircleAreaKm2(0); got != 0 {
		t.Errorf("expected 0 area for 0 radius, got %f", got)
	}
}

func TestCircleAreaKm2_RingAreaConservation(t *testing.T) {
	// Sum of ring areas must equal the area of the outermost disc.
	radii := []float64{500, 1200, 3000, 7500, 20000}
	var sum float64
	prev := 0.0
	for _, r := range radii {
		sum += CircleAreaKm2(r) - CircleAreaKm2(prev)
		prev = r
	}
	outer := CircleAreaKm2(radii[len(radii)-1])
	if math.Abs(sum-outer) > 1e-9 {
		t.Errorf("ring areas sum %f, outer disc %f", sum, outer)
	}
}

func TestHaversine_IdenticalPoints(t *testing.T) {
	p := model.LatLng{Lat: 40.7128, Lng: -74.0060}
	if d := Haversine(p, p); d != 0 {
		t.Errorf("expected 0 distance for identical points, got %f", d)
	}
}

func TestHaversine_Symmetric(t *testing.T) {
	p1 := model.LatLng{Lat: 40.7128, Lng: -74.0060}
	p2 := model.LatLng{Lat: 51.5074, Lng: -0.1278}
	d1 := Haversine(p1, p2)
	d2 := Haversine(p2, p1)
	if math.Abs(d1-d2) > 1e-6 {
		t.Errorf("expected symmetric distance, got %f and %f", d1, d2)
	}
}

func TestHaversine_KnownDistance(t *testing.T) {
	// New York to London is roughly 5570 km.
	p1 := model.LatLng{Lat: 40.7128, Lng: -74.0060}
	p2 := model.LatLng{Lat: 51.5074, Lng: -0.1278}
	d := Haversine(p1, p2)
	if d < 5500e3 || d > 5650e3 {
		t.Errorf("expected NY-London around 5570km, got %fkm", d/1000)
	}
}

func TestHaversine_MonotonicInSeparation(t *testing.T) {
	origin := model.LatLng{Lat: 10, Lng: 10}
	prev := 0.0
	for _, dLng := range []float64{0.001, 0.01, 0.1, 1, 10} {
		d := Haversine(origin, model.LatLng{Lat: 10, Lng: 10 + dLng})
		if d <= prev {
			t.Fatalf("expected distance to grow with separation, got %f after %f", d, prev)
		}
		prev = d
	}
}

func TestHaversine_OneDegreeLatitude(t *testing.T) {
	// One degree of latitude is about 111.2 km on the sphere used here.
	d := Haversine(model.LatLng{Lat: 0, Lng: 0}, model.LatLng{Lat: 1, Lng: 0})
	expected := EarthRadiusM * math.Pi / 180
	if math.Abs(d-expected) > 1 {
		t.Errorf("expected %f, got %f", expected, d)
	}
}

func TestBoundsAround_ContainsCenter(t *testing.T) {
	center := model.LatLng{Lat: 35.6762, Lng: 139.6503}
	b := BoundsAround(center, 20)
	if center.Lat <= b.South || center.Lat >= b.North {
		t.Errorf("center latitude outside bounds: %+v", b)
	}
	if center.Lng <= b.West || center.Lng >= b.East {
		t.Errorf("center longitude outside bounds: %+v", b)
	}
}

func TestBoundsAround_EdgeDistance(t *testing.T) {
	center := model.LatLng{Lat: 48.8566, Lng: 2.3522}
	radiusKm := 10.0
	b := BoundsAround(center, radiusKm)
	dNorth := Haversine(center, model.LatLng{Lat: b.North, Lng: center.Lng})
	if math.Abs(dNorth-radiusKm*1000) > 50 {
		t.Errorf("expected northern edge ~%fm away, got %f", radiusKm*1000, dNorth)
	}
}

func TestCellSizeM_SquareishCells(t *testing.T) {
	center := model.LatLng{Lat: 0, Lng: 0}
	b := BoundsAround(center, 10)
	size := CellSizeM(b, 100, 100)
	// 20km box / 100 cells = ~200m per cell.
	if size < 190 || size > 210 {
		t.Errorf("expected cell size near 200m, got %f", size)
	}
}

func TestCellSizeM_DegenerateGrid(t *testing.T) {
	b := BoundsAround(model.LatLng{}, 10)
	if got := CellSizeM(b, 0, 0); got != 0 {
		t.Errorf("expected 0 for empty grid, got %f", got)
	}
}

func TestValidateCoordinate(t *testing.T) {
	valid := []model.LatLng{{Lat: 0, Lng: 0}, {Lat: 90, Lng: 180}, {Lat: -90, Lng: -180}}
	for _, p := range valid {
		if err := ValidateCoordinate(p); err != nil {
			t.Errorf("expected valid coordinate %+v, got %v", p, err)
		}
	}
	invalid := []model.LatLng{{Lat: 91, Lng: 0}, {Lat: 0, Lng: 181}, {Lat: -100, Lng: 0}}
	for _, p := range invalid {
		if err := ValidateCoordinate(p); err == nil {
			t.Errorf("expected error for coordinate %+v", p)
		}
	}
}
