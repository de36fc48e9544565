package geo

import (
	"errors"
	"math"

	"github.com/blastmap/engine/internal/model"
)

// EarthRadiusM is the spherical-Earth radius used for all distance math.
const EarthRadiusM = 6371000.0

// ErrInvalidCoordinate is returned when a latitude/longitude pair is
// outside its valid range.
var ErrInvalidCoordinate = errors.New("invalid coordinate provided")

// ValidateCoordinate checks that a coordinate lies within valid ranges.
func ValidateCoordinate(p model.LatLng) error {
	if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return ErrInvalidCoordinate
	}
	return nil
}

// CircleAreaKm2 returns the area in km² of a circle with the given radius
// in meters.
func CircleAreaKm2(radiusM float64) float64 {
	r := radiusM / 1000
	return math.Pi * r * r
}

// Haversine returns the great-circle distance in meters between two
// coordinates on a spherical Earth.
func Haversine(p1, p2 model.LatLng) float64 {
	lat1 := p1.Lat * math.Pi / 180
	lat2 := p2.Lat * math.Pi / 180
	dLat := (p2.Lat - p1.Lat) * math.Pi / 180
	dLng := (p2.Lng - p1.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusM * c
}

// BoundsAround returns a bounding box extending radiusKm from the center
// in each cardinal direction. Longitude spread widens with latitude.
func BoundsAround(center model.LatLng, radiusKm float64) model.GridBounds {
	latDelta := radiusKm * 1000 / EarthRadiusM * 180 / math.Pi
	cosLat := math.Cos(center.Lat * math.Pi / 180)
	// Clamp near the poles so the box stays finite.
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	lngDelta := latDelta / cosLat
	return model.GridBounds{
		North: center.Lat + latDelta,
		South: center.Lat - latDelta,
		East:  center.Lng + lngDelta,
		West:  center.Lng - lngDelta,
	}
}

// CellSizeM returns the approximate ground size in meters of one cell of a
// rows×cols grid spanning the given bounds, measured along the box's
// mid-latitude width.
func CellSizeM(bounds model.GridBounds, rows, cols int) float64 {
	if rows <= 0 || cols <= 0 {
		return 0
	}
	midLat := (bounds.North + bounds.South) / 2
	width := Haversine(
		model.LatLng{Lat: midLat, Lng: bounds.West},
		model.LatLng{Lat: midLat, Lng: bounds.East},
	)
	return width / float64(cols)
}
