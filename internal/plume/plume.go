// Package plume builds fallout plume polygons for map display. The plume is
// a downwind teardrop: widest some way along the wind axis, tapering to the
// detonation point on one end and the maximum transport distance on the
// other.
package plume

import (
	"errors"
	"math"

	"github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"

	"github.com/blastmap/engine/internal/geo"
	"github.com/blastmap/engine/internal/model"
)

// Validation errors.
var (
	ErrNonPositiveLength = errors.New("plume length must be positive")
	ErrNonPositiveWidth  = errors.New("plume width must be positive")
)

// Params describes one plume.
type Params struct {
	Center         model.LatLng
	WindBearingDeg float64 // direction the wind blows toward, clockwise from north
	LengthKm       float64 // downwind extent
	MaxWidthKm     float64 // widest crosswind extent
}

// samplesPerSide controls outline smoothness.
const samplesPerSide = 32

// Polygon traces the plume outline as a closed polygon in WGS84
// coordinates. Geometry is constructed in Web Mercator so the teardrop
// stays shaped at high latitudes, then transformed back.
func Polygon(p Params) (geom.Polygon, error) {
	if p.LengthKm <= 0 {
		return geom.Polygon{}, ErrNonPositiveLength
	}
	if p.MaxWidthKm <= 0 {
		return geom.Polygon{}, ErrNonPositiveWidth
	}
	if err := geo.ValidateCoordinate(p.Center); err != nil {
		return geom.Polygon{}, err
	}

	toMercator := wgs84.EPSG().Transform(4326, 3857)
	toWGS84 := wgs84.EPSG().Transform(3857, 4326)

	cx, cy, _ := toMercator(p.Center.Lng, p.Center.Lat, 0)

	// Mercator stretches distances by 1/cos(lat); scale metric lengths so
	// they land correctly on the ground.
	scale := 1 / math.Cos(p.Center.Lat*math.Pi/180)
	lengthM := p.LengthKm * 1000 * scale
	halfWidthM := p.MaxWidthKm * 1000 * scale / 2

	// Wind bearing is clockwise from north; Mercator axes are east/north.
	bearing := p.WindBearingDeg * math.Pi / 180
	dirX, dirY := math.Sin(bearing), math.Cos(bearing)
	perpX, perpY := dirY, -dirX

	// One side out, the other side back, closed at the origin point.
	coords := make([]float64, 0, (2*samplesPerSide+1)*2)
	appendPoint := func(t, side float64) {
		// Teardrop profile: zero width at both ends, maximum around 40%
		// of the way downwind.
		w := halfWidthM * teardrop(t)
		x := cx + dirX*lengthM*t + perpX*w*side
		y := cy + dirY*lengthM*t + perpY*w*side
		lng, lat, _ := toWGS84(x, y, 0)
		coords = append(coords, lng, lat)
	}

	for i := 0; i <= samplesPerSide; i++ {
		appendPoint(float64(i)/samplesPerSide, 1)
	}
	for i := samplesPerSide - 1; i >= 1; i-- {
		appendPoint(float64(i)/samplesPerSide, -1)
	}
	// Close the ring.
	coords = append(coords, coords[0], coords[1])

	seq := geom.NewSequence(coords, geom.DimXY)
	ring := geom.NewLineString(seq)
	poly := geom.NewPolygon([]geom.LineString{ring})
	if err := poly.Validate(); err != nil {
		return geom.Polygon{}, err
	}
	return poly, nil
}

// teardrop maps downwind position t in [0,1] to a half-width fraction.
func teardrop(t float64) float64 {
	if t <= 0 || t >= 1 {
		return 0
	}
	return math.Sin(math.Pi*t) * math.Pow(1-t, 0.25) * 1.15
}

// WKT renders the plume as well-known text for the map layer.
func WKT(p Params) (string, error) {
	poly, err := Polygon(p)
	if err != nil {
		return "", err
	}
	return poly.AsText(), nil
}
