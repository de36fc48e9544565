package plume

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blastmap/engine/internal/geo"
	"github.com/blastmap/engine/internal/model"
)

func testParams() Params {
	return Params{
		Center:         model.LatLng{Lat: 40.7128, Lng: -74.0060},
		WindBearingDeg: 90, // due east
		LengthKm:       30,
		MaxWidthKm:     8,
	}
}

func TestPolygon_Valid(t *testing.T) {
	poly, err := Polygon(testParams())
	require.NoError(t, err)
	require.NoError(t, poly.Validate())

	ring := poly.ExteriorRing()
	seq := ring.Coordinates()
	assert.Equal(t, 2*samplesPerSide+1, seq.Length())
}

func TestPolygon_StartsAtCenter(t *testing.T) {
	p := testParams()
	poly, err := Polygon(p)
	require.NoError(t, err)

	first := poly.ExteriorRing().Coordinates().GetXY(0)
	assert.InDelta(t, p.Center.Lng, first.X, 1e-6)
	assert.InDelta(t, p.Center.Lat, first.Y, 1e-6)
}

func TestPolygon_ExtendsDownwind(t *testing.T) {
	p := testParams() // wind blowing east
	poly, err := Polygon(p)
	require.NoError(t, err)

	seq := poly.ExteriorRing().Coordinates()
	var maxLng, maxLat, minLat float64 = p.Center.Lng, p.Center.Lat, p.Center.Lat
	for i := 0; i < seq.Length(); i++ {
		xy := seq.GetXY(i)
		if xy.X > maxLng {
			maxLng = xy.X
		}
		if xy.Y > maxLat {
			maxLat = xy.Y
		}
		if xy.Y < minLat {
			minLat = xy.Y
		}
	}

	// The far tip sits LengthKm east of the center.
	tip := model.LatLng{Lat: p.Center.Lat, Lng: maxLng}
	assert.InEpsilon(t, p.LengthKm*1000, geo.Haversine(p.Center, tip), 0.02)

	// The crosswind extent never exceeds the configured width.
	span := geo.Haversine(
		model.LatLng{Lat: minLat, Lng: p.Center.Lng},
		model.LatLng{Lat: maxLat, Lng: p.Center.Lng},
	)
	assert.LessOrEqual(t, span, p.MaxWidthKm*1000*1.05)
	assert.Greater(t, span, p.MaxWidthKm*1000*0.5)
}

func TestPolygon_RejectsBadParams(t *testing.T) {
	p := testParams()
	p.LengthKm = 0
	_, err := Polygon(p)
	assert.ErrorIs(t, err, ErrNonPositiveLength)

	p = testParams()
	p.MaxWidthKm = -1
	_, err = Polygon(p)
	assert.ErrorIs(t, err, ErrNonPositiveWidth)

	p = testParams()
	p.Center.Lat = 95
	_, err = Polygon(p)
	assert.ErrorIs(t, err, geo.ErrInvalidCoordinate)
}

func TestWKT(t *testing.T) {
	s, err := WKT(testParams())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s, "POLYGON"))
}
