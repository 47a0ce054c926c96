package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundingBoxValidate(t *testing.T) {
	testCases := []struct {
		name    string
		box     BoundingBox
		wantErr bool
	}{
		{"india", NewBoundingBox(6, 38, 68, 97), false},
		{"whole world", NewBoundingBox(-89, 89, -179.9, 179.9), false},
		{"inverted latitude", NewBoundingBox(38, 6, 68, 97), true},
		{"empty longitude span", NewBoundingBox(6, 38, 68, 68), true},
		{"beyond the pole", NewBoundingBox(6, 91, 68, 97), true},
		{"beyond the antimeridian", NewBoundingBox(6, 38, 68, 181), true},
		{"nan", NewBoundingBox(math.NaN(), 38, 68, 97), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.box.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBoundingBoxContains(t *testing.T) {
	box := NewBoundingBox(6, 38, 68, 97)

	assert.True(t, box.Contains(6, 68))
	assert.True(t, box.Contains(38, 97))
	assert.True(t, box.Contains(22.32, 70.76))
	assert.False(t, box.Contains(5.999, 70))
	assert.False(t, box.Contains(20, 97.001))
	assert.False(t, box.Contains(math.NaN(), 70))

	assert.Equal(t, NewCoordinate(22, 82.5), box.Center())
	assert.Equal(t, 32.0, box.LatSpan())
	assert.Equal(t, 29.0, box.LonSpan())
	assert.Equal(t, "[6, 38]x[68, 97]", box.String())
}

func TestDistanceMeters(t *testing.T) {
	a := NewCoordinate(22.32, 70.76)

	assert.Zero(t, DistanceMeters(a, a))
	// one thousandth of a degree of latitude on a 6371 km sphere.
	assert.InDelta(t, 111.19, DistanceMeters(a, NewCoordinate(22.321, 70.76)), 0.01)
	assert.InDelta(t, DistanceMeters(a, NewCoordinate(28.61, 77.21)), DistanceMeters(NewCoordinate(28.61, 77.21), a), 1e-6)
}

func TestBearing(t *testing.T) {
	o := NewCoordinate(0, 0)

	assert.InDelta(t, 0, Bearing(o, NewCoordinate(1, 0)), 1e-9)
	assert.InDelta(t, 90, Bearing(o, NewCoordinate(0, 1)), 1e-9)
	assert.InDelta(t, 180, Bearing(o, NewCoordinate(-1, 0)), 1e-9)
	assert.InDelta(t, 270, Bearing(o, NewCoordinate(0, -1)), 1e-9)
}

func TestPolylineOutline(t *testing.T) {
	b := orb.Bound{Min: orb.Point{70.76, 22.32}, Max: orb.Point{70.76003, 22.32003}}

	outline := BoundOutline(b)
	require.Len(t, outline, 5)
	assert.Equal(t, outline[0], outline[4])
	assert.Equal(t, NewCoordinate(22.32, 70.76), outline[0])
	assert.Equal(t, NewCoordinate(22.32, 70.76003), outline[1])
	assert.Equal(t, NewCoordinate(22.32003, 70.76003), outline[2])

	decoded, err := CoordsFromPolyline(PolylineFromCoords(outline))
	require.NoError(t, err)
	require.Len(t, decoded, len(outline))
	for i := range outline {
		assert.InDelta(t, outline[i].Lat, decoded[i].Lat, 1e-5)
		assert.InDelta(t, outline[i].Lon, decoded[i].Lon, 1e-5)
	}
}
