package grid

import (
	"math"
	"testing"

	"github.com/lintang-b-s/gridwords/pkg/geo"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIndiaIndexer(t *testing.T) *Indexer {
	t.Helper()
	ix, err := NewIndexer(DefaultConfig())
	require.NoError(t, err)
	return ix
}

func TestNewIndexerInvalidConfig(t *testing.T) {
	testCases := []struct {
		name string
		cfg  Config
	}{
		{
			name: "inverted latitude",
			cfg:  Config{Box: geo.NewBoundingBox(38, 6, 68, 97), CellSizeMeters: 3, MetersPerDegreeLat: 111000},
		},
		{
			name: "empty longitude span",
			cfg:  Config{Box: geo.NewBoundingBox(6, 38, 68, 68), CellSizeMeters: 3, MetersPerDegreeLat: 111000},
		},
		{
			name: "latitude beyond pole",
			cfg:  Config{Box: geo.NewBoundingBox(6, 91, 68, 97), CellSizeMeters: 3, MetersPerDegreeLat: 111000},
		},
		{
			name: "zero cell size",
			cfg:  Config{Box: IndiaBoundingBox, CellSizeMeters: 0, MetersPerDegreeLat: 111000},
		},
		{
			name: "nan cell size",
			cfg:  Config{Box: IndiaBoundingBox, CellSizeMeters: math.NaN(), MetersPerDegreeLat: 111000},
		},
		{
			name: "too fine for int64",
			cfg:  Config{Box: geo.NewBoundingBox(-90, 90, -180, 180), CellSizeMeters: 0.001, MetersPerDegreeLat: 111000},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewIndexer(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestIndexerDimensions(t *testing.T) {
	ix := newIndiaIndexer(t)

	assert.Equal(t, 6.0, ix.ReferenceLatitude())
	assert.Equal(t, int64(1184000), ix.LatCells())

	refLat, lonSpan := 6.0, 29.0
	wantRow := int64(math.Ceil(lonSpan * (111000 * math.Cos(refLat*(math.Pi/180.0))) / 3))
	assert.Equal(t, wantRow, ix.RowWidth())
	assert.Equal(t, ix.LatCells()*ix.RowWidth(), ix.TotalCells())
	assert.InDelta(t, 4.2426, ix.CellDiagonal(), 1e-4)
}

func TestReferenceLatitude(t *testing.T) {
	testCases := []struct {
		name string
		box  geo.BoundingBox
		want float64
	}{
		{name: "northern hemisphere", box: geo.NewBoundingBox(6, 38, 68, 97), want: 6},
		{name: "southern hemisphere", box: geo.NewBoundingBox(-44, -10, 112, 154), want: -10},
		{name: "across the equator", box: geo.NewBoundingBox(-11, 6, 95, 141), want: 0},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			ix, err := NewIndexer(Config{Box: tt.box, CellSizeMeters: 3, MetersPerDegreeLat: DefaultMetersPerDegreeLat})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ix.ReferenceLatitude())
		})
	}
}

func TestEncodeBoundary(t *testing.T) {
	ix := newIndiaIndexer(t)

	id, err := ix.Encode(6.0, 68.0)
	require.NoError(t, err)
	assert.Equal(t, CellID(0), id)

	id, err = ix.Encode(38.0, 97.0)
	require.NoError(t, err)
	assert.Less(t, int64(id), ix.TotalCells())

	outside := []struct {
		name     string
		lat, lon float64
	}{
		{name: "north of box", lat: 38.0 + 1e-9, lon: 80},
		{name: "south of box", lat: 6.0 - 1e-9, lon: 80},
		{name: "west of box", lat: 20, lon: 67.999},
		{name: "east of box", lat: 20, lon: 97.0001},
		{name: "nan latitude", lat: math.NaN(), lon: 80},
		{name: "nan longitude", lat: 20, lon: math.NaN()},
	}
	for _, tt := range outside {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ix.Encode(tt.lat, tt.lon)
			var oob *OutOfBoundsError
			require.ErrorAs(t, err, &oob)
			assert.False(t, oob.IsCell)
		})
	}
}

func TestRoundTripExample(t *testing.T) {
	ix := newIndiaIndexer(t)

	id, err := ix.Encode(22.32, 70.76)
	require.NoError(t, err)

	got, err := ix.Decode(id)
	require.NoError(t, err)

	dist := geo.DistanceMeters(geo.NewCoordinate(22.32, 70.76), got)
	assert.LessOrEqual(t, dist, 4.2)
}

func TestRoundTripWithinCellDiagonal(t *testing.T) {
	ix := newIndiaIndexer(t)

	for lat := 6.0001; lat < 38; lat += 0.7731 {
		for lon := 68.0001; lon < 97; lon += 0.6917 {
			id, err := ix.Encode(lat, lon)
			require.NoError(t, err)

			got, err := ix.Decode(id)
			require.NoError(t, err, "decode cell %d of (%v, %v)", id, lat, lon)

			dist := geo.DistanceMeters(geo.NewCoordinate(lat, lon), got)
			assert.LessOrEqual(t, dist, ix.CellDiagonal(), "(%v, %v) decoded to %v", lat, lon, got)

			// the decoded center lies inside its own cell.
			again, err := ix.Encode(got.Lat, got.Lon)
			require.NoError(t, err)
			assert.Equal(t, id, again)
		}
	}
}

func TestCellIDUniqueness(t *testing.T) {
	ix, err := NewIndexer(Config{
		Box:                geo.NewBoundingBox(10, 10.002, 20, 20.002),
		CellSizeMeters:     3,
		MetersPerDegreeLat: DefaultMetersPerDegreeLat,
	})
	require.NoError(t, err)

	seen := make(map[CellID]GridCoordinate)
	for i := int64(0); i < ix.LatCells(); i++ {
		for j := int64(0); j < ix.RowWidth(); j++ {
			gc := GridCoordinate{LatIndex: i, LonIndex: j}
			id, err := ix.CellID(gc)
			require.NoError(t, err)

			prev, dup := seen[id]
			require.False(t, dup, "cell id %d shared by %v and %v", id, prev, gc)
			seen[id] = gc

			back, err := ix.Coordinate(id)
			require.NoError(t, err)
			assert.Equal(t, gc, back)
		}
	}
	assert.Len(t, seen, int(ix.TotalCells()))
}

func TestEncodeNeverOverflowsRow(t *testing.T) {
	ix := newIndiaIndexer(t)

	// the east edge at the reference latitude holds the widest row.
	for _, lat := range []float64{6, 6.0000001, 14, 22, 30, 38} {
		gc, err := ix.GridCoordinate(lat, 97)
		require.NoError(t, err)
		assert.Less(t, gc.LonIndex, ix.RowWidth(), "lat %v", lat)
	}
}

func TestDecodeInvalidCell(t *testing.T) {
	ix := newIndiaIndexer(t)

	padding := CellID((ix.LatCells()-1)*ix.RowWidth() + ix.RowWidth() - 1)

	testCases := []struct {
		name string
		id   CellID
	}{
		{name: "negative", id: -1},
		{name: "past the last cell", id: CellID(ix.TotalCells())},
		{name: "row padding east of the box", id: padding},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ix.Decode(tt.id)
			var oob *OutOfBoundsError
			require.ErrorAs(t, err, &oob)
			assert.True(t, oob.IsCell)
			assert.Equal(t, tt.id, oob.CellID)
		})
	}
}

func TestCellBound(t *testing.T) {
	ix := newIndiaIndexer(t)

	id, err := ix.Encode(22.32, 70.76)
	require.NoError(t, err)

	bound, err := ix.CellBound(id)
	require.NoError(t, err)

	assert.LessOrEqual(t, bound.Min.Lat(), 22.32)
	assert.GreaterOrEqual(t, bound.Max.Lat(), 22.32)
	assert.InDelta(t, 3.0/DefaultMetersPerDegreeLat, bound.Max.Lat()-bound.Min.Lat(), 1e-12)

	center, err := ix.Decode(id)
	require.NoError(t, err)
	assert.True(t, bound.Contains(orb.Point{center.Lon, center.Lat}))
}

func TestEastEdgeCellsRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		box  geo.BoundingBox
		// rows next to the pole-side edge of the box, where the last column of
		// a row only reaches the box near its equatorward edge.
		firstRow func(ix *Indexer) int64
	}{
		{
			name:     "northern hemisphere",
			box:      IndiaBoundingBox,
			firstRow: func(ix *Indexer) int64 { return ix.LatCells() - 2001 },
		},
		{
			name:     "southern hemisphere",
			box:      geo.NewBoundingBox(-38, -6, 68, 97),
			firstRow: func(ix *Indexer) int64 { return 0 },
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			ix, err := NewIndexer(Config{Box: tt.box, CellSizeMeters: 3, MetersPerDegreeLat: DefaultMetersPerDegreeLat})
			require.NoError(t, err)
			cellDeg := 3 / DefaultMetersPerDegreeLat

			first := tt.firstRow(ix)
			for i := first; i < first+2000; i++ {
				south := tt.box.LatMin + float64(i)*cellDeg
				lat := south + 0.001*cellDeg
				if tt.box.LatMax < 0 {
					lat = south + 0.999*cellDeg
				}

				id, err := ix.Encode(lat, tt.box.LonMax)
				require.NoError(t, err)

				center, err := ix.Decode(id)
				require.NoError(t, err)
				assert.LessOrEqual(t, geo.DistanceMeters(geo.NewCoordinate(lat, tt.box.LonMax), center), ix.CellDiagonal())

				again, err := ix.Encode(center.Lat, center.Lon)
				require.NoError(t, err)
				require.Equal(t, id, again, "row %d: center %v of cell %d", i, center, id)

				bound, err := ix.CellBound(id)
				require.NoError(t, err)
				assert.Greater(t, bound.Max.Lon(), bound.Min.Lon(), "row %d", i)
				assert.True(t, bound.Contains(orb.Point{tt.box.LonMax, lat}), "row %d", i)
				assert.True(t, bound.Contains(orb.Point{center.Lon, center.Lat}), "row %d", i)
			}
		})
	}
}
