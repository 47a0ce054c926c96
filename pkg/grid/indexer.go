package grid

import (
	"fmt"
	"math"

	"github.com/lintang-b-s/gridwords/pkg/geo"
	"github.com/lintang-b-s/gridwords/pkg/util"
	"github.com/paulmach/orb"
)

// CellID is the row-major index of a cell: latIndex*rowWidth + lonIndex.
type CellID int64

// GridCoordinate is the offset of a cell from the south-west corner of the box,
// in cells.
type GridCoordinate struct {
	LatIndex int64 `json:"lat_index"`
	LonIndex int64 `json:"lon_index"`
}

const (
	// upper bound for each axis, keeps every index exact in float64 and the
	// product of both axes inside int64.
	maxCellsPerAxis = 1 << 31

	// a decoded column may overshoot the row's true east edge by this many cells
	// before it counts as padding.
	eastEdgeTolerance = 1e-6
)

/*
Indexer maps coordinates inside a bounding box to cells of (approximately)
CellSizeMeters x CellSizeMeters, using a local flat-earth approximation:

	latIndex = floor((lat - latMin) * mpdLat / cellSize)
	lonIndex = floor((lon - lonMin) * mpdLat * cos(lat) / cellSize)

every row is rowWidth cells wide. rowWidth is the number of longitude cells at a
single reference latitude, used by both Encode and Decode. the reference is the
box latitude nearest to the equator, where a row holds the most cells, so no
row overflows into the next one. rows further from the equator leave their
trailing ids unused. the box midpoint is not used as the reference: rows
between it and the equator hold more than rowWidth cells and their ids would
alias the next row.

an Indexer is immutable and safe for concurrent use.
*/
type Indexer struct {
	cfg Config

	referenceLat float64
	latCells     int64
	rowWidth     int64
	totalCells   int64
}

func NewIndexer(cfg Config) (*Indexer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ix := &Indexer{cfg: cfg}
	ix.referenceLat = latitudeNearestEquator(cfg.Box.LatMin, cfg.Box.LatMax)

	latCells, err := cellCount(ix.latOffsetCells(cfg.Box.LatMax))
	if err != nil {
		return nil, fmt.Errorf("latitude axis: %w", err)
	}
	rowWidth, err := cellCount(ix.lonOffsetCells(cfg.Box.LonMax, ix.referenceLat))
	if err != nil {
		return nil, fmt.Errorf("longitude axis: %w", err)
	}

	ix.latCells = latCells
	ix.rowWidth = rowWidth
	ix.totalCells = latCells * rowWidth
	return ix, nil
}

func cellCount(offsetCells float64) (int64, error) {
	n := math.Ceil(offsetCells)
	if math.IsNaN(n) || n > maxCellsPerAxis {
		return 0, fmt.Errorf("too many cells (%v), use a larger cell size or a smaller bounding box", n)
	}
	if n < 1 {
		n = 1
	}
	return int64(n), nil
}

func latitudeNearestEquator(latMin, latMax float64) float64 {
	return util.Clamp(0, latMin, latMax)
}

func (ix *Indexer) metersPerDegreeLon(lat float64) float64 {
	return ix.cfg.MetersPerDegreeLat * math.Cos(util.DegreeToRadians(lat))
}

// latOffsetCells. distance from latMin in (fractional) cells.
func (ix *Indexer) latOffsetCells(lat float64) float64 {
	return (lat - ix.cfg.Box.LatMin) * ix.cfg.MetersPerDegreeLat / ix.cfg.CellSizeMeters
}

// lonOffsetCells. distance from lonMin in (fractional) cells, measured along latitude lat.
func (ix *Indexer) lonOffsetCells(lon, lat float64) float64 {
	return (lon - ix.cfg.Box.LonMin) * ix.metersPerDegreeLon(lat) / ix.cfg.CellSizeMeters
}

// clampIndex puts points on the closed upper edge of the box into the last cell.
func clampIndex(i, n int64) int64 {
	if i >= n {
		return n - 1
	}
	if i < 0 {
		return 0
	}
	return i
}

func (ix *Indexer) Config() Config {
	return ix.cfg
}

func (ix *Indexer) Box() geo.BoundingBox {
	return ix.cfg.Box
}

func (ix *Indexer) ReferenceLatitude() float64 {
	return ix.referenceLat
}

func (ix *Indexer) RowWidth() int64 {
	return ix.rowWidth
}

func (ix *Indexer) LatCells() int64 {
	return ix.latCells
}

// TotalCells is the size of the id space, ids are in [0, TotalCells).
func (ix *Indexer) TotalCells() int64 {
	return ix.totalCells
}

// CellDiagonal is the worst case round-trip error in meter.
func (ix *Indexer) CellDiagonal() float64 {
	return ix.cfg.CellSizeMeters * math.Sqrt2
}

func (ix *Indexer) GridCoordinate(lat, lon float64) (GridCoordinate, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) || !ix.cfg.Box.Contains(lat, lon) {
		return GridCoordinate{}, newCoordinateOutOfBounds(lat, lon, ix.cfg.Box)
	}

	latIndex := clampIndex(int64(math.Floor(ix.latOffsetCells(lat))), ix.latCells)
	lonIndex := clampIndex(int64(math.Floor(ix.lonOffsetCells(lon, lat))), ix.rowWidth)

	return GridCoordinate{LatIndex: latIndex, LonIndex: lonIndex}, nil
}

// Encode returns the id of the cell containing (lat, lon). coordinates outside the
// box are rejected with *OutOfBoundsError, never clamped.
func (ix *Indexer) Encode(lat, lon float64) (CellID, error) {
	gc, err := ix.GridCoordinate(lat, lon)
	if err != nil {
		return 0, err
	}
	return ix.CellID(gc)
}

func (ix *Indexer) CellID(gc GridCoordinate) (CellID, error) {
	if gc.LatIndex < 0 || gc.LatIndex >= ix.latCells || gc.LonIndex < 0 || gc.LonIndex >= ix.rowWidth {
		return 0, fmt.Errorf("grid coordinate (%d, %d) outside %dx%d grid",
			gc.LatIndex, gc.LonIndex, ix.latCells, ix.rowWidth)
	}
	return CellID(gc.LatIndex*ix.rowWidth + gc.LonIndex), nil
}

// Coordinate splits a cell id into its grid coordinate. ids outside
// [0, TotalCells) are rejected, never wrapped.
func (ix *Indexer) Coordinate(id CellID) (GridCoordinate, error) {
	if id < 0 || int64(id) >= ix.totalCells {
		return GridCoordinate{}, newCellOutOfBounds(id, ix.totalCells, ix.cfg.Box)
	}
	return GridCoordinate{
		LatIndex: int64(id) / ix.rowWidth,
		LonIndex: int64(id) % ix.rowWidth,
	}, nil
}

type cellEdges struct {
	south, north float64
	west, east   float64
	center       geo.Coordinate
}

// edges computes the geographic extent of a cell. a column narrows in degrees
// toward the pole, so west and east cover the column over the whole row: west
// is taken at the equatorward edge, east at the poleward edge.
func (ix *Indexer) edges(id CellID) (cellEdges, error) {
	gc, err := ix.Coordinate(id)
	if err != nil {
		return cellEdges{}, err
	}
	box := ix.cfg.Box
	cellDeg := ix.cfg.CellSizeMeters / ix.cfg.MetersPerDegreeLat

	south := box.LatMin + float64(gc.LatIndex)*cellDeg
	north := math.Min(box.LatMin+float64(gc.LatIndex+1)*cellDeg, box.LatMax)

	// trailing ids of rows away from the reference latitude lie east of the box.
	equatorward := latitudeNearestEquator(south, north)
	rowLimit := ix.lonOffsetCells(box.LonMax, equatorward)
	if float64(gc.LonIndex) > rowLimit+eastEdgeTolerance {
		return cellEdges{}, newCellOutOfBounds(id, ix.totalCells, box)
	}

	poleward := north
	if math.Abs(south) > math.Abs(north) {
		poleward = south
	}

	centerLat := ix.columnLatitude(gc.LonIndex, south, north)
	west, east := ix.columnSpan(gc.LonIndex, centerLat)
	minWest, _ := ix.columnSpan(gc.LonIndex, equatorward)
	_, maxEast := ix.columnSpan(gc.LonIndex, poleward)

	return cellEdges{
		south:  south,
		north:  north,
		west:   minWest,
		east:   maxEast,
		center: geo.NewCoordinate(centerLat, (west+east)/2),
	}, nil
}

// columnSpan is the longitude range of column k along latitude lat, cut at the
// east edge of the box.
func (ix *Indexer) columnSpan(k int64, lat float64) (float64, float64) {
	lonMax := ix.cfg.Box.LonMax
	cellDegLon := ix.cfg.CellSizeMeters / ix.metersPerDegreeLon(lat)
	west := ix.cfg.Box.LonMin + float64(k)*cellDegLon
	return math.Min(west, lonMax), math.Min(west+cellDegLon, lonMax)
}

// columnLatitude is the latitude the center of column k is taken at: the middle
// of the row, or, when the last column of the row only reaches the box on its
// equatorward side, the middle of the part of the row it covers.
func (ix *Indexer) columnLatitude(k int64, south, north float64) float64 {
	mid := (south + north) / 2

	// column k starts at lonMax where |lat| == acos(k / cells along the equator).
	c := float64(k) / ix.lonOffsetCells(ix.cfg.Box.LonMax, 0)
	if c <= 0 || c >= 1 {
		return mid
	}
	limit := util.RadiansToDegree(math.Acos(c))
	lo, hi := math.Max(south, -limit), math.Min(north, limit)
	if lo >= hi || (mid > lo && mid < hi) {
		return mid
	}
	return (lo + hi) / 2
}

// Decode returns the center of the cell. for the partial cells along the north
// and east edges it is the center of the part inside the box, so it always
// encodes back to id.
func (ix *Indexer) Decode(id CellID) (geo.Coordinate, error) {
	e, err := ix.edges(id)
	if err != nil {
		return geo.Coordinate{}, err
	}
	return e.center, nil
}

// CellBound returns the extent of a cell as an orb.Bound (x = longitude). it
// contains every point that encodes to id.
func (ix *Indexer) CellBound(id CellID) (orb.Bound, error) {
	e, err := ix.edges(id)
	if err != nil {
		return orb.Bound{}, err
	}
	return orb.Bound{
		Min: orb.Point{e.west, e.south},
		Max: orb.Point{e.east, e.north},
	}, nil
}
