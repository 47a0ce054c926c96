package grid

import (
	"fmt"

	"github.com/lintang-b-s/gridwords/pkg/geo"
)

// OutOfBoundsError is returned when a coordinate lies outside the grid's bounding
// box, or when a cell id does not name a cell of the grid.
type OutOfBoundsError struct {
	Lat, Lon float64
	Box      geo.BoundingBox

	// set when the error comes from decoding a cell id.
	CellID     CellID
	TotalCells int64
	IsCell     bool
}

func (e *OutOfBoundsError) Error() string {
	if e.IsCell {
		return fmt.Sprintf("cell id %d is outside the grid (valid range [0, %d) inside %s)",
			e.CellID, e.TotalCells, e.Box)
	}
	return fmt.Sprintf("coordinate (%v, %v) is outside the bounding box %s", e.Lat, e.Lon, e.Box)
}

func newCoordinateOutOfBounds(lat, lon float64, box geo.BoundingBox) *OutOfBoundsError {
	return &OutOfBoundsError{Lat: lat, Lon: lon, Box: box}
}

func newCellOutOfBounds(id CellID, total int64, box geo.BoundingBox) *OutOfBoundsError {
	return &OutOfBoundsError{CellID: id, TotalCells: total, Box: box, IsCell: true}
}
