package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// BoundingBox is the coverage region of a grid, in degree. the box is closed on
// every side.
type BoundingBox struct {
	LatMin float64 `json:"lat_min" mapstructure:"lat_min"`
	LatMax float64 `json:"lat_max" mapstructure:"lat_max"`
	LonMin float64 `json:"lon_min" mapstructure:"lon_min"`
	LonMax float64 `json:"lon_max" mapstructure:"lon_max"`
}

func NewBoundingBox(latMin, latMax, lonMin, lonMax float64) BoundingBox {
	return BoundingBox{
		LatMin: latMin,
		LatMax: latMax,
		LonMin: lonMin,
		LonMax: lonMax,
	}
}

func (bb BoundingBox) Validate() error {
	switch {
	case !NewCoordinate(bb.LatMin, bb.LonMin).IsValid() || !NewCoordinate(bb.LatMax, bb.LonMax).IsValid():
		return fmt.Errorf("invalid bounding box: corners (%v, %v) and (%v, %v) must lie in [-90, 90]x[-180, 180]",
			bb.LatMin, bb.LonMin, bb.LatMax, bb.LonMax)
	case bb.LatMin >= bb.LatMax:
		return fmt.Errorf("invalid bounding box: lat_min %v must be less than lat_max %v", bb.LatMin, bb.LatMax)
	case bb.LonMin >= bb.LonMax:
		return fmt.Errorf("invalid bounding box: lon_min %v must be less than lon_max %v", bb.LonMin, bb.LonMax)
	}
	return nil
}

// Contains is inclusive on every edge. NaN is never contained.
func (bb BoundingBox) Contains(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return bb.Bound().Contains(orb.Point{lon, lat})
}

func (bb BoundingBox) Center() Coordinate {
	c := bb.Bound().Center()
	return NewCoordinate(c.Lat(), c.Lon())
}

func (bb BoundingBox) LatSpan() float64 {
	return bb.LatMax - bb.LatMin
}

func (bb BoundingBox) LonSpan() float64 {
	return bb.LonMax - bb.LonMin
}

// Bound returns the box as an orb.Bound, x is longitude.
func (bb BoundingBox) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{bb.LonMin, bb.LatMin},
		Max: orb.Point{bb.LonMax, bb.LatMax},
	}
}

func (bb BoundingBox) String() string {
	return fmt.Sprintf("[%v, %v]x[%v, %v]", bb.LatMin, bb.LatMax, bb.LonMin, bb.LonMax)
}
