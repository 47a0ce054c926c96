package geo

import (
	"github.com/paulmach/orb"
	"github.com/twpayne/go-polyline"
)

// PolylineFromCoords encodes coordinates with the google polyline algorithm.
func PolylineFromCoords(coords []Coordinate) string {
	pts := make([][]float64, 0, len(coords))
	for _, c := range coords {
		pts = append(pts, []float64{c.Lat, c.Lon})
	}
	return string(polyline.EncodeCoords(pts))
}

// CoordsFromPolyline is the inverse of PolylineFromCoords.
func CoordsFromPolyline(s string) ([]Coordinate, error) {
	pts, _, err := polyline.DecodeCoords([]byte(s))
	if err != nil {
		return nil, err
	}
	coords := make([]Coordinate, 0, len(pts))
	for _, p := range pts {
		coords = append(coords, NewCoordinate(p[0], p[1]))
	}
	return coords, nil
}

// BoundOutline returns the closed ring sw, se, ne, nw, sw of b.
func BoundOutline(b orb.Bound) []Coordinate {
	ring := b.ToRing()
	coords := make([]Coordinate, 0, len(ring))
	for _, p := range ring {
		coords = append(coords, NewCoordinate(p.Lat(), p.Lon()))
	}
	return coords
}
