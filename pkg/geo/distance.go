package geo

import (
	"github.com/golang/geo/s2"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

const (
	earthRadiusKM = 6371.0
)

func (c Coordinate) latLng() s2.LatLng {
	return s2.LatLngFromDegrees(c.Lat, c.Lon)
}

// DistanceMeters returns the great-circle distance between a and b in meter.
func DistanceMeters(a, b Coordinate) float64 {
	angle := a.latLng().Distance(b.latLng())
	return angle.Radians() * earthRadiusKM * 1000
}

// IsValid reports whether c is a finite latitude in [-90, 90] and longitude in
// [-180, 180].
func (c Coordinate) IsValid() bool {
	return c.latLng().IsValid()
}
