package geo

import (
	"math"

	"github.com/lintang-b-s/gridwords/pkg/util"
)

// Bearing is the initial great-circle bearing from -> to, in degree clockwise from
// north in [0, 360).
// https://www.movable-type.co.uk/scripts/latlong.html
func Bearing(from, to Coordinate) float64 {
	dLon := util.DegreeToRadians(to.Lon - from.Lon)
	lat1 := util.DegreeToRadians(from.Lat)
	lat2 := util.DegreeToRadians(to.Lat)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	return math.Mod(util.RadiansToDegree(math.Atan2(y, x))+360, 360.0)
}
