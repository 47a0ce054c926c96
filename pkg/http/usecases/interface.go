package usecases

import (
	"github.com/lintang-b-s/gridwords/pkg/codec"
	"github.com/lintang-b-s/gridwords/pkg/geo"
	"github.com/lintang-b-s/gridwords/pkg/geocoder"
)

type Geocoder interface {
	Encode(lat, lon float64, scheme codec.Scheme, opts geocoder.EncodeOptions) (*geocoder.EncodeResult, error)
	Decode(tokens []string, scheme codec.Scheme) (*geocoder.DecodeResult, error)
	DecodeAddress(address string, scheme codec.Scheme) (*geocoder.DecodeResult, error)
	Custom(words []string) (geo.Coordinate, error)
	Cell(lat, lon float64) (*geocoder.CellInfo, error)
	Box() geo.BoundingBox
}
