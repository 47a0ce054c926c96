package controllers

import (
	"context"

	"github.com/lintang-b-s/gridwords/pkg/geo"
	"github.com/lintang-b-s/gridwords/pkg/geocoder"
	"github.com/lintang-b-s/gridwords/pkg/http/usecases"
)

type GeocodingService interface {
	Encode(lat, lon float64, scheme string, words []string) (*geocoder.EncodeResult, error)
	Decode(words []string, address, scheme string) (*geocoder.DecodeResult, error)
	Custom(words []string) (geo.Coordinate, error)
	Cell(lat, lon float64) (*geocoder.CellInfo, error)
	EncodeBatch(ctx context.Context, points []usecases.BatchPoint, scheme string) ([]usecases.BatchItem, error)
}
