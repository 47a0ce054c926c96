package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/lintang-b-s/gridwords/pkg/codec"
	"github.com/lintang-b-s/gridwords/pkg/concurrent"
	"github.com/lintang-b-s/gridwords/pkg/geo"
	"github.com/lintang-b-s/gridwords/pkg/geocoder"
	"github.com/lintang-b-s/gridwords/pkg/grid"
	"github.com/lintang-b-s/gridwords/pkg/util"
	"go.uber.org/zap"
)

type GeocodingService struct {
	log      *zap.Logger
	geocoder Geocoder
	workers  int
}

// NewGeocodingService with workers <= 0 sizes the batch pool to GOMAXPROCS.
func NewGeocodingService(log *zap.Logger, g Geocoder, workers int) *GeocodingService {
	return &GeocodingService{
		log:      log,
		geocoder: g,
		workers:  workers,
	}
}

func (gs *GeocodingService) Box() geo.BoundingBox {
	return gs.geocoder.Box()
}

func (gs *GeocodingService) Encode(lat, lon float64, scheme string, words []string) (*geocoder.EncodeResult, error) {
	s, err := codec.ParseScheme(scheme)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "%s", err.Error())
	}
	res, err := gs.geocoder.Encode(lat, lon, s, geocoder.EncodeOptions{Words: words})
	if err != nil {
		return nil, wrapGeocodingError(err, "encode %f,%f", lat, lon)
	}
	return res, nil
}

// Decode decodes either three words or a dotted address. words take precedence.
func (gs *GeocodingService) Decode(words []string, address, scheme string) (*geocoder.DecodeResult, error) {
	s, err := codec.ParseScheme(scheme)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "%s", err.Error())
	}

	var res *geocoder.DecodeResult
	if len(words) > 0 {
		res, err = gs.geocoder.Decode(words, s)
	} else {
		res, err = gs.geocoder.DecodeAddress(address, s)
	}
	if err != nil {
		return nil, wrapGeocodingError(err, "decode")
	}
	return res, nil
}

func (gs *GeocodingService) Custom(words []string) (geo.Coordinate, error) {
	p, err := gs.geocoder.Custom(words)
	if err != nil {
		return geo.Coordinate{}, wrapGeocodingError(err, "custom")
	}
	return p, nil
}

func (gs *GeocodingService) Cell(lat, lon float64) (*geocoder.CellInfo, error) {
	info, err := gs.geocoder.Cell(lat, lon)
	if err != nil {
		return nil, wrapGeocodingError(err, "cell %f,%f", lat, lon)
	}
	return info, nil
}

type BatchPoint struct {
	Lat float64
	Lon float64
}

// BatchItem holds the outcome of one point. a failing point does not fail the
// batch.
type BatchItem struct {
	Point  BatchPoint
	Result *geocoder.EncodeResult
	Err    error
}

// EncodeBatch encodes every point on the worker pool. results keep input order.
func (gs *GeocodingService) EncodeBatch(ctx context.Context, points []BatchPoint, scheme string) ([]BatchItem, error) {
	s, err := codec.ParseScheme(scheme)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "%s", err.Error())
	}
	if s == codec.SchemeFreeform {
		return nil, util.WrapErrorf(geocoder.ErrWordsNotAccepted, util.ErrBadParamInput,
			"batch encoding does not support the freeform scheme")
	}

	items, err := concurrent.Map(ctx, gs.workers, points, func(p BatchPoint) BatchItem {
		res, err := gs.geocoder.Encode(p.Lat, p.Lon, s, geocoder.EncodeOptions{})
		if err != nil {
			return BatchItem{Point: p, Err: wrapGeocodingError(err, "encode %f,%f", p.Lat, p.Lon)}
		}
		return BatchItem{Point: p, Result: res}
	})
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "batch encode canceled")
	}

	failed := 0
	for _, it := range items {
		if it.Err != nil {
			failed++
		}
	}
	gs.log.Debug("batch encoded", zap.Int("points", len(points)), zap.Int("failed", failed),
		zap.Stringer("scheme", s))
	return items, nil
}

// wrapGeocodingError tags caller mistakes as bad input and everything else as an
// internal error.
func wrapGeocodingError(err error, format string, a ...any) error {
	msg := fmt.Sprintf(format, a...) + ": " + err.Error()
	if IsInputError(err) {
		return util.WrapErrorf(err, util.ErrBadParamInput, "%s", msg)
	}
	return util.WrapErrorf(err, util.ErrInternalServerError, "%s", msg)
}

func IsInputError(err error) bool {
	var (
		oob       *grid.OutOfBoundsError
		unknown   *codec.UnknownWordError
		malformed *codec.MalformedTokenError
	)
	return errors.As(err, &oob) || errors.As(err, &unknown) || errors.As(err, &malformed) ||
		errors.Is(err, codec.ErrDisplayOnly) || errors.Is(err, geocoder.ErrWordsNotAccepted)
}
