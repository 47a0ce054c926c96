package geocoder

import (
	"errors"
	"fmt"

	"github.com/lintang-b-s/gridwords/pkg/codec"
	"github.com/lintang-b-s/gridwords/pkg/geo"
	"github.com/lintang-b-s/gridwords/pkg/grid"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// ErrWordsNotAccepted is returned when caller words are passed to a scheme that
// derives its tokens from the cell.
var ErrWordsNotAccepted = errors.New("caller supplied words are only accepted by the freeform scheme")

// Geocoder composes the grid indexer with the token codecs. it holds no mutable
// state after New and is safe for concurrent use.
type Geocoder struct {
	cfg        Config
	log        *zap.Logger
	indexer    *grid.Indexer
	vocabulary *codec.VocabularyCodec
	synthetic  *codec.SyntheticCodec
	decorative *codec.SyntheticCodec
	freeform   *codec.FreeformHasher
	threshold  float64
}

// New builds the indexer and codecs. a vocabulary that cannot address every cell
// fails here with *codec.VocabularyTooSmallError.
func New(cfg Config, vocab *codec.Vocabulary, log *zap.Logger) (*Geocoder, error) {
	if log == nil {
		log = zap.NewNop()
	}

	indexer, err := grid.NewIndexer(cfg.Grid)
	if err != nil {
		return nil, err
	}
	total := indexer.TotalCells()

	vocabulary, err := codec.NewVocabularyCodec(vocab, total)
	if err != nil {
		return nil, err
	}
	synthetic, err := codec.NewSyntheticCodec(codec.ModeAddressable, total, cfg.SyntheticPrefixes)
	if err != nil {
		return nil, err
	}
	decorative, err := codec.NewSyntheticCodec(codec.ModeDecorative, total, cfg.SyntheticPrefixes)
	if err != nil {
		return nil, err
	}

	threshold := cfg.MismatchThresholdMeters
	if threshold <= 0 {
		threshold = indexer.CellDiagonal()
	}

	log.Info("geocoder ready",
		zap.Stringer("box", cfg.Grid.Box),
		zap.Float64("cell_size_m", cfg.Grid.CellSizeMeters),
		zap.Int64("lat_cells", indexer.LatCells()),
		zap.Int64("row_width", indexer.RowWidth()),
		zap.Int64("total_cells", total),
		zap.Int("vocabulary_size", vocab.Size()),
		zap.Int("synthetic_width", synthetic.Width()),
	)

	return &Geocoder{
		cfg:        cfg,
		log:        log,
		indexer:    indexer,
		vocabulary: vocabulary,
		synthetic:  synthetic,
		decorative: decorative,
		freeform:   codec.NewFreeformHasher(cfg.Grid.Box),
		threshold:  threshold,
	}, nil
}

func (g *Geocoder) Indexer() *grid.Indexer {
	return g.indexer
}

func (g *Geocoder) Box() geo.BoundingBox {
	return g.cfg.Grid.Box
}

type EncodeOptions struct {
	// Words are the caller's three words, freeform scheme only.
	Words []string
}

type EncodeResult struct {
	Scheme         codec.Scheme
	Tokens         codec.Triple
	Cell           grid.CellID
	GridCoordinate grid.GridCoordinate

	// Report is set for the freeform scheme only.
	Report *ConsistencyReport
}

func (r *EncodeResult) Address() string {
	return r.Tokens.String()
}

// ConsistencyReport compares the point a caller asked for with the point their
// freeform words actually hash to.
type ConsistencyReport struct {
	Requested      geo.Coordinate
	Derived        geo.Coordinate
	DistanceMeters float64
	BearingDegrees float64
	ThresholdM     float64
	RequestedCell  grid.CellID
	DerivedCell    grid.CellID
	Consistent     bool
}

func (g *Geocoder) cellCodec(scheme codec.Scheme) (codec.CellCodec, error) {
	switch scheme {
	case codec.SchemeVocabulary:
		return g.vocabulary, nil
	case codec.SchemeSynthetic:
		return g.synthetic, nil
	case codec.SchemeDecorative:
		return g.decorative, nil
	}
	return nil, fmt.Errorf("scheme %s does not encode grid cells", scheme)
}

// Encode turns (lat, lon) into three tokens of the given scheme. for the freeform
// scheme the tokens are the caller's words, and the result carries a report of how
// far those words land from (lat, lon). a mismatch is logged, not returned as an error.
func (g *Geocoder) Encode(lat, lon float64, scheme codec.Scheme, opts EncodeOptions) (*EncodeResult, error) {
	gc, err := g.indexer.GridCoordinate(lat, lon)
	if err != nil {
		return nil, err
	}
	id, err := g.indexer.CellID(gc)
	if err != nil {
		return nil, err
	}

	if scheme == codec.SchemeFreeform {
		return g.encodeFreeform(lat, lon, id, gc, opts.Words)
	}
	if len(opts.Words) > 0 {
		return nil, ErrWordsNotAccepted
	}

	cc, err := g.cellCodec(scheme)
	if err != nil {
		return nil, err
	}
	tokens, err := cc.Encode(id)
	if err != nil {
		return nil, err
	}

	g.log.Debug("encoded coordinate",
		zap.Float64("lat", lat), zap.Float64("lon", lon),
		zap.Int64("cell", int64(id)), zap.Stringer("scheme", scheme), zap.Stringer("address", tokens))

	return &EncodeResult{
		Scheme:         scheme,
		Tokens:         tokens,
		Cell:           id,
		GridCoordinate: gc,
	}, nil
}

func (g *Geocoder) encodeFreeform(lat, lon float64, id grid.CellID, gc grid.GridCoordinate,
	words []string) (*EncodeResult, error) {
	tokens, err := codec.NewTriple(words)
	if err != nil {
		return nil, err
	}

	requested := geo.NewCoordinate(lat, lon)
	derived := g.freeform.Point(tokens)
	derivedCell, err := g.indexer.Encode(derived.Lat, derived.Lon)
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{
		Requested:      requested,
		Derived:        derived,
		DistanceMeters: geo.DistanceMeters(requested, derived),
		BearingDegrees: geo.Bearing(requested, derived),
		ThresholdM:     g.threshold,
		RequestedCell:  id,
		DerivedCell:    derivedCell,
	}
	report.Consistent = report.DistanceMeters <= report.ThresholdM

	if !report.Consistent {
		g.log.Warn("freeform words do not point at the requested location",
			zap.Stringer("address", tokens),
			zap.Float64("distance_m", report.DistanceMeters),
			zap.Float64("threshold_m", report.ThresholdM),
		)
	}

	return &EncodeResult{
		Scheme:         codec.SchemeFreeform,
		Tokens:         tokens,
		Cell:           id,
		GridCoordinate: gc,
		Report:         report,
	}, nil
}

type DecodeResult struct {
	Scheme     codec.Scheme
	Tokens     codec.Triple
	Coordinate geo.Coordinate
	Cell       grid.CellID

	// Exact is false for the freeform scheme, whose coordinate is a hash and not
	// the center of an addressed cell.
	Exact bool
}

// Decode turns three tokens back into a coordinate. failures are typed:
// *codec.MalformedTokenError, *codec.UnknownWordError, *grid.OutOfBoundsError, or
// codec.ErrDisplayOnly for decorative addresses.
func (g *Geocoder) Decode(tokens []string, scheme codec.Scheme) (*DecodeResult, error) {
	triple, err := codec.NewTriple(tokens)
	if err != nil {
		return nil, err
	}

	if scheme == codec.SchemeFreeform {
		p := g.freeform.Point(triple)
		id, err := g.indexer.Encode(p.Lat, p.Lon)
		if err != nil {
			return nil, err
		}
		return &DecodeResult{Scheme: scheme, Tokens: triple, Coordinate: p, Cell: id}, nil
	}

	cc, err := g.cellCodec(scheme)
	if err != nil {
		return nil, err
	}
	id, err := cc.Decode(triple)
	if err != nil {
		return nil, err
	}
	center, err := g.indexer.Decode(id)
	if err != nil {
		return nil, err
	}

	g.log.Debug("decoded address",
		zap.Stringer("address", triple), zap.Stringer("scheme", scheme),
		zap.Int64("cell", int64(id)), zap.Float64("lat", center.Lat), zap.Float64("lon", center.Lon))

	return &DecodeResult{
		Scheme:     scheme,
		Tokens:     triple,
		Coordinate: center,
		Cell:       id,
		Exact:      true,
	}, nil
}

// DecodeAddress decodes "w1.w2.w3".
func (g *Geocoder) DecodeAddress(address string, scheme codec.Scheme) (*DecodeResult, error) {
	triple, err := codec.ParseAddress(address)
	if err != nil {
		return nil, err
	}
	return g.Decode(triple.Slice(), scheme)
}

// Custom hashes three arbitrary words to a point inside the box. the words
// themselves are not checked against any vocabulary.
func (g *Geocoder) Custom(words []string) (geo.Coordinate, error) {
	triple, err := codec.NewTriple(words)
	if err != nil {
		return geo.Coordinate{}, err
	}
	return g.freeform.Point(triple), nil
}

type CellInfo struct {
	ID             grid.CellID
	GridCoordinate grid.GridCoordinate
	Center         geo.Coordinate
	Bound          orb.Bound
}

func (g *Geocoder) Cell(lat, lon float64) (*CellInfo, error) {
	gc, err := g.indexer.GridCoordinate(lat, lon)
	if err != nil {
		return nil, err
	}
	id, err := g.indexer.CellID(gc)
	if err != nil {
		return nil, err
	}
	center, err := g.indexer.Decode(id)
	if err != nil {
		return nil, err
	}
	bound, err := g.indexer.CellBound(id)
	if err != nil {
		return nil, err
	}
	return &CellInfo{ID: id, GridCoordinate: gc, Center: center, Bound: bound}, nil
}
