package main

import (
	"context"
	"flag"
	"time"

	"github.com/lintang-b-s/gridwords/pkg/codec"
	"github.com/lintang-b-s/gridwords/pkg/concurrent"
	"github.com/lintang-b-s/gridwords/pkg/geo"
	"github.com/lintang-b-s/gridwords/pkg/geocoder"
	log "github.com/lintang-b-s/gridwords/pkg/logger"
	"github.com/lintang-b-s/gridwords/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

var (
	samples = flag.Int("n", 1_000_000, "number of random points")
	seed    = flag.Uint64("seed", 0, "random seed, 0 uses the current time")
	workers = flag.Int("workers", 0, "worker goroutines, 0 uses GOMAXPROCS")
	schemes = flag.String("schemes", "vocabulary,synthetic", "comma separated exact schemes to check")
)

/*
go run eval/roundtrip/main.go -n 1000000

samples uniform random points inside the configured bounding box, encodes and decodes
every point and checks that the decoded cell center lies within one cell diagonal of
the original point and that re-encoding the center gives back the same address.
*/
func main() {
	flag.Parse()
	logger, err := log.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := util.ReadConfig(); err != nil {
		panic(err)
	}
	cfg, err := geocoder.LoadConfig()
	if err != nil {
		panic(err)
	}
	vocab, err := geocoder.LoadVocabulary(cfg)
	if err != nil {
		panic(err)
	}
	g, err := geocoder.New(cfg, vocab, logger)
	if err != nil {
		panic(err)
	}

	s := *seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}

	for _, name := range util.SplitList(*schemes, ",") {
		scheme, err := codec.ParseScheme(name)
		if err != nil {
			panic(err)
		}
		start := time.Now()
		st, err := evaluate(context.Background(), g, scheme, *samples, s, *workers)
		if err != nil {
			panic(err)
		}
		logger.Info("round trip evaluation",
			zap.Stringer("scheme", scheme),
			zap.Uint64("seed", s),
			zap.Int("samples", st.Samples),
			zap.Float64("max_error_m", st.MaxErrorM),
			zap.Float64("mean_error_m", st.MeanErrorM),
			zap.Float64("bound_m", st.BoundM),
			zap.Int("bound_violations", st.BoundViolations),
			zap.Int("reencode_mismatches", st.ReencodeMismatches),
			zap.Int("errors", st.Errors),
			zap.Duration("took", time.Since(start)),
		)
		if !st.OK() {
			logger.Error("round trip evaluation failed", zap.Stringer("scheme", scheme),
				zap.Any("worst_point", st.Worst))
		}
	}
}

type stats struct {
	Samples            int
	MaxErrorM          float64
	MeanErrorM         float64
	BoundM             float64
	BoundViolations    int
	ReencodeMismatches int
	Errors             int
	Worst              geo.Coordinate
}

func (st stats) OK() bool {
	return st.BoundViolations == 0 && st.ReencodeMismatches == 0 && st.Errors == 0
}

type sample struct {
	errorM   float64
	reencode bool
	err      error
}

func evaluate(ctx context.Context, g *geocoder.Geocoder, scheme codec.Scheme, n int, seed uint64,
	numWorkers int) (stats, error) {
	box := g.Box()
	rd := rand.New(rand.NewSource(seed))
	points := make([]geo.Coordinate, n)
	for i := range points {
		points[i] = geo.NewCoordinate(
			box.LatMin+rd.Float64()*box.LatSpan(),
			box.LonMin+rd.Float64()*box.LonSpan(),
		)
	}

	results, err := concurrent.Map(ctx, numWorkers, points, func(p geo.Coordinate) sample {
		enc, err := g.Encode(p.Lat, p.Lon, scheme, geocoder.EncodeOptions{})
		if err != nil {
			return sample{err: err}
		}
		dec, err := g.Decode(enc.Tokens.Slice(), scheme)
		if err != nil {
			return sample{err: err}
		}
		again, err := g.Encode(dec.Coordinate.Lat, dec.Coordinate.Lon, scheme, geocoder.EncodeOptions{})
		if err != nil {
			return sample{err: err}
		}
		return sample{
			errorM:   geo.DistanceMeters(p, dec.Coordinate),
			reencode: again.Tokens == enc.Tokens,
		}
	})
	if err != nil {
		return stats{}, err
	}

	st := stats{Samples: n, BoundM: g.Indexer().CellDiagonal()}
	sum := 0.0
	for i, r := range results {
		if r.err != nil {
			st.Errors++
			continue
		}
		if !r.reencode {
			st.ReencodeMismatches++
		}
		if r.errorM > st.BoundM {
			st.BoundViolations++
		}
		if r.errorM > st.MaxErrorM {
			st.MaxErrorM = r.errorM
			st.Worst = points[i]
		}
		sum += r.errorM
	}
	if ok := n - st.Errors; ok > 0 {
		st.MeanErrorM = sum / float64(ok)
	}
	st.MaxErrorM = util.RoundFloat(st.MaxErrorM, 3)
	st.MeanErrorM = util.RoundFloat(st.MeanErrorM, 3)
	return st, nil
}
