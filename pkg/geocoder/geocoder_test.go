package geocoder

import (
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/lintang-b-s/gridwords/pkg/codec"
	"github.com/lintang-b-s/gridwords/pkg/geo"
	"github.com/lintang-b-s/gridwords/pkg/grid"
	"github.com/lintang-b-s/gridwords/pkg/util"
	"github.com/paulmach/orb"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	syllableOnce  sync.Once
	syllableVocab *codec.Vocabulary
)

func newIndiaGeocoder(t *testing.T) *Geocoder {
	t.Helper()
	syllableOnce.Do(func() {
		var err error
		syllableVocab, err = codec.NewVocabulary(codec.SyllableWords())
		if err != nil {
			panic(err)
		}
	})
	g, err := New(DefaultConfig(), syllableVocab, zap.NewNop())
	require.NoError(t, err)
	return g
}

func newDemoGeocoder(t *testing.T) *Geocoder {
	t.Helper()
	vocab, err := codec.NewVocabulary(codec.DefaultWords)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Grid.Box = geo.NewBoundingBox(22.32, 22.321, 70.76, 70.761)
	g, err := New(cfg, vocab, nil)
	require.NoError(t, err)
	return g
}

func TestNewRejectsSmallVocabulary(t *testing.T) {
	vocab, err := codec.NewVocabulary(codec.DefaultWords)
	require.NoError(t, err)

	_, err = New(DefaultConfig(), vocab, zap.NewNop())
	var small *codec.VocabularyTooSmallError
	require.ErrorAs(t, err, &small)
	assert.Equal(t, 20, small.Size)
}

func TestNewRejectsInvalidGrid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Grid.CellSizeMeters = -3

	_, err := New(cfg, syllableVocabulary(t), zap.NewNop())
	assert.Error(t, err)
}

func syllableVocabulary(t *testing.T) *codec.Vocabulary {
	t.Helper()
	newIndiaGeocoder(t)
	return syllableVocab
}

func TestRoundTripExactSchemes(t *testing.T) {
	g := newIndiaGeocoder(t)
	points := []geo.Coordinate{
		geo.NewCoordinate(22.32, 70.76),
		geo.NewCoordinate(28.6139, 77.2090),
		geo.NewCoordinate(8.0883, 77.5385),
		geo.NewCoordinate(34.0837, 74.7973),
		geo.NewCoordinate(26.1445, 91.7362),
	}

	for _, scheme := range []codec.Scheme{codec.SchemeVocabulary, codec.SchemeSynthetic} {
		for _, p := range points {
			enc, err := g.Encode(p.Lat, p.Lon, scheme, EncodeOptions{})
			require.NoError(t, err)

			dec, err := g.Decode(enc.Tokens.Slice(), scheme)
			require.NoError(t, err)

			assert.True(t, dec.Exact)
			assert.Equal(t, enc.Cell, dec.Cell)
			dist := geo.DistanceMeters(p, dec.Coordinate)
			assert.LessOrEqual(t, dist, 4.2, "%s %v -> %s -> %v", scheme, p, enc.Address(), dec.Coordinate)
		}
	}
}

func TestEncodeBoundary(t *testing.T) {
	g := newIndiaGeocoder(t)

	enc, err := g.Encode(6, 68, codec.SchemeVocabulary, EncodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, grid.CellID(0), enc.Cell)
	assert.Equal(t, "babab.babab.babab", enc.Address())

	_, err = g.Encode(38+1e-9, 80, codec.SchemeVocabulary, EncodeOptions{})
	var oob *grid.OutOfBoundsError
	require.ErrorAs(t, err, &oob)

	_, err = g.Encode(20, 100, codec.SchemeFreeform, EncodeOptions{Words: []string{"a", "b", "c"}})
	require.ErrorAs(t, err, &oob)
}

func TestDecodeErrors(t *testing.T) {
	g := newIndiaGeocoder(t)

	t.Run("unknown word", func(t *testing.T) {
		_, err := g.Decode([]string{"notaword", "alsofake", "nope"}, codec.SchemeVocabulary)
		var unknown *codec.UnknownWordError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "notaword", unknown.Word)
	})

	t.Run("wrong token count", func(t *testing.T) {
		_, err := g.Decode([]string{"babab", "babab"}, codec.SchemeVocabulary)
		var malformed *codec.MalformedTokenError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, -1, malformed.Position)
	})

	t.Run("cell outside grid", func(t *testing.T) {
		_, err := g.Decode([]string{"zuzuz", "zuzuz", "zuzuz"}, codec.SchemeVocabulary)
		var oob *grid.OutOfBoundsError
		require.ErrorAs(t, err, &oob)
		assert.True(t, oob.IsCell)
	})

	t.Run("malformed synthetic", func(t *testing.T) {
		_, err := g.Decode([]string{"h00001", "m00002", "q00003"}, codec.SchemeSynthetic)
		var malformed *codec.MalformedTokenError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, 2, malformed.Position)
	})

	t.Run("decorative", func(t *testing.T) {
		enc, err := g.Encode(22.32, 70.76, codec.SchemeDecorative, EncodeOptions{})
		require.NoError(t, err)
		_, err = g.Decode(enc.Tokens.Slice(), codec.SchemeDecorative)
		assert.ErrorIs(t, err, codec.ErrDisplayOnly)
	})
}

func TestDecodeAddress(t *testing.T) {
	g := newIndiaGeocoder(t)

	enc, err := g.Encode(22.32, 70.76, codec.SchemeVocabulary, EncodeOptions{})
	require.NoError(t, err)

	dec, err := g.DecodeAddress("///"+enc.Address(), codec.SchemeVocabulary)
	require.NoError(t, err)
	assert.Equal(t, enc.Cell, dec.Cell)
}

func TestDemoVocabularyRoundTrip(t *testing.T) {
	g := newDemoGeocoder(t)
	ix := g.Indexer()
	require.LessOrEqual(t, ix.TotalCells(), int64(8000))

	box := g.Box()
	for lat := box.LatMin; lat <= box.LatMax; lat += 0.00007 {
		for lon := box.LonMin; lon <= box.LonMax; lon += 0.00009 {
			enc, err := g.Encode(lat, lon, codec.SchemeVocabulary, EncodeOptions{})
			require.NoError(t, err)

			dec, err := g.Decode(enc.Tokens.Slice(), codec.SchemeVocabulary)
			require.NoError(t, err)
			assert.Equal(t, enc.Cell, dec.Cell)
			assert.LessOrEqual(t, geo.DistanceMeters(geo.NewCoordinate(lat, lon), dec.Coordinate), ix.CellDiagonal())
		}
	}
}

func TestFreeformEncodeReport(t *testing.T) {
	g := newIndiaGeocoder(t)
	words := []string{"sunrise", "temple", "monsoon"}

	enc, err := g.Encode(22.32, 70.76, codec.SchemeFreeform, EncodeOptions{Words: words})
	require.NoError(t, err)
	require.NotNil(t, enc.Report)

	custom, err := g.Custom(words)
	require.NoError(t, err)

	assert.Equal(t, codec.Triple{"sunrise", "temple", "monsoon"}, enc.Tokens)
	assert.Equal(t, custom, enc.Report.Derived)
	assert.Equal(t, geo.NewCoordinate(22.32, 70.76), enc.Report.Requested)
	assert.InDelta(t, geo.DistanceMeters(enc.Report.Requested, custom), enc.Report.DistanceMeters, 1e-9)
	assert.InDelta(t, g.Indexer().CellDiagonal(), enc.Report.ThresholdM, 1e-12)
	assert.Equal(t, enc.Report.Consistent, enc.Report.DistanceMeters <= enc.Report.ThresholdM)
}

func TestFreeformReportThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MismatchThresholdMeters = 1e8
	g, err := New(cfg, syllableVocabulary(t), zap.NewNop())
	require.NoError(t, err)

	enc, err := g.Encode(22.32, 70.76, codec.SchemeFreeform, EncodeOptions{Words: []string{"a", "b", "c"}})
	require.NoError(t, err)
	assert.True(t, enc.Report.Consistent)
}

func TestFreeformRequiresWords(t *testing.T) {
	g := newIndiaGeocoder(t)

	_, err := g.Encode(22.32, 70.76, codec.SchemeFreeform, EncodeOptions{})
	var malformed *codec.MalformedTokenError
	assert.ErrorAs(t, err, &malformed)

	_, err = g.Encode(22.32, 70.76, codec.SchemeVocabulary, EncodeOptions{Words: []string{"a", "b", "c"}})
	assert.ErrorIs(t, err, ErrWordsNotAccepted)
}

func TestCustomDeterministic(t *testing.T) {
	g := newIndiaGeocoder(t)
	words := []string{"chai", "rickshaw", "banyan"}

	first, err := g.Custom(words)
	require.NoError(t, err)
	second, err := g.Custom(words)
	require.NoError(t, err)

	assert.Equal(t, math.Float64bits(first.Lat), math.Float64bits(second.Lat))
	assert.Equal(t, math.Float64bits(first.Lon), math.Float64bits(second.Lon))

	dec, err := g.Decode(words, codec.SchemeFreeform)
	require.NoError(t, err)
	assert.False(t, dec.Exact)
	assert.Equal(t, first, dec.Coordinate)
}

func TestCell(t *testing.T) {
	g := newIndiaGeocoder(t)

	info, err := g.Cell(22.32, 70.76)
	require.NoError(t, err)

	enc, err := g.Encode(22.32, 70.76, codec.SchemeVocabulary, EncodeOptions{})
	require.NoError(t, err)

	assert.Equal(t, enc.Cell, info.ID)
	assert.Equal(t, enc.GridCoordinate, info.GridCoordinate)
	assert.True(t, info.Bound.Contains(orb.Point{70.76, 22.32}))
	assert.True(t, info.Bound.Contains(orb.Point{info.Center.Lon, info.Center.Lat}))
}

func TestConcurrentUse(t *testing.T) {
	g := newIndiaGeocoder(t)

	var eg errgroup.Group
	for i := 0; i < 16; i++ {
		lat := 6.5 + float64(i)*1.9
		eg.Go(func() error {
			for j := 0; j < 50; j++ {
				lon := 68.5 + float64(j)*0.5
				enc, err := g.Encode(lat, lon, codec.SchemeVocabulary, EncodeOptions{})
				if err != nil {
					return err
				}
				if _, err := g.Decode(enc.Tokens.Slice(), codec.SchemeVocabulary); err != nil {
					return err
				}
			}
			return nil
		})
	}
	assert.NoError(t, eg.Wait())
}

func TestLoadConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("grid.lat_min", 10.0)
	viper.Set("grid.cell_size_m", 10.0)
	viper.Set("synthetic.prefixes", []string{"x", "y", "z"})
	viper.Set("freeform.mismatch_threshold_m", 500.0)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 10.0, cfg.Grid.Box.LatMin)
	assert.Equal(t, 38.0, cfg.Grid.Box.LatMax)
	assert.Equal(t, 10.0, cfg.Grid.CellSizeMeters)
	assert.Equal(t, grid.DefaultMetersPerDegreeLat, cfg.Grid.MetersPerDegreeLat)
	assert.Equal(t, [codec.TripleSize]string{"x", "y", "z"}, cfg.SyntheticPrefixes)
	assert.Equal(t, 500.0, cfg.MismatchThresholdMeters)
	assert.Empty(t, cfg.VocabularyPath)
}

func TestLoadConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	yaml := "grid:\n  lat_min: 22.32\n  lat_max: 22.321\n  lon_min: 70.76\n  lon_max: 70.761\n" +
		"  cell_size_m: 5\nvocabulary:\n  path: words.txt.bz2\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	require.NoError(t, util.ReadConfig(dir))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, geo.NewBoundingBox(22.32, 22.321, 70.76, 70.761), cfg.Grid.Box)
	assert.Equal(t, 5.0, cfg.Grid.CellSizeMeters)
	assert.Equal(t, grid.DefaultMetersPerDegreeLat, cfg.Grid.MetersPerDegreeLat)
	assert.Equal(t, "words.txt.bz2", cfg.VocabularyPath)
	assert.Equal(t, codec.DefaultSyntheticPrefixes, cfg.SyntheticPrefixes)
}

func TestLoadConfigPrefixCount(t *testing.T) {
	testCases := []struct {
		name     string
		prefixes []string
	}{
		{name: "too few", prefixes: []string{"x", "y"}},
		{name: "too many", prefixes: []string{"w", "x", "y", "z"}},
		{name: "empty", prefixes: []string{}},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(viper.Reset)
			viper.Set("synthetic.prefixes", tt.prefixes)

			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "synthetic.prefixes")
		})
	}
}

func TestLoadVocabularyDefault(t *testing.T) {
	vocab, err := LoadVocabulary(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, len(codec.SyllableWords()), vocab.Size())
}
