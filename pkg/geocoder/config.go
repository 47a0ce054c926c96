package geocoder

import (
	"fmt"

	"github.com/lintang-b-s/gridwords/pkg/codec"
	"github.com/lintang-b-s/gridwords/pkg/grid"
	"github.com/spf13/viper"
)

type Config struct {
	Grid grid.Config

	// VocabularyPath is a line-delimited word list (optionally .bz2). empty means
	// the generated syllable vocabulary.
	VocabularyPath string

	SyntheticPrefixes [codec.TripleSize]string

	// MismatchThresholdMeters is the distance above which a freeform address is
	// reported as inconsistent with the requested point. 0 means one cell diagonal.
	MismatchThresholdMeters float64
}

func DefaultConfig() Config {
	return Config{
		Grid:              grid.DefaultConfig(),
		SyntheticPrefixes: codec.DefaultSyntheticPrefixes,
	}
}

// fileConfig mirrors the keys of config.yaml.
type fileConfig struct {
	Grid       grid.Config `mapstructure:"grid"`
	Vocabulary struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"vocabulary"`
	Synthetic struct {
		Prefixes []string `mapstructure:"prefixes"`
	} `mapstructure:"synthetic"`
	Freeform struct {
		MismatchThresholdM float64 `mapstructure:"mismatch_threshold_m"`
	} `mapstructure:"freeform"`
}

// LoadConfig reads the geocoder keys from viper, every key falls back to DefaultConfig.
func LoadConfig() (Config, error) {
	def := DefaultConfig()

	viper.SetDefault("grid.lat_min", def.Grid.Box.LatMin)
	viper.SetDefault("grid.lat_max", def.Grid.Box.LatMax)
	viper.SetDefault("grid.lon_min", def.Grid.Box.LonMin)
	viper.SetDefault("grid.lon_max", def.Grid.Box.LonMax)
	viper.SetDefault("grid.cell_size_m", def.Grid.CellSizeMeters)
	viper.SetDefault("grid.meters_per_degree_lat", def.Grid.MetersPerDegreeLat)
	viper.SetDefault("vocabulary.path", "")
	viper.SetDefault("synthetic.prefixes", def.SyntheticPrefixes[:])
	viper.SetDefault("freeform.mismatch_threshold_m", 0.0)

	var fc fileConfig
	if err := viper.Unmarshal(&fc); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if len(fc.Synthetic.Prefixes) != codec.TripleSize {
		return Config{}, fmt.Errorf("synthetic.prefixes must list %d prefixes, got %d: %v",
			codec.TripleSize, len(fc.Synthetic.Prefixes), fc.Synthetic.Prefixes)
	}

	cfg := Config{
		Grid:                    fc.Grid,
		VocabularyPath:          fc.Vocabulary.Path,
		MismatchThresholdMeters: fc.Freeform.MismatchThresholdM,
	}
	copy(cfg.SyntheticPrefixes[:], fc.Synthetic.Prefixes)
	return cfg, nil
}

// LoadVocabulary reads cfg.VocabularyPath, or generates the syllable vocabulary.
func LoadVocabulary(cfg Config) (*codec.Vocabulary, error) {
	if cfg.VocabularyPath == "" {
		return codec.NewVocabulary(codec.SyllableWords())
	}
	return codec.LoadVocabulary(cfg.VocabularyPath)
}
