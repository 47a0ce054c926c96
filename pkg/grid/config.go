package grid

import (
	"fmt"
	"math"

	"github.com/lintang-b-s/gridwords/pkg/geo"
)

const (
	DefaultCellSizeMeters     = 3.0
	DefaultMetersPerDegreeLat = 111000.0
)

// IndiaBoundingBox is the default coverage region.
var IndiaBoundingBox = geo.NewBoundingBox(6.0, 38.0, 68.0, 97.0)

// Config is the immutable description of a grid. an Indexer copies it, so
// changing a Config after NewIndexer has no effect on the indexer.
type Config struct {
	Box                geo.BoundingBox `mapstructure:",squash"`
	CellSizeMeters     float64         `mapstructure:"cell_size_m"`
	MetersPerDegreeLat float64         `mapstructure:"meters_per_degree_lat"`
}

func DefaultConfig() Config {
	return Config{
		Box:                IndiaBoundingBox,
		CellSizeMeters:     DefaultCellSizeMeters,
		MetersPerDegreeLat: DefaultMetersPerDegreeLat,
	}
}

func (c Config) Validate() error {
	if err := c.Box.Validate(); err != nil {
		return err
	}
	if !(c.CellSizeMeters > 0) || math.IsInf(c.CellSizeMeters, 0) {
		return fmt.Errorf("invalid cell size %v, must be a positive number of meters", c.CellSizeMeters)
	}
	if !(c.MetersPerDegreeLat > 0) || math.IsInf(c.MetersPerDegreeLat, 0) {
		return fmt.Errorf("invalid meters per degree latitude %v", c.MetersPerDegreeLat)
	}
	return nil
}
