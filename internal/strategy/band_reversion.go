package strategy

import (
	"github.com/quantx-lab/quantx/internal/types"
	"github.com/quantx-lab/quantx/pkg/errors"
)

// BandReversion enters long when the close falls below the lower Bollinger
// band and exits when the close rises above the midpoint of the two bands.
//
// The midpoint is the arithmetic mean of the upper and lower band rather than
// the band's own moving-average midline. The two agree for symmetric bands;
// the mean is kept as the exit level deliberately.
type BandReversion struct{}

// NewBandReversion creates the band mean-reversion strategy.
func NewBandReversion() *BandReversion {
	return &BandReversion{}
}

// Name implements Strategy.
func (s *BandReversion) Name() Type {
	return TypeBandReversion
}

// Generate implements Strategy. The feature table must carry Bollinger bands.
func (s *BandReversion) Generate(table types.FeatureTable) (types.SignalSeries, error) {
	if !table.HasBands {
		return nil, errors.Newf(errors.ErrCodeFeatureNotEnabled,
			"band reversion requires bollinger bands in the feature table for %s", table.Ticker)
	}

	if table.Len() < 2 {
		return allFlat(table), nil
	}

	signals := make(types.SignalSeries, 0, table.Len())
	position := types.SignalFlat

	for _, row := range table.Rows {
		midpoint := (row.BBUpper + row.BBLower) / 2

		switch position {
		case types.SignalFlat:
			if row.Close < row.BBLower {
				position = types.SignalLong
			}
		case types.SignalLong:
			if row.Close > midpoint {
				position = types.SignalFlat
			}
		}

		signals = append(signals, types.SignalPoint{Time: row.Time, Value: position})
	}

	return signals, nil
}
