package strategy

import (
	"github.com/quantx-lab/quantx/internal/types"
)

// TrendFilter enters long when the fast EMA crosses above the slow EMA while
// RSI is below its gate and annualized volatility is below its gate. It exits
// the moment the EMAs cross back down or either gate reads out of range.
//
// The entry is asymmetric with the exit: entry requires a crossover event with
// both gates in range at that exact date, while the exit gates are level
// checks that need no cross of their own.
type TrendFilter struct {
	rsiHigh      float64
	volThreshold float64
}

// NewTrendFilter creates the trend filter with the given RSI and volatility gates.
func NewTrendFilter(rsiHigh, volThreshold float64) *TrendFilter {
	return &TrendFilter{
		rsiHigh:      rsiHigh,
		volThreshold: volThreshold,
	}
}

// Name implements Strategy.
func (s *TrendFilter) Name() Type {
	return TypeTrendFilter
}

// Generate implements Strategy.
func (s *TrendFilter) Generate(table types.FeatureTable) (types.SignalSeries, error) {
	if table.Len() < 2 {
		return allFlat(table), nil
	}

	signals := make(types.SignalSeries, 0, table.Len())
	position := types.SignalFlat

	for i, row := range table.Rows {
		if i > 0 {
			prev := table.Rows[i-1]
			crossUp := row.EMAFast > row.EMASlow && prev.EMAFast <= prev.EMASlow
			crossDown := row.EMAFast < row.EMASlow && prev.EMAFast >= prev.EMASlow

			switch position {
			case types.SignalFlat:
				if crossUp && row.RSI < s.rsiHigh && row.Volatility < s.volThreshold {
					position = types.SignalLong
				}
			case types.SignalLong:
				if crossDown || row.RSI > s.rsiHigh || row.Volatility > s.volThreshold {
					position = types.SignalFlat
				}
			}
		}

		signals = append(signals, types.SignalPoint{Time: row.Time, Value: position})
	}

	return signals, nil
}
