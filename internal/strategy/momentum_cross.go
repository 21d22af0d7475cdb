package strategy

import (
	"github.com/quantx-lab/quantx/internal/types"
	"github.com/quantx-lab/quantx/pkg/errors"
)

// MomentumCross enters long when the MACD line crosses above its signal line
// (at or below yesterday, strictly above today) and exits on the symmetric
// cross back down.
type MomentumCross struct{}

// NewMomentumCross creates the MACD crossover strategy.
func NewMomentumCross() *MomentumCross {
	return &MomentumCross{}
}

// Name implements Strategy.
func (s *MomentumCross) Name() Type {
	return TypeMomentumCross
}

// Generate implements Strategy. The feature table must carry the MACD group.
func (s *MomentumCross) Generate(table types.FeatureTable) (types.SignalSeries, error) {
	if !table.HasMACD {
		return nil, errors.Newf(errors.ErrCodeFeatureNotEnabled,
			"momentum cross requires macd in the feature table for %s", table.Ticker)
	}

	if table.Len() < 2 {
		return allFlat(table), nil
	}

	signals := make(types.SignalSeries, 0, table.Len())
	position := types.SignalFlat

	for i, row := range table.Rows {
		if i > 0 {
			prev := table.Rows[i-1]
			crossUp := row.MACD > row.MACDSignal && prev.MACD <= prev.MACDSignal
			crossDown := row.MACD < row.MACDSignal && prev.MACD >= prev.MACDSignal

			switch position {
			case types.SignalFlat:
				if crossUp {
					position = types.SignalLong
				}
			case types.SignalLong:
				if crossDown {
					position = types.SignalFlat
				}
			}
		}

		signals = append(signals, types.SignalPoint{Time: row.Time, Value: position})
	}

	return signals, nil
}
