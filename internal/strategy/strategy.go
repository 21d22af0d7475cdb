// Package strategy implements the signal generators: algorithms that turn a
// per-ticker feature table into a binary desired-position series. All
// generators share the same shape: a single position flag initialized to flat,
// one pass over the table in date order, and a flip decision at each date
// using data available up to and including that date.
package strategy

import (
	"github.com/quantx-lab/quantx/internal/types"
	"github.com/quantx-lab/quantx/pkg/errors"
)

// Type identifies a signal generator.
type Type string

const (
	// TypeTrendFilter is the EMA crossover entry gated by RSI and volatility.
	TypeTrendFilter Type = "trend_filter"
	// TypeBandReversion is the Bollinger band mean-reversion strategy.
	TypeBandReversion Type = "band_reversion"
	// TypeMomentumCross is the MACD line/signal line crossover strategy.
	TypeMomentumCross Type = "momentum_cross"
)

// AllTypes lists every supported signal generator.
var AllTypes = []Type{
	TypeTrendFilter,
	TypeBandReversion,
	TypeMomentumCross,
}

// Strategy generates a signal series from a feature table. Generate is pure
// with respect to its input aside from the internal position flag, which is
// reset to flat at the start of each call.
type Strategy interface {
	Name() Type
	Generate(table types.FeatureTable) (types.SignalSeries, error)
}

// Config selects and parameterizes a signal generator.
type Config struct {
	Type Type `yaml:"type" validate:"required,oneof=trend_filter band_reversion momentum_cross"`
	// RSIHigh is the trend filter's oscillator gate. Defaults to 70.
	RSIHigh float64 `yaml:"rsi_high" validate:"omitempty,gt=0,lte=100"`
	// VolThreshold is the trend filter's annualized volatility gate. Defaults to 0.6.
	VolThreshold float64 `yaml:"vol_threshold" validate:"omitempty,gt=0"`
}

const (
	defaultRSIHigh      = 70.0
	defaultVolThreshold = 0.6
)

// FromConfig creates a Strategy from its config, applying defaults for unset
// trend filter thresholds.
func FromConfig(cfg Config) (Strategy, error) {
	rsiHigh := cfg.RSIHigh
	if rsiHigh == 0 {
		rsiHigh = defaultRSIHigh
	}

	volThreshold := cfg.VolThreshold
	if volThreshold == 0 {
		volThreshold = defaultVolThreshold
	}

	switch cfg.Type {
	case TypeTrendFilter:
		return NewTrendFilter(rsiHigh, volThreshold), nil
	case TypeBandReversion:
		return NewBandReversion(), nil
	case TypeMomentumCross:
		return NewMomentumCross(), nil
	default:
		return nil, errors.Newf(errors.ErrCodeUnknownStrategy, "unknown strategy type: %s", cfg.Type)
	}
}

// allFlat builds a signal series holding every row flat.
func allFlat(table types.FeatureTable) types.SignalSeries {
	signals := make(types.SignalSeries, 0, table.Len())
	for _, row := range table.Rows {
		signals = append(signals, types.SignalPoint{Time: row.Time, Value: types.SignalFlat})
	}

	return signals
}
