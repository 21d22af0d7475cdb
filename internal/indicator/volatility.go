package indicator

import (
	"math"

	"github.com/quantx-lab/quantx/pkg/errors"
)

// tradingDaysPerYear is the annualization convention for daily series.
const tradingDaysPerYear = 252

// Volatility computes the rolling annualized volatility of the price series:
// the sample standard deviation of daily percentage returns over the window,
// scaled by sqrt(252).
//
// The first return needs a prior observation and the rolling window needs
// `window` returns, so the series is defined from index window.
func Volatility(prices []float64, window int) (Series, error) {
	if window <= 0 {
		return Series{}, errors.Newf(errors.ErrCodeInvalidPeriod, "volatility window must be positive, got %d", window)
	}

	values := make([]float64, len(prices))
	if len(prices) < 2 {
		return Series{Values: values, Warmup: window}, nil
	}

	returns := pctChange(prices)

	// returns[0] is a placeholder, not an observation. Slide the window over
	// returns[1:] so the first defined index is window (window returns seen).
	std := rollingStd(returns[1:], window)

	annualize := math.Sqrt(tradingDaysPerYear)
	for i := window; i < len(prices); i++ {
		values[i] = std[i-1] * annualize
	}

	return Series{Values: values, Warmup: window}, nil
}
