package indicator

import "github.com/quantx-lab/quantx/pkg/errors"

// BollingerResult holds the upper and lower band series.
type BollingerResult struct {
	Upper Series
	Lower Series
}

// BollingerBands computes the upper and lower bands: a rolling simple moving
// average plus/minus nStd rolling sample standard deviations. Both series are
// defined from index window-1.
func BollingerBands(prices []float64, window int, nStd float64) (BollingerResult, error) {
	if window <= 0 {
		return BollingerResult{}, errors.Newf(errors.ErrCodeInvalidPeriod, "bollinger window must be positive, got %d", window)
	}

	sma := rollingMean(prices, window)
	std := rollingStd(prices, window)

	upper := make([]float64, len(prices))
	lower := make([]float64, len(prices))

	for i := window - 1; i < len(prices); i++ {
		upper[i] = sma[i] + nStd*std[i]
		lower[i] = sma[i] - nStd*std[i]
	}

	warmup := window - 1

	return BollingerResult{
		Upper: Series{Values: upper, Warmup: warmup},
		Lower: Series{Values: lower, Warmup: warmup},
	}, nil
}
