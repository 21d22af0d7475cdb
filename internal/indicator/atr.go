package indicator

import (
	"math"

	"github.com/quantx-lab/quantx/internal/types"
	"github.com/quantx-lab/quantx/pkg/errors"
)

// ATR computes the average true range: a rolling mean of the true range over
// the window. The true range of the first bar falls back to high minus low
// since there is no previous close. The series is defined from index window-1.
//
// The previous close used in the true range is the adjusted close, consistent
// with the rest of the feature pipeline trading on adjusted prices.
func ATR(bars []types.Bar, window int) (Series, error) {
	if window <= 0 {
		return Series{}, errors.Newf(errors.ErrCodeInvalidPeriod, "atr window must be positive, got %d", window)
	}

	tr := make([]float64, len(bars))

	for i, b := range bars {
		highLow := b.High - b.Low
		if i == 0 {
			tr[i] = highLow

			continue
		}

		prevClose := bars[i-1].AdjClose
		tr[i] = math.Max(highLow, math.Max(math.Abs(b.High-prevClose), math.Abs(b.Low-prevClose)))
	}

	values := rollingMean(tr, window)

	return Series{Values: values, Warmup: window - 1}, nil
}
