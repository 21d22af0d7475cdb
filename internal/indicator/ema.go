package indicator

import "github.com/quantx-lab/quantx/pkg/errors"

// EMA computes the exponential moving average of the price series.
//
// Uses alpha = 2/(span+1) seeded with the first observation to match pandas
// ewm(span=n, adjust=False). The series is defined from index 0.
func EMA(prices []float64, span int) (Series, error) {
	if span <= 0 {
		return Series{}, errors.Newf(errors.ErrCodeInvalidPeriod, "ema span must be positive, got %d", span)
	}

	values := make([]float64, len(prices))
	if len(prices) == 0 {
		return Series{Values: values, Warmup: 0}, nil
	}

	alpha := 2.0 / float64(span+1)

	values[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		values[i] = prices[i]*alpha + values[i-1]*(1-alpha)
	}

	return Series{Values: values, Warmup: 0}, nil
}
