package indicator

import "github.com/quantx-lab/quantx/pkg/errors"

// rsiEpsilon guards the up/down ratio against a zero average loss.
const rsiEpsilon = 1e-12

// RSI computes the relative strength index of the price series.
//
// Gains and losses are smoothed with alpha = 1/length seeded with the first
// price delta (Wilder-style smoothing, matching pandas ewm(alpha=1/n,
// adjust=False) over the clipped deltas). The series is defined from index 1,
// since the first delta needs a prior observation.
func RSI(prices []float64, length int) (Series, error) {
	if length <= 0 {
		return Series{}, errors.Newf(errors.ErrCodeInvalidPeriod, "rsi length must be positive, got %d", length)
	}

	values := make([]float64, len(prices))
	if len(prices) < 2 {
		return Series{Values: values, Warmup: 1}, nil
	}

	alpha := 1.0 / float64(length)

	var avgUp, avgDown float64

	for i := 1; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]

		up, down := 0.0, 0.0
		if delta > 0 {
			up = delta
		} else {
			down = -delta
		}

		if i == 1 {
			avgUp, avgDown = up, down
		} else {
			avgUp = up*alpha + avgUp*(1-alpha)
			avgDown = down*alpha + avgDown*(1-alpha)
		}

		rs := avgUp / (avgDown + rsiEpsilon)
		values[i] = 100 - 100/(1+rs)
	}

	return Series{Values: values, Warmup: 1}, nil
}
