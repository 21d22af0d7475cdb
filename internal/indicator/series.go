// Package indicator provides pure, series-at-a-time technical indicator
// calculations. Each function maps a price series to a derived series and
// reports the warm-up index before which values are not meaningful, so the
// feature builder can drop rows with insufficient history.
package indicator

import "math"

// Series is a derived indicator series aligned index-for-index with its input.
// Values[i] is meaningful only for i >= Warmup.
type Series struct {
	Values []float64
	Warmup int
}

// Defined reports whether the series has a meaningful value at index i.
func (s Series) Defined(i int) bool {
	return i >= s.Warmup && i < len(s.Values)
}

// rollingMean computes the rolling mean with the given window. The result is
// defined from index window-1.
func rollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))

	sum := 0.0

	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}

		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}

	return out
}

// rollingStd computes the rolling sample standard deviation (ddof=1, matching
// pandas rolling().std()) with the given window. The result is defined from
// index window-1; a window of 1 yields zeros.
func rollingStd(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window < 2 {
		return out
	}

	for i := window - 1; i < len(values); i++ {
		start := i - window + 1

		mean := 0.0
		for j := start; j <= i; j++ {
			mean += values[j]
		}

		mean /= float64(window)

		sumSq := 0.0

		for j := start; j <= i; j++ {
			d := values[j] - mean
			sumSq += d * d
		}

		out[i] = math.Sqrt(sumSq / float64(window-1))
	}

	return out
}

// pctChange computes period-over-period percentage returns. The result is
// defined from index 1; index 0 is zero.
func pctChange(values []float64) []float64 {
	out := make([]float64, len(values))

	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			out[i] = 0

			continue
		}

		out[i] = values[i]/values[i-1] - 1
	}

	return out
}
