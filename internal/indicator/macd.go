package indicator

import "github.com/quantx-lab/quantx/pkg/errors"

// MACDResult holds the three MACD output series.
type MACDResult struct {
	Line   Series
	Signal Series
	Hist   Series
}

// MACD computes the moving average convergence/divergence of the price
// series: fast EMA minus slow EMA, a signal EMA of that difference, and their
// histogram. All three series are defined from index 0 because the underlying
// EMAs are seeded with the first observation.
func MACD(prices []float64, fast, slow, signal int) (MACDResult, error) {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return MACDResult{}, errors.Newf(errors.ErrCodeInvalidPeriod,
			"macd periods must be positive, got fast=%d slow=%d signal=%d", fast, slow, signal)
	}

	emaFast, err := EMA(prices, fast)
	if err != nil {
		return MACDResult{}, err
	}

	emaSlow, err := EMA(prices, slow)
	if err != nil {
		return MACDResult{}, err
	}

	line := make([]float64, len(prices))
	for i := range prices {
		line[i] = emaFast.Values[i] - emaSlow.Values[i]
	}

	signalSeries, err := EMA(line, signal)
	if err != nil {
		return MACDResult{}, err
	}

	hist := make([]float64, len(prices))
	for i := range prices {
		hist[i] = line[i] - signalSeries.Values[i]
	}

	return MACDResult{
		Line:   Series{Values: line, Warmup: 0},
		Signal: signalSeries,
		Hist:   Series{Values: hist, Warmup: 0},
	}, nil
}
