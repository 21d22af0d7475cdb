package indicator

import (
	"github.com/quantx-lab/quantx/internal/types"
)

// FeatureConfig selects which indicators to compute and with what periods.
type FeatureConfig struct {
	FastEMA   int
	SlowEMA   int
	RSILength int
	VolWindow int

	EnableMACD bool
	MACDFast   int
	MACDSlow   int
	MACDSignal int

	EnableBands bool
	BandWindow  int
	BandStdDev  float64

	EnableATR bool
	ATRWindow int
}

// DefaultFeatureConfig returns the default indicator selection: 20/50 EMAs,
// 14-period RSI, 20-day volatility, and all optional indicator groups enabled
// with their conventional periods.
func DefaultFeatureConfig() FeatureConfig {
	return FeatureConfig{
		FastEMA:     20,
		SlowEMA:     50,
		RSILength:   14,
		VolWindow:   20,
		EnableMACD:  true,
		MACDFast:    12,
		MACDSlow:    26,
		MACDSignal:  9,
		EnableBands: true,
		BandWindow:  20,
		BandStdDev:  2,
		EnableATR:   true,
		ATRWindow:   14,
	}
}

// BuildFeatureTable computes all enabled indicators over the ticker's bars and
// assembles the feature table. Bars must be sorted by time ascending. Rows
// before the longest warm-up of any enabled indicator are dropped; a history
// shorter than the warm-up yields an empty table, not an error.
//
// The row's Close is the adjusted close, the canonical trading price.
func BuildFeatureTable(ticker string, bars []types.Bar, cfg FeatureConfig) (types.FeatureTable, error) {
	table := types.FeatureTable{
		Ticker:   ticker,
		HasMACD:  cfg.EnableMACD,
		HasBands: cfg.EnableBands,
		HasATR:   cfg.EnableATR,
	}

	if len(bars) == 0 {
		return table, nil
	}

	prices := types.AdjCloses(bars)

	emaFast, err := EMA(prices, cfg.FastEMA)
	if err != nil {
		return types.FeatureTable{}, err
	}

	emaSlow, err := EMA(prices, cfg.SlowEMA)
	if err != nil {
		return types.FeatureTable{}, err
	}

	rsi, err := RSI(prices, cfg.RSILength)
	if err != nil {
		return types.FeatureTable{}, err
	}

	vol, err := Volatility(prices, cfg.VolWindow)
	if err != nil {
		return types.FeatureTable{}, err
	}

	warmup := maxWarmup(emaFast.Warmup, emaSlow.Warmup, rsi.Warmup, vol.Warmup)

	var macd MACDResult

	if cfg.EnableMACD {
		macd, err = MACD(prices, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)
		if err != nil {
			return types.FeatureTable{}, err
		}

		warmup = maxWarmup(warmup, macd.Line.Warmup)
	}

	var bands BollingerResult

	if cfg.EnableBands {
		bands, err = BollingerBands(prices, cfg.BandWindow, cfg.BandStdDev)
		if err != nil {
			return types.FeatureTable{}, err
		}

		warmup = maxWarmup(warmup, bands.Upper.Warmup)
	}

	var atr Series

	if cfg.EnableATR {
		atr, err = ATR(bars, cfg.ATRWindow)
		if err != nil {
			return types.FeatureTable{}, err
		}

		warmup = maxWarmup(warmup, atr.Warmup)
	}

	if warmup >= len(bars) {
		return table, nil
	}

	table.Rows = make([]types.FeatureRow, 0, len(bars)-warmup)

	for i := warmup; i < len(bars); i++ {
		row := types.FeatureRow{
			Time:       bars[i].Time,
			Open:       bars[i].Open,
			High:       bars[i].High,
			Low:        bars[i].Low,
			Close:      bars[i].AdjClose,
			Volume:     bars[i].Volume,
			EMAFast:    emaFast.Values[i],
			EMASlow:    emaSlow.Values[i],
			RSI:        rsi.Values[i],
			Volatility: vol.Values[i],
		}

		if cfg.EnableMACD {
			row.MACD = macd.Line.Values[i]
			row.MACDSignal = macd.Signal.Values[i]
			row.MACDHist = macd.Hist.Values[i]
		}

		if cfg.EnableBands {
			row.BBUpper = bands.Upper.Values[i]
			row.BBLower = bands.Lower.Values[i]
		}

		if cfg.EnableATR {
			row.ATR = atr.Values[i]
		}

		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func maxWarmup(warmups ...int) int {
	max := 0

	for _, w := range warmups {
		if w > max {
			max = w
		}
	}

	return max
}
