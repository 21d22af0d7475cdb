package metrics

import (
	"github.com/moznion/go-optional"

	"github.com/quantx-lab/quantx/internal/types"
)

// TradeSummary holds closed-trade analytics for one ticker. Open trades are
// excluded; a ticker with no closed trades has every averaged field none.
type TradeSummary struct {
	NumberOfTrades     int
	WinningTrades      int
	LosingTrades       int
	WinRate            optional.Option[float64]
	AveragePnL         optional.Option[float64]
	MaxWin             optional.Option[float64]
	MaxLoss            optional.Option[float64]
	AverageHoldingDays optional.Option[float64]
}

// SummarizeTrades computes closed-trade analytics over one ticker's trade log.
func SummarizeTrades(trades []types.TradeRecord) TradeSummary {
	var (
		pnls        []float64
		holdingDays []int
	)

	for i := range trades {
		trade := &trades[i]
		if !trade.IsClosed() {
			continue
		}

		pnls = append(pnls, trade.PnL().TakeOr(0))
		holdingDays = append(holdingDays, trade.HoldingDays().TakeOr(0))
	}

	summary := TradeSummary{
		NumberOfTrades:     len(pnls),
		WinRate:            optional.None[float64](),
		AveragePnL:         optional.None[float64](),
		MaxWin:             optional.None[float64](),
		MaxLoss:            optional.None[float64](),
		AverageHoldingDays: optional.None[float64](),
	}

	if len(pnls) == 0 {
		return summary
	}

	maxWin, maxLoss := pnls[0], pnls[0]

	for _, pnl := range pnls {
		if pnl > 0 {
			summary.WinningTrades++
		} else {
			summary.LosingTrades++
		}

		if pnl > maxWin {
			maxWin = pnl
		}

		if pnl < maxLoss {
			maxLoss = pnl
		}
	}

	daysSum := 0
	for _, d := range holdingDays {
		daysSum += d
	}

	summary.WinRate = optional.Some(float64(summary.WinningTrades) / float64(len(pnls)))
	summary.AveragePnL = optional.Some(mean(pnls))
	summary.MaxWin = optional.Some(maxWin)
	summary.MaxLoss = optional.Some(maxLoss)
	summary.AverageHoldingDays = optional.Some(float64(daysSum) / float64(len(holdingDays)))

	return summary
}

// NormalizeToCapital builds the buy-and-hold equity curve of a price series
// scaled so it starts at the given capital. Used for per-ticker risk/return
// statistics comparable with the portfolio curve.
func NormalizeToCapital(bars []types.Bar, capital float64) types.EquityCurve {
	if len(bars) == 0 || bars[0].AdjClose == 0 {
		return nil
	}

	base := bars[0].AdjClose

	curve := make(types.EquityCurve, 0, len(bars))
	for _, b := range bars {
		curve = append(curve, types.EquityPoint{Time: b.Time, Value: b.AdjClose / base * capital})
	}

	return curve
}
