package metrics

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/quantx-lab/quantx/internal/types"
)

type TradesTestSuite struct {
	suite.Suite
	start time.Time
}

func TestTradesSuite(t *testing.T) {
	suite.Run(t, new(TradesTestSuite))
}

func (suite *TradesTestSuite) SetupTest() {
	suite.start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (suite *TradesTestSuite) closedTrade(entryPrice, shares, proceeds float64, holdingDays int) types.TradeRecord {
	return types.TradeRecord{
		Ticker:     "TEST",
		EntryTime:  suite.start,
		EntryPrice: entryPrice,
		Shares:     shares,
		ExitTime:   optional.Some(suite.start.AddDate(0, 0, holdingDays)),
		ExitPrice:  optional.Some(proceeds / shares),
		Proceeds:   optional.Some(proceeds),
	}
}

func (suite *TradesTestSuite) TestSummarizeTrades() {
	trades := []types.TradeRecord{
		suite.closedTrade(100, 10, 1100, 10), // pnl +100
		suite.closedTrade(100, 10, 950, 20),  // pnl -50
		{ // open trade, excluded from analytics
			Ticker:     "TEST",
			EntryTime:  suite.start,
			EntryPrice: 100,
			Shares:     10,
			ExitTime:   optional.None[time.Time](),
			ExitPrice:  optional.None[float64](),
			Proceeds:   optional.None[float64](),
		},
	}

	summary := SummarizeTrades(trades)
	suite.Equal(2, summary.NumberOfTrades)
	suite.Equal(1, summary.WinningTrades)
	suite.Equal(1, summary.LosingTrades)
	suite.InDelta(0.5, summary.WinRate.TakeOr(-1), 1e-9)
	suite.InDelta(25.0, summary.AveragePnL.TakeOr(0), 1e-9)
	suite.InDelta(100.0, summary.MaxWin.TakeOr(0), 1e-9)
	suite.InDelta(-50.0, summary.MaxLoss.TakeOr(0), 1e-9)
	suite.InDelta(15.0, summary.AverageHoldingDays.TakeOr(0), 1e-9)
}

func (suite *TradesTestSuite) TestSummarizeNoClosedTrades() {
	summary := SummarizeTrades(nil)
	suite.Equal(0, summary.NumberOfTrades)
	suite.True(summary.WinRate.IsNone())
	suite.True(summary.AveragePnL.IsNone())
	suite.True(summary.AverageHoldingDays.IsNone())
}

func (suite *TradesTestSuite) TestNormalizeToCapital() {
	bars := []types.Bar{
		{Time: suite.start, AdjClose: 50},
		{Time: suite.start.AddDate(0, 0, 1), AdjClose: 55},
		{Time: suite.start.AddDate(0, 0, 2), AdjClose: 45},
	}

	curve := NormalizeToCapital(bars, 100000)
	suite.Len(curve, 3)
	suite.InDelta(100000.0, curve[0].Value, 1e-9)
	suite.InDelta(110000.0, curve[1].Value, 1e-9)
	suite.InDelta(90000.0, curve[2].Value, 1e-9)
}

func (suite *TradesTestSuite) TestNormalizeEmpty() {
	suite.Nil(NormalizeToCapital(nil, 1000))
}
