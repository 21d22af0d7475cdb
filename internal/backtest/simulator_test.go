package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/quantx-lab/quantx/internal/logger"
	"github.com/quantx-lab/quantx/internal/types"
	"github.com/quantx-lab/quantx/pkg/errors"
)

type SimulatorTestSuite struct {
	suite.Suite
	sim   *Simulator
	start time.Time
}

func TestSimulatorSuite(t *testing.T) {
	suite.Run(t, new(SimulatorTestSuite))
}

func (suite *SimulatorTestSuite) SetupTest() {
	suite.sim = NewSimulator(logger.NewNopLogger())
	suite.start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (suite *SimulatorTestSuite) day(offset int) time.Time {
	return suite.start.AddDate(0, 0, offset)
}

func (suite *SimulatorTestSuite) series(ticker string, prices []float64, signals []types.Signal) (map[string][]types.Bar, map[string]types.SignalSeries) {
	bars := make([]types.Bar, 0, len(prices))
	for i, p := range prices {
		bars = append(bars, types.Bar{Time: suite.day(i), AdjClose: p})
	}

	sigs := make(types.SignalSeries, 0, len(signals))
	for i, s := range signals {
		sigs = append(sigs, types.SignalPoint{Time: suite.day(i), Value: s})
	}

	return map[string][]types.Bar{ticker: bars}, map[string]types.SignalSeries{ticker: sigs}
}

func (suite *SimulatorTestSuite) TestSingleInstrumentRoundTrip() {
	prices, signals := suite.series("AAPL",
		[]float64{100, 105, 95, 110, 120},
		[]types.Signal{0, 1, 1, 0, 0},
	)

	equity, trades, err := suite.sim.Run(prices, signals, SimulatorConfig{
		Weights:        map[string]float64{"AAPL": 1.0},
		InitialCapital: 1000,
	})
	suite.NoError(err)
	suite.Len(equity, 5)

	expected := []float64{1000, 1000, 1000 * 95.0 / 105.0, 1000 * 110.0 / 105.0, 1000 * 110.0 / 105.0}
	for i, want := range expected {
		suite.InDelta(want, equity[i].Value, 1e-6)
	}

	suite.Len(trades["AAPL"], 1)

	trade := trades["AAPL"][0]
	suite.Equal(suite.day(1), trade.EntryTime)
	suite.InDelta(105.0, trade.EntryPrice, 1e-9)
	suite.InDelta(1000.0/105.0, trade.Shares, 1e-9)
	suite.True(trade.IsClosed())
	suite.Equal(suite.day(3), trade.ExitTime.TakeOr(time.Time{}))
	suite.InDelta(110.0, trade.ExitPrice.TakeOr(0), 1e-9)
	suite.InDelta(1000.0*110.0/105.0, trade.Proceeds.TakeOr(0), 1e-6)
}

func (suite *SimulatorTestSuite) TestRoundTripUnchangedPriceNetsToZero() {
	prices, signals := suite.series("AAPL",
		[]float64{100, 100, 100},
		[]types.Signal{1, 1, 0},
	)

	equity, _, err := suite.sim.Run(prices, signals, SimulatorConfig{
		InitialCapital: 1000,
	})
	suite.NoError(err)

	// Zero slippage, zero commission, unchanged price: cash is unchanged
	suite.InDelta(1000.0, equity[len(equity)-1].Value, 1e-9)
}

func (suite *SimulatorTestSuite) TestEntryOnFirstDate() {
	prices, signals := suite.series("AAPL",
		[]float64{100, 110},
		[]types.Signal{1, 1},
	)

	equity, trades, err := suite.sim.Run(prices, signals, SimulatorConfig{
		Weights:        map[string]float64{"AAPL": 1.0},
		InitialCapital: 1000,
		Commission:     2,
	})
	suite.NoError(err)

	// Yesterday's signal is defined as flat on the first date, so the entry
	// fires on date zero and equity reflects the commission immediately
	suite.Len(trades["AAPL"], 1)
	suite.Equal(suite.day(0), trades["AAPL"][0].EntryTime)
	suite.InDelta(1000-2, equity[0].Value, 1e-9)
}

func (suite *SimulatorTestSuite) TestSlippageWorksAgainstTrader() {
	prices, signals := suite.series("AAPL",
		[]float64{100, 100, 100},
		[]types.Signal{0, 1, 0},
	)

	_, trades, err := suite.sim.Run(prices, signals, SimulatorConfig{
		InitialCapital: 1000,
		Slippage:       0.01,
	})
	suite.NoError(err)

	trade := trades["AAPL"][0]
	suite.InDelta(101.0, trade.EntryPrice, 1e-9)
	suite.InDelta(99.0, trade.ExitPrice.TakeOr(0), 1e-9)
}

func (suite *SimulatorTestSuite) TestCommissionChargedOnBothLegs() {
	prices, signals := suite.series("AAPL",
		[]float64{100, 100, 100},
		[]types.Signal{0, 1, 0},
	)

	equity, trades, err := suite.sim.Run(prices, signals, SimulatorConfig{
		InitialCapital: 1000,
		Commission:     5,
	})
	suite.NoError(err)

	// Full allocation plus a flat commission per leg: down exactly 2x at the end
	suite.InDelta(990.0, equity[len(equity)-1].Value, 1e-9)

	trade := trades["AAPL"][0]
	proceeds := trade.Proceeds.TakeOr(0)
	suite.InDelta(trade.Shares*trade.ExitPrice.TakeOr(0)-5, proceeds, 1e-9)
}

func (suite *SimulatorTestSuite) TestOpenTradeAtSeriesEnd() {
	prices, signals := suite.series("AAPL",
		[]float64{100, 100, 120},
		[]types.Signal{0, 1, 1},
	)

	equity, trades, err := suite.sim.Run(prices, signals, SimulatorConfig{
		InitialCapital: 1000,
	})
	suite.NoError(err)

	suite.Len(trades["AAPL"], 1)

	trade := trades["AAPL"][0]
	suite.False(trade.IsClosed())
	suite.True(trade.ExitTime.IsNone())
	suite.True(trade.ExitPrice.IsNone())
	suite.True(trade.Proceeds.IsNone())

	// The open position is still marked to market in the final equity value
	suite.InDelta(1200.0, equity[len(equity)-1].Value, 1e-9)
}

func (suite *SimulatorTestSuite) TestSameDateEntriesCompeteForCash() {
	bars := func(price float64) []types.Bar {
		return []types.Bar{
			{Time: suite.day(0), AdjClose: price},
			{Time: suite.day(1), AdjClose: price},
		}
	}
	longFromDayOne := types.SignalSeries{
		{Time: suite.day(0), Value: types.SignalFlat},
		{Time: suite.day(1), Value: types.SignalLong},
	}

	prices := map[string][]types.Bar{"AAA": bars(100), "BBB": bars(100)}
	signals := map[string]types.SignalSeries{"AAA": longFromDayOne, "BBB": longFromDayOne}

	_, trades, err := suite.sim.Run(prices, signals, SimulatorConfig{
		Weights:        map[string]float64{"AAA": 0.5, "BBB": 0.5},
		InitialCapital: 1000,
	})
	suite.NoError(err)

	// AAA allocates half of 1000, BBB half of the remaining 500
	suite.InDelta(5.0, trades["AAA"][0].Shares, 1e-9)
	suite.InDelta(2.5, trades["BBB"][0].Shares, 1e-9)
}

func (suite *SimulatorTestSuite) TestLeadingGapInstrumentIsSkipped() {
	aaaBars := []types.Bar{
		{Time: suite.day(0), AdjClose: 100},
		{Time: suite.day(1), AdjClose: 100},
		{Time: suite.day(2), AdjClose: 100},
	}
	// BBB's history starts on day 2
	bbbBars := []types.Bar{
		{Time: suite.day(2), AdjClose: 50},
	}

	prices := map[string][]types.Bar{"AAA": aaaBars, "BBB": bbbBars}
	signals := map[string]types.SignalSeries{
		"AAA": {
			{Time: suite.day(0), Value: types.SignalFlat},
			{Time: suite.day(1), Value: types.SignalFlat},
			{Time: suite.day(2), Value: types.SignalFlat},
		},
		"BBB": {
			{Time: suite.day(2), Value: types.SignalLong},
		},
	}

	equity, trades, err := suite.sim.Run(prices, signals, SimulatorConfig{
		Weights:        map[string]float64{"AAA": 0.5, "BBB": 0.5},
		InitialCapital: 1000,
	})
	suite.NoError(err)

	// Before day 2 equity reflects only defined instruments
	suite.InDelta(1000.0, equity[0].Value, 1e-9)
	suite.InDelta(1000.0, equity[1].Value, 1e-9)

	// BBB enters on its first defined date
	suite.Len(trades["BBB"], 1)
	suite.Equal(suite.day(2), trades["BBB"][0].EntryTime)
}

func (suite *SimulatorTestSuite) TestExitRequiresOpenPosition() {
	// One entry, one exit, then a long stretch of flat signals: no further
	// exits may fire once the position is closed.
	prices, signals := suite.series("AAPL",
		[]float64{100, 100, 100, 100},
		[]types.Signal{1, 0, 0, 0},
	)

	_, trades, err := suite.sim.Run(prices, signals, SimulatorConfig{
		InitialCapital: 1000,
	})
	suite.NoError(err)

	suite.Len(trades["AAPL"], 1)
	suite.True(trades["AAPL"][0].IsClosed())
}

func (suite *SimulatorTestSuite) TestIdempotentRuns() {
	prices, signals := suite.series("AAPL",
		[]float64{100, 105, 95, 110, 120},
		[]types.Signal{0, 1, 1, 0, 1},
	)

	cfg := SimulatorConfig{InitialCapital: 1000, Slippage: 0.0005, Commission: 1}

	equity1, trades1, err := suite.sim.Run(prices, signals, cfg)
	suite.NoError(err)
	equity2, trades2, err := suite.sim.Run(prices, signals, cfg)
	suite.NoError(err)

	suite.Equal(equity1, equity2)
	suite.Len(trades2["AAPL"], len(trades1["AAPL"]))

	for i := range trades1["AAPL"] {
		a, b := trades1["AAPL"][i], trades2["AAPL"][i]
		suite.Equal(a.EntryTime, b.EntryTime)
		suite.Equal(a.EntryPrice, b.EntryPrice)
		suite.Equal(a.Shares, b.Shares)
		suite.Equal(a.Proceeds, b.Proceeds)
	}
}

func (suite *SimulatorTestSuite) TestNoInstruments() {
	_, _, err := suite.sim.Run(nil, nil, SimulatorConfig{InitialCapital: 1000})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestNoInstruments))
}
