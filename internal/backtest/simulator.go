// Package backtest implements the portfolio simulator: the state machine that
// turns per-instrument signals into cash and share positions over a unified
// calendar, producing an equity curve and per-instrument trade logs.
package backtest

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/quantx-lab/quantx/internal/logger"
	"github.com/quantx-lab/quantx/internal/types"
	"github.com/quantx-lab/quantx/pkg/errors"
)

// SimulatorConfig holds the capital allocation parameters for one run.
type SimulatorConfig struct {
	// Weights maps ticker to the fraction of currently available cash
	// allocated at each new entry. Empty means equal weight across all
	// instruments present at construction time. Weights are applied to the
	// cash balance at the moment of entry, not to total equity, so
	// same-date entries compete for a shrinking pool.
	Weights map[string]float64
	// InitialCapital is the starting cash balance.
	InitialCapital float64
	// Slippage is the fractional price penalty applied against the trader
	// on both entry and exit.
	Slippage float64
	// Commission is the flat cost charged per trade leg, entry and exit
	// independently.
	Commission float64
}

// portfolioState is the explicit fold state carried through the calendar:
// cash, per-instrument share counts, open-position flags, and trade logs.
type portfolioState struct {
	cash   float64
	shares map[string]float64
	open   map[string]bool
	trades map[string][]types.TradeRecord
}

func newPortfolioState(initialCapital float64, tickers []string) *portfolioState {
	state := &portfolioState{
		cash:   initialCapital,
		shares: make(map[string]float64, len(tickers)),
		open:   make(map[string]bool, len(tickers)),
		trades: make(map[string][]types.TradeRecord, len(tickers)),
	}

	for _, t := range tickers {
		state.shares[t] = 0
		state.open[t] = false
		state.trades[t] = nil
	}

	return state
}

// Simulator runs a single-account, multi-asset portfolio simulation. A run
// owns all of its mutable state, so independent runs may execute concurrently.
type Simulator struct {
	log *logger.Logger
}

// NewSimulator creates a simulator logging through the given logger.
func NewSimulator(log *logger.Logger) *Simulator {
	return &Simulator{log: log}
}

// Run simulates the portfolio day by day over the master calendar and returns
// the equity curve plus the per-instrument trade logs.
//
// Instruments are processed in sorted ticker order within each date, so
// same-date entries compete for cash deterministically and identical inputs
// produce identical outputs.
func (s *Simulator) Run(
	prices map[string][]types.Bar,
	signals map[string]types.SignalSeries,
	cfg SimulatorConfig,
) (types.EquityCurve, map[string][]types.TradeRecord, error) {
	if len(prices) == 0 {
		return nil, nil, errors.New(errors.ErrCodeBacktestNoInstruments, "no instruments to simulate")
	}

	tickers := make([]string, 0, len(prices))
	for t := range prices {
		tickers = append(tickers, t)
	}

	sort.Strings(tickers)

	weights := cfg.Weights
	if len(weights) == 0 {
		weights = equalWeights(tickers)
	}

	calendar := BuildMasterCalendar(prices, signals)

	aligned := make(map[string]alignedInstrument, len(tickers))
	for _, t := range tickers {
		aligned[t] = alignInstrument(calendar, prices[t], signals[t])
	}

	state := newPortfolioState(cfg.InitialCapital, tickers)
	equity := make(types.EquityCurve, 0, len(calendar))

	for i, date := range calendar {
		positionValue := 0.0

		for _, t := range tickers {
			inst := aligned[t]
			if !inst.priceDefined[i] {
				// Pre-first-observation gap: no entry, no exit, no
				// contribution to position value.
				continue
			}

			price := inst.prices[i]

			sig := inst.signals[i]

			prevSig := types.SignalFlat
			if i > 0 {
				prevSig = inst.signals[i-1]
			}

			switch {
			case sig == types.SignalLong && prevSig == types.SignalFlat && !state.open[t]:
				s.enter(state, t, date, price, weights[t], cfg)
			case sig == types.SignalFlat && prevSig == types.SignalLong && state.open[t]:
				s.exit(state, t, date, price, cfg)
			}

			positionValue += state.shares[t] * price
		}

		equity = append(equity, types.EquityPoint{Time: date, Value: state.cash + positionValue})
	}

	return equity, state.trades, nil
}

// enter opens a new position: allocate a fraction of the current cash
// balance, convert to shares at the slippage-adjusted price, and charge the
// flat commission.
func (s *Simulator) enter(state *portfolioState, ticker string, date time.Time, price, weight float64, cfg SimulatorConfig) {
	allocation := state.cash * weight
	if allocation <= 0 {
		return
	}

	entryPrice := price * (1 + cfg.Slippage)
	shares := allocation / entryPrice

	state.cash -= shares*entryPrice + cfg.Commission
	state.shares[ticker] = shares
	state.open[ticker] = true

	state.trades[ticker] = append(state.trades[ticker], types.TradeRecord{
		ID:         uuid.New().String(),
		Ticker:     ticker,
		EntryTime:  date,
		EntryPrice: entryPrice,
		Shares:     shares,
		ExitTime:   optional.None[time.Time](),
		ExitPrice:  optional.None[float64](),
		Proceeds:   optional.None[float64](),
	})

	s.log.Debug("position opened",
		zap.String("ticker", ticker),
		zap.Time("date", date),
		zap.Float64("entry_price", entryPrice),
		zap.Float64("shares", shares),
	)
}

// exit closes the open position: sell all held shares at the
// slippage-adjusted price and charge the flat commission.
func (s *Simulator) exit(state *portfolioState, ticker string, date time.Time, price float64, cfg SimulatorConfig) {
	shares := state.shares[ticker]
	exitPrice := price * (1 - cfg.Slippage)
	proceeds := shares*exitPrice - cfg.Commission

	state.cash += proceeds
	state.shares[ticker] = 0
	state.open[ticker] = false

	last := len(state.trades[ticker]) - 1
	trade := &state.trades[ticker][last]
	trade.ExitTime = optional.Some(date)
	trade.ExitPrice = optional.Some(exitPrice)
	trade.Proceeds = optional.Some(proceeds)

	s.log.Debug("position closed",
		zap.String("ticker", ticker),
		zap.Time("date", date),
		zap.Float64("exit_price", exitPrice),
		zap.Float64("proceeds", proceeds),
	)
}

func equalWeights(tickers []string) map[string]float64 {
	weights := make(map[string]float64, len(tickers))
	for _, t := range tickers {
		weights[t] = 1.0 / float64(len(tickers))
	}

	return weights
}
