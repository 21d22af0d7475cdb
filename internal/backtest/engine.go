package backtest

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/quantx-lab/quantx/internal/datasource"
	"github.com/quantx-lab/quantx/internal/indicator"
	"github.com/quantx-lab/quantx/internal/logger"
	"github.com/quantx-lab/quantx/internal/metrics"
	"github.com/quantx-lab/quantx/internal/strategy"
	"github.com/quantx-lab/quantx/internal/types"
	"github.com/quantx-lab/quantx/pkg/errors"
)

// RunParams collects everything one backtest run needs beyond the bar source.
type RunParams struct {
	Tickers   []string
	Features  indicator.FeatureConfig
	Strategy  strategy.Strategy
	Simulator SimulatorConfig
}

// Result is the full outcome of one backtest run.
type Result struct {
	RunID     string
	Timestamp time.Time
	// Excluded lists requested tickers dropped for lack of data, sorted.
	Excluded    []string
	EquityCurve types.EquityCurve
	Trades      map[string][]types.TradeRecord
	Summary     metrics.Summary
	// TickerStats holds per-ticker analytics in sorted ticker order.
	TickerStats []types.TickerStats
}

// Engine wires data loading, feature computation, signal generation,
// simulation and metrics into one run.
type Engine struct {
	log    *logger.Logger
	source datasource.BarSource
	sim    *Simulator
}

// NewEngine creates an engine reading bars from the given source.
func NewEngine(source datasource.BarSource, log *logger.Logger) *Engine {
	return &Engine{
		log:    log,
		source: source,
		sim:    NewSimulator(log),
	}
}

// Run executes one full backtest. Tickers whose bars cannot be loaded are
// excluded from the simulation and surfaced in the result rather than failing
// the run; a run where every ticker is excluded is an error.
func (e *Engine) Run(params RunParams) (*Result, error) {
	result := &Result{
		RunID:     uuid.New().String(),
		Timestamp: time.Now().UTC(),
	}

	prices := make(map[string][]types.Bar, len(params.Tickers))
	signals := make(map[string]types.SignalSeries, len(params.Tickers))

	for _, ticker := range params.Tickers {
		bars, err := e.source.LoadBars(ticker)
		if err != nil {
			e.log.Warn("excluding ticker, bars unavailable",
				zap.String("ticker", ticker),
				zap.Error(err),
			)

			result.Excluded = append(result.Excluded, ticker)

			continue
		}

		table, err := indicator.BuildFeatureTable(ticker, bars, params.Features)
		if err != nil {
			return nil, err
		}

		sigs, err := params.Strategy.Generate(table)
		if err != nil {
			return nil, err
		}

		prices[ticker] = bars
		signals[ticker] = sigs
	}

	sort.Strings(result.Excluded)

	if len(prices) == 0 {
		return nil, errors.New(errors.ErrCodeBacktestNoInstruments, "every requested ticker was excluded")
	}

	curve, trades, err := e.sim.Run(prices, signals, params.Simulator)
	if err != nil {
		return nil, err
	}

	summary, err := metrics.Compute(curve)
	if err != nil {
		return nil, err
	}

	result.EquityCurve = curve
	result.Trades = trades
	result.Summary = summary
	result.TickerStats = buildTickerStats(prices, trades, params.Simulator.InitialCapital)

	e.log.Info("backtest complete",
		zap.String("run_id", result.RunID),
		zap.Int("instruments", len(prices)),
		zap.Int("excluded", len(result.Excluded)),
		zap.Float64("total_return", summary.TotalReturn),
	)

	return result, nil
}

// buildTickerStats combines closed-trade analytics with buy-and-hold
// risk/return per instrument, in sorted ticker order.
func buildTickerStats(
	prices map[string][]types.Bar,
	trades map[string][]types.TradeRecord,
	initialCapital float64,
) []types.TickerStats {
	tickers := make([]string, 0, len(prices))
	for t := range prices {
		tickers = append(tickers, t)
	}

	sort.Strings(tickers)

	stats := make([]types.TickerStats, 0, len(tickers))

	for _, ticker := range tickers {
		tradeSummary := metrics.SummarizeTrades(trades[ticker])

		ts := types.TickerStats{
			Ticker:                ticker,
			NumberOfTrades:        tradeSummary.NumberOfTrades,
			NumberOfWinningTrades: tradeSummary.WinningTrades,
			NumberOfLosingTrades:  tradeSummary.LosingTrades,
			WinRate:               optionalPtr(tradeSummary.WinRate),
			AveragePnL:            optionalPtr(tradeSummary.AveragePnL),
			MaxWin:                optionalPtr(tradeSummary.MaxWin),
			MaxLoss:               optionalPtr(tradeSummary.MaxLoss),
			AverageHoldingDays:    optionalPtr(tradeSummary.AverageHoldingDays),
		}

		holdCurve := metrics.NormalizeToCapital(prices[ticker], initialCapital)
		if len(holdCurve) > 0 {
			ts.CAGR = optionalPtr(metrics.CAGR(holdCurve))
			ts.AnnualizedVolatility = optionalPtr(metrics.AnnualizedVolatility(holdCurve))
			ts.Sortino = optionalPtr(metrics.Sortino(holdCurve, 0))
		}

		stats = append(stats, ts)
	}

	return stats
}

// optionalPtr converts an optional statistic to the nullable pointer form
// used by the serialized stats document.
func optionalPtr(o optional.Option[float64]) *float64 {
	if o.IsNone() {
		return nil
	}

	v := o.Unwrap()

	return &v
}
