package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PortfolioSummary holds the portfolio-level performance statistics.
// Ratio fields are pointers so a legitimately undefined statistic (zero
// volatility, zero drawdown, no losing days) serializes as null instead of 0.
type PortfolioSummary struct {
	// Total return. Final equity over initial equity minus one.
	TotalReturn float64 `yaml:"total_return"`
	// Annualized return using the 252 trading day convention. Zero when the
	// curve has a single observation.
	AnnualizedReturn float64 `yaml:"annualized_return"`
	// Annualized volatility. Standard deviation of daily returns times sqrt(252).
	AnnualizedVolatility *float64 `yaml:"annualized_volatility"`
	// Sharpe ratio. Null when volatility is zero.
	Sharpe *float64 `yaml:"sharpe"`
	// Compound annual growth rate over elapsed calendar time.
	CAGR *float64 `yaml:"cagr"`
	// Sortino ratio. Null when there are no negative-return days.
	Sortino *float64 `yaml:"sortino"`
	// Calmar ratio. Null when max drawdown is zero.
	Calmar *float64 `yaml:"calmar"`
	// Omega ratio at threshold zero. Null when there is no loss mass.
	Omega *float64 `yaml:"omega"`
	// Maximum drawdown. Largest fractional decline from the running peak.
	MaxDrawdown float64 `yaml:"max_drawdown"`
}

// TickerStats holds per-ticker trade analytics and risk/return statistics.
type TickerStats struct {
	Ticker string `yaml:"ticker"`
	// Count of closed trades.
	NumberOfTrades int `yaml:"number_of_trades"`
	// Count of closed trades with positive pnl.
	NumberOfWinningTrades int `yaml:"number_of_winning_trades"`
	// Count of closed trades with non-positive pnl.
	NumberOfLosingTrades int `yaml:"number_of_losing_trades"`
	// Win rate over closed trades. Null when there are no closed trades.
	WinRate *float64 `yaml:"win_rate"`
	// Average pnl per closed trade.
	AveragePnL *float64 `yaml:"average_pnl"`
	// Largest single-trade pnl.
	MaxWin *float64 `yaml:"max_win"`
	// Smallest single-trade pnl.
	MaxLoss *float64 `yaml:"max_loss"`
	// Average calendar days a closed trade was held.
	AverageHoldingDays *float64 `yaml:"average_holding_days"`
	// Buy-and-hold risk/return on the price series normalized to initial capital.
	CAGR                 *float64 `yaml:"cagr"`
	AnnualizedVolatility *float64 `yaml:"annualized_volatility"`
	Sortino              *float64 `yaml:"sortino"`
}

// BacktestStats is the run summary document written alongside the result
// artifacts.
type BacktestStats struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id"`
	// Timestamp is when this backtest run was executed.
	Timestamp time.Time `yaml:"timestamp"`
	// Strategy is the signal generator used for the run.
	Strategy string `yaml:"strategy"`
	// InitialCapital is the starting cash balance.
	InitialCapital float64 `yaml:"initial_capital"`
	// ExcludedTickers lists requested tickers dropped for lack of data.
	ExcludedTickers []string `yaml:"excluded_tickers"`
	// Portfolio holds the portfolio-level statistics.
	Portfolio PortfolioSummary `yaml:"portfolio"`
	// Tickers holds per-ticker analytics, ordered by ticker.
	Tickers []TickerStats `yaml:"tickers"`
	// EquityCurvePath is the path to the equity curve CSV file.
	EquityCurvePath string `yaml:"equity_curve_path"`
	// WorkbookPath is the path to the trades and equity xlsx workbook.
	WorkbookPath string `yaml:"workbook_path"`
	// ConfigVersion is the schema version of the config that produced the run.
	ConfigVersion string `yaml:"config_version"`
}

// WriteBacktestStats writes the run summary as YAML to the given path.
func WriteBacktestStats(path string, stats BacktestStats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest stats to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest stats to file: %w", err)
	}

	return nil
}
