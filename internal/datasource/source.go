// Package datasource provides bar sources over CSV directories and DuckDB
// databases. A source yields daily bars per ticker sorted by time ascending.
package datasource

import (
	"github.com/quantx-lab/quantx/internal/types"
)

// BarSource loads daily price history for the tickers of a backtest.
type BarSource interface {
	// Tickers returns every ticker the source can serve, sorted ascending.
	Tickers() ([]string, error)
	// LoadBars returns the full daily history for one ticker, sorted by time.
	// A ticker with no data returns ErrCodeDataNotFound.
	LoadBars(ticker string) ([]types.Bar, error)
	// Close releases any resources held by the source.
	Close() error
}
