package datasource

import (
	"database/sql"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/quantx-lab/quantx/internal/logger"
	"github.com/quantx-lab/quantx/internal/types"
	"github.com/quantx-lab/quantx/pkg/errors"
)

// barsTable is the daily-bar table written by pkg/marketdata.
const barsTable = "daily_bars"

// DuckDBSource serves bars from a DuckDB database file containing the
// daily_bars table (ticker, time, open, high, low, close, adj_close, volume).
type DuckDBSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

var _ BarSource = (*DuckDBSource)(nil)

// NewDuckDBSource opens a bar source over a DuckDB database file.
func NewDuckDBSource(path string, logger *logger.Logger) (*DuckDBSource, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "cannot open duckdb database %s", path)
	}

	return &DuckDBSource{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Tickers implements BarSource.
func (s *DuckDBSource) Tickers() ([]string, error) {
	query, args, err := s.sq.
		Select("DISTINCT ticker").
		From(barsTable).
		OrderBy("ticker ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "cannot build ticker query", err)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "cannot list tickers", err)
	}
	defer rows.Close()

	var tickers []string

	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "cannot scan ticker row", err)
		}

		tickers = append(tickers, ticker)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "ticker query failed", err)
	}

	return tickers, nil
}

// LoadBars implements BarSource.
func (s *DuckDBSource) LoadBars(ticker string) ([]types.Bar, error) {
	s.logger.Debug("loading bars from DuckDB", zap.String("ticker", ticker))

	query, args, err := s.sq.
		Select("time", "open", "high", "low", "close", "adj_close", "volume").
		From(barsTable).
		Where(squirrel.Eq{"ticker": ticker}).
		OrderBy("time ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "cannot build bar query", err)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "cannot query bars for ticker %s", ticker)
	}
	defer rows.Close()

	var bars []types.Bar

	for rows.Next() {
		var bar types.Bar
		if err := rows.Scan(&bar.Time, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.AdjClose, &bar.Volume); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "cannot scan bar row for ticker %s", ticker)
		}

		bar.Time = bar.Time.UTC()

		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "bar query failed for ticker %s", ticker)
	}

	if len(bars) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "no bars stored for ticker %s", ticker)
	}

	return bars, nil
}

// Close implements BarSource.
func (s *DuckDBSource) Close() error {
	return s.db.Close()
}
