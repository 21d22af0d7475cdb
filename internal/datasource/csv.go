package datasource

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/quantx-lab/quantx/internal/logger"
	"github.com/quantx-lab/quantx/internal/types"
	"github.com/quantx-lab/quantx/pkg/errors"
)

// CSVSource serves bars from a directory of per-ticker CSV files named
// TICKER.csv. Each file carries a header row; recognized columns are
// date, open, high, low, close, adj_close and volume in any order.
type CSVSource struct {
	dir    string
	logger *logger.Logger
}

var _ BarSource = (*CSVSource)(nil)

// NewCSVSource creates a bar source over a directory of TICKER.csv files.
func NewCSVSource(dir string, logger *logger.Logger) (*CSVSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "cannot open data directory %s", dir)
	}

	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrCodeDataSourceUnavailable, "%s is not a directory", dir)
	}

	return &CSVSource{
		dir:    dir,
		logger: logger,
	}, nil
}

// Tickers implements BarSource.
func (s *CSVSource) Tickers() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "cannot list data directory %s", s.dir)
	}

	var tickers []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(name, ".csv") {
			continue
		}

		tickers = append(tickers, strings.TrimSuffix(name, ".csv"))
	}

	sort.Strings(tickers)

	return tickers, nil
}

// LoadBars implements BarSource.
func (s *CSVSource) LoadBars(ticker string) ([]types.Bar, error) {
	path := filepath.Join(s.dir, ticker+".csv")

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrCodeDataNotFound, "no data file for ticker %s", ticker)
		}

		return nil, errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "cannot open %s", path)
	}
	defer file.Close()

	s.logger.Debug("loading bars from CSV", zap.String("ticker", ticker), zap.String("path", path))

	bars, err := parseBarCSV(file)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataParseFailed, err, "cannot parse %s", path)
	}

	if len(bars) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "no bars in data file for ticker %s", ticker)
	}

	types.SortBars(bars)

	return bars, nil
}

// Close implements BarSource.
func (s *CSVSource) Close() error {
	return nil
}

// dateLayouts are tried in order when parsing the date column.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
}

func parseBarCSV(r io.Reader) ([]types.Bar, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	dateCol, ok := cols["date"]
	if !ok {
		dateCol, ok = cols["time"]
	}

	adjCol, adjOK := cols["adj_close"]

	closeCol, closeOK := cols["close"]
	if !ok || (!adjOK && !closeOK) {
		return nil, errors.New(errors.ErrCodeDataParseFailed, "header must contain a date column and a close or adj_close column")
	}

	var bars []types.Bar

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, err
		}

		bar := types.Bar{}

		bar.Time, err = parseDate(record[dateCol])
		if err != nil {
			return nil, err
		}

		if adjOK {
			bar.AdjClose, err = strconv.ParseFloat(record[adjCol], 64)
			if err != nil {
				return nil, err
			}
		}

		if closeOK {
			bar.Close, err = strconv.ParseFloat(record[closeCol], 64)
			if err != nil {
				return nil, err
			}
		}

		// Yahoo-style exports without an adjusted column fall back to close
		// and vice versa.
		if !adjOK {
			bar.AdjClose = bar.Close
		}

		if !closeOK {
			bar.Close = bar.AdjClose
		}

		bar.Open = optionalFloat(record, cols, "open")
		bar.High = optionalFloat(record, cols, "high")
		bar.Low = optionalFloat(record, cols, "low")
		bar.Volume = optionalFloat(record, cols, "volume")

		bars = append(bars, bar)
	}

	return bars, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	var lastErr error

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC(), nil
		}

		lastErr = err
	}

	return time.Time{}, lastErr
}

func optionalFloat(record []string, cols map[string]int, name string) float64 {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return 0
	}

	v, err := strconv.ParseFloat(record[idx], 64)
	if err != nil {
		return 0
	}

	return v
}
