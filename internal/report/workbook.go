package report

import (
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/quantx-lab/quantx/internal/backtest"
	"github.com/quantx-lab/quantx/internal/types"
	"github.com/quantx-lab/quantx/pkg/errors"
)

const equitySheetName = "portfolio_equity"

var tradeHeader = []any{
	"id", "entry_date", "entry_price", "shares",
	"exit_date", "exit_price", "proceeds", "pnl", "holding_days",
}

// WriteWorkbook writes the xlsx workbook: one sheet per ticker's trades plus
// one sheet for the portfolio equity curve. Tickers with no trades still get
// a sheet with just the header row.
func WriteWorkbook(path string, result *backtest.Result) error {
	f := excelize.NewFile()

	defer f.Close()

	tickers := make([]string, 0, len(result.Trades))
	for t := range result.Trades {
		tickers = append(tickers, t)
	}

	sort.Strings(tickers)

	for _, ticker := range tickers {
		if err := writeTradeSheet(f, ticker, result.Trades[ticker]); err != nil {
			return err
		}
	}

	if err := writeEquitySheet(f, result.EquityCurve); err != nil {
		return err
	}

	// Drop the default sheet created by NewFile.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "cannot delete default sheet", err)
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(errors.ErrCodeReportWriteFailed, err, "cannot save workbook to %s", path)
	}

	return nil
}

func writeTradeSheet(f *excelize.File, ticker string, trades []types.TradeRecord) error {
	if _, err := f.NewSheet(ticker); err != nil {
		return errors.Wrapf(errors.ErrCodeReportWriteFailed, err, "cannot create sheet for %s", ticker)
	}

	if err := f.SetSheetRow(ticker, "A1", &tradeHeader); err != nil {
		return errors.Wrapf(errors.ErrCodeReportWriteFailed, err, "cannot write header for %s", ticker)
	}

	for i := range trades {
		trade := &trades[i]

		row := []any{
			trade.ID,
			trade.EntryTime.Format("2006-01-02"),
			trade.EntryPrice,
			trade.Shares,
		}

		if trade.IsClosed() {
			row = append(row,
				trade.ExitTime.TakeOr(time.Time{}).Format("2006-01-02"),
				trade.ExitPrice.TakeOr(0),
				trade.Proceeds.TakeOr(0),
				trade.PnL().TakeOr(0),
				trade.HoldingDays().TakeOr(0),
			)
		} else {
			// Open trade: exit fields stay blank.
			row = append(row, nil, nil, nil, nil, nil)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(errors.ErrCodeReportWriteFailed, "cannot compute cell name", err)
		}

		if err := f.SetSheetRow(ticker, cell, &row); err != nil {
			return errors.Wrapf(errors.ErrCodeReportWriteFailed, err, "cannot write trade row for %s", ticker)
		}
	}

	return nil
}

func writeEquitySheet(f *excelize.File, curve types.EquityCurve) error {
	if _, err := f.NewSheet(equitySheetName); err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "cannot create equity sheet", err)
	}

	header := []any{"date", "equity"}
	if err := f.SetSheetRow(equitySheetName, "A1", &header); err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "cannot write equity header", err)
	}

	for i, point := range curve {
		row := []any{point.Time.Format("2006-01-02"), point.Value}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(errors.ErrCodeReportWriteFailed, "cannot compute cell name", err)
		}

		if err := f.SetSheetRow(equitySheetName, cell, &row); err != nil {
			return errors.Wrap(errors.ErrCodeReportWriteFailed, "cannot write equity row", err)
		}
	}

	return nil
}
