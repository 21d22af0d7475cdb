// Package report writes backtest run artifacts: the YAML stats document, the
// equity curve CSV, and the per-ticker trade workbook.
package report

import (
	"os"
	"path/filepath"

	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/quantx-lab/quantx/internal/backtest"
	"github.com/quantx-lab/quantx/internal/logger"
	"github.com/quantx-lab/quantx/internal/metrics"
	"github.com/quantx-lab/quantx/internal/types"
	"github.com/quantx-lab/quantx/pkg/errors"
)

const (
	statsFileName    = "stats.yaml"
	equityFileName   = "equity_curve.csv"
	workbookFileName = "backtest.xlsx"
)

// WriteRequest collects everything needed to render one run's artifacts.
type WriteRequest struct {
	Result         *backtest.Result
	StrategyName   string
	InitialCapital float64
	ConfigVersion  string
	OutputDir      string
	// ExcelReport enables the per-ticker trade workbook.
	ExcelReport bool
}

// Reporter renders backtest results to files.
type Reporter struct {
	log *logger.Logger
}

// NewReporter creates a reporter logging through the given logger.
func NewReporter(log *logger.Logger) *Reporter {
	return &Reporter{log: log}
}

// Write renders all artifacts into the output directory and returns the stats
// document that was written.
func (r *Reporter) Write(req WriteRequest) (*types.BacktestStats, error) {
	if err := os.MkdirAll(req.OutputDir, 0755); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeBacktestNoResultsDir, err, "cannot create output directory %s", req.OutputDir)
	}

	equityPath := filepath.Join(req.OutputDir, equityFileName)
	if err := WriteEquityCSV(equityPath, req.Result.EquityCurve); err != nil {
		return nil, err
	}

	workbookPath := ""

	if req.ExcelReport {
		workbookPath = filepath.Join(req.OutputDir, workbookFileName)
		if err := WriteWorkbook(workbookPath, req.Result); err != nil {
			return nil, err
		}
	}

	stats := buildStats(req, equityPath, workbookPath)

	statsPath := filepath.Join(req.OutputDir, statsFileName)
	if err := types.WriteBacktestStats(statsPath, stats); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeReportWriteFailed, err, "cannot write stats file %s", statsPath)
	}

	r.log.Info("artifacts written",
		zap.String("run_id", req.Result.RunID),
		zap.String("dir", req.OutputDir),
		zap.Bool("workbook", req.ExcelReport),
	)

	return &stats, nil
}

// buildStats assembles the serializable run summary from the engine result.
func buildStats(req WriteRequest, equityPath, workbookPath string) types.BacktestStats {
	excluded := req.Result.Excluded
	if excluded == nil {
		excluded = []string{}
	}

	return types.BacktestStats{
		ID:              req.Result.RunID,
		Timestamp:       req.Result.Timestamp,
		Strategy:        req.StrategyName,
		InitialCapital:  req.InitialCapital,
		ExcludedTickers: excluded,
		Portfolio:       portfolioSummary(req.Result.Summary),
		Tickers:         req.Result.TickerStats,
		EquityCurvePath: equityPath,
		WorkbookPath:    workbookPath,
		ConfigVersion:   req.ConfigVersion,
	}
}

// portfolioSummary converts the computed metrics into the nullable serialized
// form: undefined statistics become null, never zero.
func portfolioSummary(s metrics.Summary) types.PortfolioSummary {
	return types.PortfolioSummary{
		TotalReturn:          s.TotalReturn,
		AnnualizedReturn:     s.AnnualizedReturn,
		AnnualizedVolatility: optionalPtr(s.AnnualizedVolatility),
		Sharpe:               optionalPtr(s.Sharpe),
		CAGR:                 optionalPtr(s.CAGR),
		Sortino:              optionalPtr(s.Sortino),
		Calmar:               optionalPtr(s.Calmar),
		Omega:                optionalPtr(s.Omega),
		MaxDrawdown:          s.MaxDrawdown,
	}
}

func optionalPtr(o optional.Option[float64]) *float64 {
	if o.IsNone() {
		return nil
	}

	v := o.Unwrap()

	return &v
}
