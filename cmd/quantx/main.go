// Command quantx runs trading strategy backtests over daily bars.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/quantx-lab/quantx/internal/backtest"
	"github.com/quantx-lab/quantx/internal/config"
	"github.com/quantx-lab/quantx/internal/datasource"
	"github.com/quantx-lab/quantx/internal/logger"
	"github.com/quantx-lab/quantx/internal/report"
	"github.com/quantx-lab/quantx/internal/strategy"
	"github.com/quantx-lab/quantx/internal/version"
	"github.com/quantx-lab/quantx/pkg/marketdata"
)

func main() {
	cmd := &cli.Command{
		Name:    "quantx",
		Usage:   "Multi-asset trading strategy backtesting engine",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			backtestCommand(),
			downloadCommand(),
			schemaCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func backtestCommand() *cli.Command {
	return &cli.Command{
		Name:  "backtest",
		Usage: "Run a backtest from a YAML config file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Path to the backtest config file",
				Required: true,
			},
		},
		Action: backtestAction,
	}
}

func backtestAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	log, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	defer log.Sync()

	source, err := openBarSource(cfg, log)
	if err != nil {
		return err
	}

	defer source.Close()

	strat, err := strategy.FromConfig(cfg.Strategy)
	if err != nil {
		return err
	}

	engine := backtest.NewEngine(source, log)

	result, err := engine.Run(backtest.RunParams{
		Tickers:  cfg.Tickers,
		Features: cfg.FeatureConfig(),
		Strategy: strat,
		Simulator: backtest.SimulatorConfig{
			Weights:        cfg.Portfolio.Weights,
			InitialCapital: cfg.Portfolio.InitialCapital,
			Slippage:       cfg.Portfolio.Slippage,
			Commission:     cfg.Portfolio.Commission,
		},
	})
	if err != nil {
		return err
	}

	reporter := report.NewReporter(log)

	stats, err := reporter.Write(report.WriteRequest{
		Result:         result,
		StrategyName:   string(strat.Name()),
		InitialCapital: cfg.Portfolio.InitialCapital,
		ConfigVersion:  cfg.Version,
		OutputDir:      cfg.Output.Dir,
		ExcelReport:    cfg.Output.ExcelReport,
	})
	if err != nil {
		return err
	}

	log.Info("backtest finished",
		zap.String("run_id", stats.ID),
		zap.Float64("total_return", stats.Portfolio.TotalReturn),
		zap.Float64("max_drawdown", stats.Portfolio.MaxDrawdown),
		zap.Strings("excluded", stats.ExcludedTickers),
		zap.String("equity_curve", stats.EquityCurvePath),
	)

	return nil
}

func openBarSource(cfg *config.Config, log *logger.Logger) (datasource.BarSource, error) {
	switch cfg.Data.Format {
	case "duckdb":
		return datasource.NewDuckDBSource(cfg.Data.Path, log)
	default:
		return datasource.NewCSVSource(cfg.Data.Path, log)
	}
}

func downloadCommand() *cli.Command {
	return &cli.Command{
		Name:  "download",
		Usage: "Download historical daily bars into the bar store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "ticker",
				Aliases:  []string{"t"},
				Usage:    "Ticker symbol to download",
				Required: true,
			},
			&cli.TimestampFlag{
				Name:    "start",
				Aliases: []string{"s"},
				Usage:   "Start date in `YYYY-MM-DD` format",
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
				Required: true,
			},
			&cli.TimestampFlag{
				Name:    "end",
				Aliases: []string{"e"},
				Usage:   "End date in `YYYY-MM-DD` format. Defaults to today.",
				Value:   time.Now(),
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   fmt.Sprintf("Data provider to use (%s or %s)", marketdata.ProviderPolygon, marketdata.ProviderBinance),
				Value:   string(marketdata.ProviderPolygon),
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to the DuckDB bar store",
				Value:   "data/bars.db",
			},
			&cli.BoolFlag{
				Name:  "parquet",
				Usage: "Also export the downloaded range as a parquet file",
			},
		},
		Action: downloadAction,
	}
}

func downloadAction(ctx context.Context, cmd *cli.Command) error {
	clientConfig := marketdata.ClientConfig{
		ProviderType:  marketdata.ProviderType(cmd.String("provider")),
		DatabasePath:  cmd.String("data"),
		PolygonApiKey: os.Getenv("POLYGON_API_KEY"),
		ParquetExport: cmd.Bool("parquet"),
	}

	client, err := marketdata.NewClient(clientConfig, nil)
	if err != nil {
		return fmt.Errorf("failed to create market data client: %w", err)
	}

	params := marketdata.DownloadParams{
		Ticker:    cmd.String("ticker"),
		StartDate: cmd.Timestamp("start"),
		EndDate:   cmd.Timestamp("end"),
	}

	log.Printf("Starting download for %s from %s to %s using %s provider...",
		params.Ticker,
		params.StartDate.Format("2006-01-02"),
		params.EndDate.Format("2006-01-02"),
		clientConfig.ProviderType)

	if err := client.Download(ctx, params); err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	log.Println("Download completed successfully.")

	return nil
}

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the JSON schema of the backtest config file",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			schema, err := config.JSONSchema()
			if err != nil {
				return err
			}

			fmt.Println(schema)

			return nil
		},
	}
}
