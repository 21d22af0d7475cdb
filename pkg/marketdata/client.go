// Package marketdata downloads daily bars from market data providers into the
// DuckDB bar store read by the backtest engine.
package marketdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/quantx-lab/quantx/pkg/marketdata/provider"
	"github.com/quantx-lab/quantx/pkg/marketdata/writer"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType ProviderType `validate:"required,oneof=polygon binance"`
	// DatabasePath is the DuckDB file downloaded bars are stored in.
	DatabasePath  string `validate:"required"`
	PolygonApiKey string `validate:"required_if=ProviderType polygon"`
	// ParquetExport additionally exports the bar table as a parquet file
	// next to the database.
	ParquetExport bool
}

// DownloadParams holds the parameters for one daily-bar download request.
type DownloadParams struct {
	Ticker    string    `validate:"required"`
	StartDate time.Time `validate:"required"`
	EndDate   time.Time `validate:"required,gtfield=StartDate"`
}

// Client downloads daily bars from a provider and stores them via a writer.
type Client struct {
	provider   provider.Provider
	config     ClientConfig
	validate   *validator.Validate
	onProgress provider.OnDownloadProgress
}

// NewClient creates a new market data client with the given configuration.
func NewClient(config ClientConfig, onProgress provider.OnDownloadProgress) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid client configuration: %w", err)
	}

	marketProvider, err := provider.NewProvider(provider.ProviderType(config.ProviderType), config.PolygonApiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	return &Client{
		provider:   marketProvider,
		config:     config,
		validate:   validate,
		onProgress: onProgress,
	}, nil
}

// newClientWithProvider wires a pre-built provider, for tests.
func newClientWithProvider(config ClientConfig, p provider.Provider, onProgress provider.OnDownloadProgress) *Client {
	return &Client{
		provider:   p,
		config:     config,
		validate:   validator.New(),
		onProgress: onProgress,
	}
}

// Download fetches daily bars for one ticker into the bar store. The context
// can be used to cancel the download operation.
func (c *Client) Download(ctx context.Context, params DownloadParams) error {
	if err := c.validate.Struct(params); err != nil {
		return fmt.Errorf("invalid download parameters: %w", err)
	}

	dir := filepath.Dir(c.config.DatabasePath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory %s: %w", dir, err)
		}
	}

	parquetPath := ""
	if c.config.ParquetExport {
		parquetPath = parquetPathFor(c.config.DatabasePath, params)
	}

	barWriter := writer.NewDuckDBWriter(c.config.DatabasePath, parquetPath)

	c.provider.ConfigWriter(barWriter)

	_, err := c.provider.Download(ctx, params.Ticker, params.StartDate, params.EndDate, c.onProgress)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	return nil
}

// parquetPathFor names the export TICKER_START_END.parquet next to the database.
func parquetPathFor(dbPath string, params DownloadParams) string {
	name := fmt.Sprintf("%s_%s_%s.parquet",
		params.Ticker,
		params.StartDate.Format("2006-01-02"),
		params.EndDate.Format("2006-01-02"))

	return filepath.Join(filepath.Dir(dbPath), name)
}
