// Package provider implements the market data download backends.
package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/quantx-lab/quantx/pkg/marketdata/writer"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
)

// OnDownloadProgress is called as a download advances. current and total are
// provider-specific units (days or milliseconds).
type OnDownloadProgress = func(current float64, total float64, message string)

// Provider downloads daily bars for one ticker into the configured writer.
type Provider interface {
	// ConfigWriter configures the writer bars are persisted through.
	ConfigWriter(writer writer.BarWriter)
	// Download fetches daily bars for the ticker over the date range and
	// writes them via the configured writer. The context cancels the
	// download. Returns the writer's output path.
	Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, onProgress OnDownloadProgress) (path string, err error)
}

// NewProvider creates a provider of the given type. Polygon requires an API
// key, Binance public market data does not.
func NewProvider(providerType ProviderType, apiKey string) (Provider, error) {
	switch providerType {
	case ProviderPolygon:
		return NewPolygonClient(apiKey)
	case ProviderBinance:
		return NewBinanceClient()
	default:
		return nil, fmt.Errorf("unsupported market data provider: %s", providerType)
	}
}
