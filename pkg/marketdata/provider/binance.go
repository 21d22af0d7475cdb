package provider

import (
	"context"
	"fmt"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"

	"github.com/quantx-lab/quantx/internal/types"
	"github.com/quantx-lab/quantx/pkg/marketdata/writer"
)

// binancePageSize is the maximum number of klines Binance returns per request.
const binancePageSize = 500

type BinanceClient struct {
	client *binance.Client
	writer writer.BarWriter
}

// NewBinanceClient creates a Binance provider. Public market data does not
// require API credentials.
func NewBinanceClient() (Provider, error) {
	client := binance.NewClient("", "")

	return &BinanceClient{
		client: client,
		writer: nil,
	}, nil
}

func (c *BinanceClient) ConfigWriter(w writer.BarWriter) {
	c.writer = w
}

// Download fetches daily klines for the ticker over the date range, paging
// through the Binance API limit of 500 klines per request. Crypto prices have
// no corporate actions, so close and adj_close carry the same value.
func (c *BinanceClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, onProgress OnDownloadProgress) (path string, err error) {
	if c.writer == nil {
		return "", fmt.Errorf("writer is not configured")
	}

	err = c.writer.Initialize()
	if err != nil {
		return "", fmt.Errorf("failed to initialize writer: %w", err)
	}

	startTimeMillis := startDate.UnixMilli()
	endTimeMillis := endDate.UnixMilli()

	currentStartTime := startTimeMillis

	for {
		klines, err := c.client.NewKlinesService().
			Symbol(ticker).
			Interval("1d").
			StartTime(currentStartTime).
			EndTime(endTimeMillis).
			Do(ctx)
		if err != nil {
			c.writer.Close()

			return "", fmt.Errorf("failed to fetch klines from Binance: %w", err)
		}

		if onProgress != nil {
			onProgress(float64(currentStartTime-startTimeMillis), float64(endTimeMillis-startTimeMillis),
				fmt.Sprintf("Downloading %s klines from Binance", ticker))
		}

		if err := writeKlines(c.writer, ticker, klines); err != nil {
			c.writer.Close()

			return "", fmt.Errorf("failed to process klines: %w", err)
		}

		// Last page: short page means the range is exhausted.
		if len(klines) < binancePageSize {
			break
		}

		// Advance past the last kline's close time to avoid duplicates.
		lastKline := klines[len(klines)-1]
		currentStartTime = lastKline.CloseTime + 1

		if currentStartTime >= endTimeMillis {
			break
		}
	}

	outputPath, err := c.writer.Finalize()
	if err != nil {
		return "", fmt.Errorf("failed to finalize writer: %w", err)
	}

	if err := c.writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	return outputPath, nil
}

// writeKlines converts Binance klines to daily bars and persists them.
func writeKlines(w writer.BarWriter, ticker string, klines []*binance.Kline) error {
	for _, k := range klines {
		open, _ := strconv.ParseFloat(k.Open, 64)
		high, _ := strconv.ParseFloat(k.High, 64)
		low, _ := strconv.ParseFloat(k.Low, 64)
		closePrice, _ := strconv.ParseFloat(k.Close, 64)
		volume, _ := strconv.ParseFloat(k.Volume, 64)

		bar := types.Bar{
			Time:     time.UnixMilli(k.OpenTime).UTC(),
			Open:     open,
			High:     high,
			Low:      low,
			Close:    closePrice,
			AdjClose: closePrice,
			Volume:   volume,
		}

		if err := w.Write(ticker, bar); err != nil {
			return fmt.Errorf("failed to write bar: %w", err)
		}
	}

	return nil
}
