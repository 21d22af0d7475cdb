package provider

import (
	"context"
	"fmt"
	"log"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/schollz/progressbar/v3"

	"github.com/quantx-lab/quantx/internal/types"
	"github.com/quantx-lab/quantx/pkg/marketdata/writer"
)

type PolygonClient struct {
	client *polygon.Client
	writer writer.BarWriter
}

func NewPolygonClient(apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("apiKey is required")
	}

	client := polygon.New(apiKey)

	return &PolygonClient{
		client: client,
		writer: nil,
	}, nil
}

func (c *PolygonClient) ConfigWriter(w writer.BarWriter) {
	c.writer = w
}

// Download fetches split and dividend adjusted daily aggregates. Polygon
// returns already-adjusted prices, so close and adj_close carry the same value.
func (c *PolygonClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, onProgress OnDownloadProgress) (path string, err error) {
	if c.writer == nil {
		return "", fmt.Errorf("no writer configured for PolygonClient. Call ConfigWriter first")
	}

	err = c.writer.Initialize()
	if err != nil {
		return "", fmt.Errorf("failed to initialize writer: %w", err)
	}

	defer func() {
		if cerr := c.writer.Close(); cerr != nil {
			if err == nil {
				err = fmt.Errorf("error closing writer: %w", cerr)
			} else {
				log.Printf("Error closing writer after another error: %v", cerr)
			}
		}
	}()

	totalDays := int(endDate.Sub(startDate).Hours()/24) + 1

	bar := progressbar.NewOptions(totalDays, progressbar.OptionSetDescription(fmt.Sprintf("Downloading %s", ticker)), progressbar.OptionShowCount())

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     ticker,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(startDate),
		To:         models.Millis(endDate),
	}.WithLimit(50000).WithAdjusted(true)

	iter := c.client.ListAggs(ctx, params)

	processedCount := 0

	for iter.Next() {
		agg := iter.Item()

		barTime := time.Time(agg.Timestamp).UTC()

		err = c.writer.Write(ticker, types.Bar{
			Time:     barTime,
			Open:     agg.Open,
			High:     agg.High,
			Low:      agg.Low,
			Close:    agg.Close,
			AdjClose: agg.Close,
			Volume:   agg.Volume,
		})
		if err != nil {
			return "", fmt.Errorf("failed to write bar: %w", err)
		}

		processedCount++

		daysElapsed := int(barTime.Sub(startDate).Hours() / 24)
		bar.Set(daysElapsed)

		if onProgress != nil {
			onProgress(float64(daysElapsed), float64(totalDays), fmt.Sprintf("Downloading %s", ticker))
		}
	}

	if iter.Err() != nil {
		return "", fmt.Errorf("error iterating polygon aggregates: %w", iter.Err())
	}

	bar.Finish()
	log.Printf("Finished downloading %d daily bars for %s.", processedCount, ticker)

	outputPath, err := c.writer.Finalize()
	if err != nil {
		return "", fmt.Errorf("failed to finalize writer: %w", err)
	}

	return outputPath, nil
}
