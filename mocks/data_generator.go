// Package mocks holds test doubles: a deterministic daily bar generator and
// generated interface mocks.
package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/quantx-lab/quantx/internal/types"
)

// DataGenerator generates realistic daily bars for testing and benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how daily bars are generated.
type GeneratorConfig struct {
	// Ticker is the instrument symbol (e.g., "AAPL", "SPY")
	Ticker string
	// StartTime is the beginning of the data series
	StartTime time.Time
	// Count is the number of daily bars to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% typical daily volatility)
	Volatility float64
	// Trend is the total drift over the series (-0.5 to 0.5 for bearish to bullish)
	Trend float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Ticker:         "TEST",
		StartTime:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Count:          252,
		InitialPrice:   100.0,
		Volatility:     0.015, // 1.5% per day
		Trend:          0.0,   // neutral
		VolumeBase:     1000000,
		VolumeVariance: 0.3,
	}
}

// Generate creates a slice of daily bars based on the configuration.
// Prices follow a geometric Brownian motion model; adj_close equals close
// since generated data carries no corporate actions.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.Bar {
	bars := make([]types.Bar, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.StartTime

	for i := 0; i < config.Count; i++ {
		open := currentPrice

		// Box-Muller transform for a normally distributed shock
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		priceChange := config.Volatility * z
		drift := config.Trend / float64(config.Count)

		closePrice := open * (1 + priceChange + drift)
		if closePrice <= 0 {
			closePrice = open * 0.99 // Prevent negative prices
		}

		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, closePrice) + highExtension

		low := math.Min(open, closePrice) - lowExtension
		if low <= 0 {
			low = math.Min(open, closePrice) * 0.99
		}

		volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance

		volume := config.VolumeBase * volumeVariation
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		bars[i] = types.Bar{
			Time:     currentTime,
			Open:     roundToDecimals(open, 4),
			High:     roundToDecimals(high, 4),
			Low:      roundToDecimals(low, 4),
			Close:    roundToDecimals(closePrice, 4),
			AdjClose: roundToDecimals(closePrice, 4),
			Volume:   roundToDecimals(volume, 2),
		}

		currentPrice = closePrice
		currentTime = currentTime.AddDate(0, 0, 1)
	}

	return bars
}

// roundToDecimals rounds a float to the specified number of decimal places.
func roundToDecimals(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))

	return math.Round(value*factor) / factor
}
