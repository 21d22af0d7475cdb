package mocks

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDeterministic(t *testing.T) {
	config := DefaultConfig()

	first := NewDataGenerator(42).Generate(config)
	second := NewDataGenerator(42).Generate(config)

	require.Equal(t, first, second)
}

func TestGenerateBarInvariants(t *testing.T) {
	config := DefaultConfig()
	config.Count = 500

	bars := NewDataGenerator(7).Generate(config)
	require.Len(t, bars, config.Count)

	for i, bar := range bars {
		assert.Greater(t, bar.Close, 0.0)
		assert.Greater(t, bar.Low, 0.0)
		assert.GreaterOrEqual(t, bar.High, math.Max(bar.Open, bar.Close))
		assert.LessOrEqual(t, bar.Low, math.Min(bar.Open, bar.Close))
		assert.Equal(t, bar.Close, bar.AdjClose)
		assert.Greater(t, bar.Volume, 0.0)

		if i > 0 {
			assert.True(t, bar.Time.After(bars[i-1].Time))
		}
	}
}

func TestGenerateTrendBias(t *testing.T) {
	config := DefaultConfig()
	config.Count = 2000
	config.Volatility = 0.001
	config.Trend = 0.5

	bars := NewDataGenerator(1).Generate(config)

	assert.Greater(t, bars[len(bars)-1].Close, bars[0].Close)
}
