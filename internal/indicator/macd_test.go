package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type MACDTestSuite struct {
	suite.Suite
}

func TestMACDSuite(t *testing.T) {
	suite.Run(t, new(MACDTestSuite))
}

func (suite *MACDTestSuite) TestMACDConstantSeries() {
	prices := []float64{5, 5, 5, 5, 5, 5}

	result, err := MACD(prices, 12, 26, 9)
	suite.NoError(err)

	for i := range prices {
		suite.InDelta(0.0, result.Line.Values[i], 1e-12)
		suite.InDelta(0.0, result.Signal.Values[i], 1e-12)
		suite.InDelta(0.0, result.Hist.Values[i], 1e-12)
	}
}

func (suite *MACDTestSuite) TestMACDLineIsEMADifference() {
	prices := []float64{1, 2, 3, 4, 5, 6, 7, 8}

	result, err := MACD(prices, 2, 4, 3)
	suite.NoError(err)

	emaFast, err := EMA(prices, 2)
	suite.NoError(err)
	emaSlow, err := EMA(prices, 4)
	suite.NoError(err)

	for i := range prices {
		suite.InDelta(emaFast.Values[i]-emaSlow.Values[i], result.Line.Values[i], 1e-9)
		suite.InDelta(result.Line.Values[i]-result.Signal.Values[i], result.Hist.Values[i], 1e-9)
	}
}

func (suite *MACDTestSuite) TestMACDUptrendPositive() {
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}

	result, err := MACD(prices, 12, 26, 9)
	suite.NoError(err)

	// In a steady uptrend the fast EMA sits above the slow EMA
	suite.Greater(result.Line.Values[len(prices)-1], 0.0)
}

func (suite *MACDTestSuite) TestMACDInvalidPeriods() {
	_, err := MACD([]float64{1, 2}, 0, 26, 9)
	suite.Error(err)
}
