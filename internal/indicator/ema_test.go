package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type EMATestSuite struct {
	suite.Suite
}

func TestEMASuite(t *testing.T) {
	suite.Run(t, new(EMATestSuite))
}

func (suite *EMATestSuite) TestEMASpanThree() {
	// alpha = 2/(3+1) = 0.5 seeded with the first value, pandas
	// ewm(span=3, adjust=False) parity
	series, err := EMA([]float64{1, 2, 3, 4, 5}, 3)
	suite.NoError(err)
	suite.Equal(0, series.Warmup)

	expected := []float64{1, 1.5, 2.25, 3.125, 4.0625}
	suite.Len(series.Values, len(expected))

	for i, want := range expected {
		suite.InDelta(want, series.Values[i], 1e-9)
	}
}

func (suite *EMATestSuite) TestEMASpanOneEqualsInput() {
	prices := []float64{3, 1, 4, 1, 5}

	series, err := EMA(prices, 1)
	suite.NoError(err)

	for i, p := range prices {
		suite.InDelta(p, series.Values[i], 1e-9)
	}
}

func (suite *EMATestSuite) TestEMAEmptyInput() {
	series, err := EMA(nil, 10)
	suite.NoError(err)
	suite.Empty(series.Values)
}

func (suite *EMATestSuite) TestEMAInvalidSpan() {
	_, err := EMA([]float64{1, 2}, 0)
	suite.Error(err)
}
