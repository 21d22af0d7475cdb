package indicator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/quantx-lab/quantx/internal/types"
)

type ATRTestSuite struct {
	suite.Suite
}

func TestATRSuite(t *testing.T) {
	suite.Run(t, new(ATRTestSuite))
}

func (suite *ATRTestSuite) bars() []types.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	return []types.Bar{
		{Time: start, High: 10, Low: 8, AdjClose: 9},
		{Time: start.AddDate(0, 0, 1), High: 11, Low: 9, AdjClose: 10},
		{Time: start.AddDate(0, 0, 2), High: 12, Low: 10, AdjClose: 11},
	}
}

func (suite *ATRTestSuite) TestATRWindowTwo() {
	// true ranges: 2 (first bar high-low), 2, 2
	series, err := ATR(suite.bars(), 2)
	suite.NoError(err)
	suite.Equal(1, series.Warmup)

	suite.InDelta(2.0, series.Values[1], 1e-9)
	suite.InDelta(2.0, series.Values[2], 1e-9)
}

func (suite *ATRTestSuite) TestATRGapUp() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := []types.Bar{
		{Time: start, High: 10, Low: 9, AdjClose: 9.5},
		// Gap above the prior close: true range uses high minus previous close
		{Time: start.AddDate(0, 0, 1), High: 15, Low: 14, AdjClose: 14.5},
	}

	series, err := ATR(bars, 1)
	suite.NoError(err)
	suite.Equal(0, series.Warmup)
	suite.InDelta(5.5, series.Values[1], 1e-9)
}

func (suite *ATRTestSuite) TestATRInvalidWindow() {
	_, err := ATR(suite.bars(), 0)
	suite.Error(err)
}
