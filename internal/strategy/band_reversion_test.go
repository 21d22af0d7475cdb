package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/quantx-lab/quantx/internal/types"
	"github.com/quantx-lab/quantx/pkg/errors"
)

type BandReversionTestSuite struct {
	suite.Suite
}

func TestBandReversionSuite(t *testing.T) {
	suite.Run(t, new(BandReversionTestSuite))
}

func (suite *BandReversionTestSuite) table(closes []float64) types.FeatureTable {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	table := types.FeatureTable{Ticker: "TEST", HasBands: true}
	for i, c := range closes {
		table.Rows = append(table.Rows, types.FeatureRow{
			Time:    start.AddDate(0, 0, i),
			Close:   c,
			BBUpper: 110,
			BBLower: 90,
		})
	}

	return table
}

func (suite *BandReversionTestSuite) values(signals types.SignalSeries) []types.Signal {
	out := make([]types.Signal, 0, len(signals))
	for _, s := range signals {
		out = append(out, s.Value)
	}

	return out
}

func (suite *BandReversionTestSuite) TestEnterBelowLowerExitAboveMidpoint() {
	// Bands 90/110: midpoint 100
	signals, err := NewBandReversion().Generate(suite.table([]float64{95, 85, 98, 101}))
	suite.NoError(err)
	suite.Equal([]types.Signal{0, 1, 1, 0}, suite.values(signals))
}

func (suite *BandReversionTestSuite) TestEntryOnFirstRow() {
	signals, err := NewBandReversion().Generate(suite.table([]float64{85, 101}))
	suite.NoError(err)
	suite.Equal([]types.Signal{1, 0}, suite.values(signals))
}

func (suite *BandReversionTestSuite) TestHoldsBetweenLowerAndMidpoint() {
	signals, err := NewBandReversion().Generate(suite.table([]float64{85, 95, 99, 100}))
	suite.NoError(err)
	// Close equal to the midpoint does not exit; it must rise above it
	suite.Equal([]types.Signal{1, 1, 1, 1}, suite.values(signals))
}

func (suite *BandReversionTestSuite) TestRequiresBands() {
	table := suite.table([]float64{85, 101})
	table.HasBands = false

	_, err := NewBandReversion().Generate(table)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeFeatureNotEnabled))
}

func (suite *BandReversionTestSuite) TestFewerThanTwoRowsAllFlat() {
	signals, err := NewBandReversion().Generate(suite.table([]float64{85}))
	suite.NoError(err)
	suite.Equal([]types.Signal{0}, suite.values(signals))
}
