package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/quantx-lab/quantx/internal/types"
)

type MetricsTestSuite struct {
	suite.Suite
	start time.Time
}

func TestMetricsSuite(t *testing.T) {
	suite.Run(t, new(MetricsTestSuite))
}

func (suite *MetricsTestSuite) SetupTest() {
	suite.start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (suite *MetricsTestSuite) curve(values ...float64) types.EquityCurve {
	curve := make(types.EquityCurve, 0, len(values))
	for i, v := range values {
		curve = append(curve, types.EquityPoint{Time: suite.start.AddDate(0, 0, i), Value: v})
	}

	return curve
}

func (suite *MetricsTestSuite) TestEmptyCurve() {
	_, err := Compute(nil)
	suite.Error(err)
}

func (suite *MetricsTestSuite) TestConstantCurve() {
	summary, err := Compute(suite.curve(1000, 1000, 1000, 1000))
	suite.NoError(err)

	suite.InDelta(0.0, summary.TotalReturn, 1e-12)
	suite.InDelta(0.0, summary.AnnualizedReturn, 1e-12)
	suite.InDelta(0.0, summary.MaxDrawdown, 1e-12)

	vol, err := summary.AnnualizedVolatility.Take()
	suite.NoError(err)
	suite.InDelta(0.0, vol, 1e-12)

	// Zero volatility: Sharpe is explicitly undefined, not zero
	suite.True(summary.Sharpe.IsNone())
	// Zero drawdown: Calmar undefined
	suite.True(summary.Calmar.IsNone())
	// No negative days: Sortino and Omega undefined
	suite.True(summary.Sortino.IsNone())
	suite.True(summary.Omega.IsNone())
}

func (suite *MetricsTestSuite) TestSinglePointCurve() {
	summary, err := Compute(suite.curve(1000))
	suite.NoError(err)

	suite.InDelta(0.0, summary.TotalReturn, 1e-12)
	suite.InDelta(0.0, summary.AnnualizedReturn, 1e-12)
	suite.True(summary.AnnualizedVolatility.IsNone())
	suite.True(summary.Sharpe.IsNone())
	suite.True(summary.CAGR.IsNone())
}

func (suite *MetricsTestSuite) TestTotalAndAnnualizedReturn() {
	summary, err := Compute(suite.curve(1000, 1100, 1210))
	suite.NoError(err)

	suite.InDelta(0.21, summary.TotalReturn, 1e-9)
	suite.InDelta(math.Pow(1.21, 252.0/3.0)-1, summary.AnnualizedReturn, 1e-6)

	suite.True(summary.Sharpe.IsSome())
	suite.Greater(summary.Sharpe.TakeOr(0), 0.0)
}

func (suite *MetricsTestSuite) TestMaxDrawdown() {
	summary, err := Compute(suite.curve(1000, 1200, 900, 1100))
	suite.NoError(err)
	suite.InDelta(0.25, summary.MaxDrawdown, 1e-9)
}

func (suite *MetricsTestSuite) TestSortinoAndOmega() {
	// returns: -0.1, +0.1, -0.15
	curve := suite.curve(1000, 900, 990, 841.5)

	summary, err := Compute(curve)
	suite.NoError(err)

	meanReturn := (-0.1 + 0.1 - 0.15) / 3
	downsideStd := math.Sqrt((0.025*0.025 + 0.025*0.025) / 1)

	sortino, err := summary.Sortino.Take()
	suite.NoError(err)
	suite.InDelta(meanReturn/downsideStd*math.Sqrt(252), sortino, 1e-6)

	omega, err := summary.Omega.Take()
	suite.NoError(err)
	suite.InDelta(0.1/0.25, omega, 1e-6)
}

func (suite *MetricsTestSuite) TestSortinoUndefinedWithOneLosingDay() {
	// A single negative return has no defined downside deviation
	summary, err := Compute(suite.curve(1000, 900, 990))
	suite.NoError(err)
	suite.True(summary.Sortino.IsNone())
}

func (suite *MetricsTestSuite) TestCAGR() {
	curve := types.EquityCurve{
		{Time: suite.start, Value: 1000},
		{Time: suite.start.AddDate(0, 0, 365), Value: 1100},
		{Time: suite.start.AddDate(0, 0, 730), Value: 1210},
	}

	summary, err := Compute(curve)
	suite.NoError(err)

	years := 730.0 / 365.25

	cagr, err := summary.CAGR.Take()
	suite.NoError(err)
	suite.InDelta(math.Pow(1.21, 1/years)-1, cagr, 1e-9)

	// Drawdown-free growth leaves Calmar undefined
	suite.True(summary.Calmar.IsNone())
}

func (suite *MetricsTestSuite) TestCalmar() {
	curve := types.EquityCurve{
		{Time: suite.start, Value: 1000},
		{Time: suite.start.AddDate(0, 0, 365), Value: 800},
		{Time: suite.start.AddDate(0, 0, 730), Value: 1210},
	}

	summary, err := Compute(curve)
	suite.NoError(err)

	cagr := summary.CAGR.TakeOr(0)

	calmarRatio, err := summary.Calmar.Take()
	suite.NoError(err)
	suite.InDelta(cagr/0.2, calmarRatio, 1e-9)
}
