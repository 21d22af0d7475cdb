// Package metrics computes return, risk, and risk-adjusted performance
// statistics from an equity curve. Statistics that are legitimately undefined
// (zero volatility, zero drawdown, no losing days) are represented as an
// explicit optional none, never coerced to zero and never raised as an error.
package metrics

import (
	"math"

	"github.com/moznion/go-optional"

	"github.com/quantx-lab/quantx/internal/types"
	"github.com/quantx-lab/quantx/pkg/errors"
)

const (
	tradingDaysPerYear  = 252
	calendarDaysPerYear = 365.25
)

// Summary holds the portfolio-level statistics for one equity curve.
type Summary struct {
	TotalReturn          float64
	AnnualizedReturn     float64
	AnnualizedVolatility optional.Option[float64]
	Sharpe               optional.Option[float64]
	CAGR                 optional.Option[float64]
	Sortino              optional.Option[float64]
	Calmar               optional.Option[float64]
	Omega                optional.Option[float64]
	MaxDrawdown          float64
}

// Compute derives all statistics from the equity curve. The curve must be
// non-empty with a non-zero initial value; individual statistics that are
// undefined for this curve come back as none.
func Compute(curve types.EquityCurve) (Summary, error) {
	first, ok := curve.First()
	if !ok {
		return Summary{}, errors.New(errors.ErrCodeEmptyEquityCurve, "cannot compute metrics on an empty equity curve")
	}

	if first.Value == 0 {
		return Summary{}, errors.New(errors.ErrCodeInvalidParameter, "initial equity is zero")
	}

	last, _ := curve.Last()

	summary := Summary{
		TotalReturn: last.Value/first.Value - 1,
		MaxDrawdown: MaxDrawdown(curve),
	}

	summary.AnnualizedReturn = annualizedReturn(summary.TotalReturn, len(curve))
	summary.AnnualizedVolatility = AnnualizedVolatility(curve)
	summary.Sharpe = sharpe(summary.AnnualizedReturn, summary.AnnualizedVolatility)
	summary.CAGR = CAGR(curve)
	summary.Sortino = Sortino(curve, 0)
	summary.Calmar = calmar(summary.CAGR, summary.MaxDrawdown)
	summary.Omega = Omega(curve, 0)

	return summary, nil
}

// annualizedReturn compounds the total return to a 252 trading day year.
// Defined as zero when the curve has at most one observation.
func annualizedReturn(totalReturn float64, n int) float64 {
	if n <= 1 {
		return 0
	}

	return math.Pow(1+totalReturn, tradingDaysPerYear/float64(n)) - 1
}

// AnnualizedVolatility is the sample standard deviation of daily returns
// scaled by sqrt(252). The first date contributes a zero return. None when
// the curve has fewer than two observations.
func AnnualizedVolatility(curve types.EquityCurve) optional.Option[float64] {
	if len(curve) < 2 {
		return optional.None[float64]()
	}

	returns := append([]float64{0}, curve.Returns()...)

	return optional.Some(sampleStd(returns) * math.Sqrt(tradingDaysPerYear))
}

func sharpe(annReturn float64, annVol optional.Option[float64]) optional.Option[float64] {
	vol := annVol.TakeOr(0)
	if annVol.IsNone() || vol == 0 {
		return optional.None[float64]()
	}

	return optional.Some(annReturn / vol)
}

// CAGR is the compound annual growth rate over elapsed calendar time,
// using 365.25-day years. None when no calendar time has elapsed.
func CAGR(curve types.EquityCurve) optional.Option[float64] {
	first, ok := curve.First()
	if !ok || first.Value == 0 {
		return optional.None[float64]()
	}

	last, _ := curve.Last()

	years := last.Time.Sub(first.Time).Hours() / 24 / calendarDaysPerYear
	if years <= 0 {
		return optional.None[float64]()
	}

	return optional.Some(math.Pow(last.Value/first.Value, 1/years) - 1)
}

// Sortino is the mean daily return in excess of the daily risk-free rate,
// divided by the standard deviation of negative daily returns only and
// annualized by sqrt(252). None when there are not enough negative-return
// days for the downside deviation to be defined, or when it is zero.
func Sortino(curve types.EquityCurve, riskFree float64) optional.Option[float64] {
	returns := curve.Returns()
	if len(returns) == 0 {
		return optional.None[float64]()
	}

	var downside []float64

	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}

	if len(downside) < 2 {
		return optional.None[float64]()
	}

	downsideStd := sampleStd(downside)
	if downsideStd == 0 {
		return optional.None[float64]()
	}

	excess := mean(returns) - riskFree/tradingDaysPerYear

	return optional.Some(excess / downsideStd * math.Sqrt(tradingDaysPerYear))
}

func calmar(cagr optional.Option[float64], maxDrawdown float64) optional.Option[float64] {
	if cagr.IsNone() || maxDrawdown == 0 {
		return optional.None[float64]()
	}

	return optional.Some(cagr.TakeOr(0) / maxDrawdown)
}

// Omega is the sum of daily returns above the target divided by the negated
// sum of returns at or below it. None when there is no loss mass.
func Omega(curve types.EquityCurve, target float64) optional.Option[float64] {
	returns := curve.Returns()

	var gains, losses float64

	for _, r := range returns {
		if r > target {
			gains += r - target
		} else {
			losses -= r - target
		}
	}

	if losses == 0 {
		return optional.None[float64]()
	}

	return optional.Some(gains / losses)
}

// MaxDrawdown is the largest fractional decline of equity from its running
// peak. Zero for a monotonically increasing curve.
func MaxDrawdown(curve types.EquityCurve) float64 {
	var peak, maxDD float64

	for _, p := range curve {
		if p.Value > peak {
			peak = p.Value
		}

		if peak == 0 {
			continue
		}

		dd := (peak - p.Value) / peak
		if dd > maxDD {
			maxDD = dd
		}
	}

	return maxDD
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// sampleStd is the sample standard deviation (n-1 denominator). Zero when
// there are fewer than two values.
func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	m := mean(values)

	sumSq := 0.0

	for _, v := range values {
		d := v - m
		sumSq += d * d
	}

	return math.Sqrt(sumSq / float64(len(values)-1))
}
