package types

import "time"

// EquityPoint is the total portfolio value (cash + mark-to-market position
// value) at one master calendar date.
type EquityPoint struct {
	Time  time.Time
	Value float64
}

// EquityCurve is the portfolio value over the master calendar, indexed by
// date ascending.
type EquityCurve []EquityPoint

// First returns the first equity point. ok is false for an empty curve.
func (c EquityCurve) First() (point EquityPoint, ok bool) {
	if len(c) == 0 {
		return EquityPoint{}, false
	}

	return c[0], true
}

// Last returns the last equity point. ok is false for an empty curve.
func (c EquityCurve) Last() (point EquityPoint, ok bool) {
	if len(c) == 0 {
		return EquityPoint{}, false
	}

	return c[len(c)-1], true
}

// Values returns the equity values in date order.
func (c EquityCurve) Values() []float64 {
	values := make([]float64, len(c))
	for i, p := range c {
		values[i] = p.Value
	}

	return values
}

// Returns computes the daily percentage returns of the curve. The result has
// one fewer element than the curve; an empty or single-point curve yields an
// empty slice. A zero equity value yields a zero return for that day rather
// than a division by zero.
func (c EquityCurve) Returns() []float64 {
	if len(c) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(c)-1)

	for i := 1; i < len(c); i++ {
		prev := c[i-1].Value
		if prev == 0 {
			returns = append(returns, 0)

			continue
		}

		returns = append(returns, c[i].Value/prev-1)
	}

	return returns
}
