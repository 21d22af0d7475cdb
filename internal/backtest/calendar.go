package backtest

import (
	"sort"
	"time"

	"github.com/quantx-lab/quantx/internal/types"
)

// BuildMasterCalendar returns the sorted union of all instruments' observation
// dates: every bar date and every signal date across the portfolio.
func BuildMasterCalendar(prices map[string][]types.Bar, signals map[string]types.SignalSeries) []time.Time {
	seen := make(map[time.Time]struct{})

	for _, bars := range prices {
		for _, b := range bars {
			seen[b.Time] = struct{}{}
		}
	}

	for _, series := range signals {
		for _, s := range series {
			seen[s.Time] = struct{}{}
		}
	}

	calendar := make([]time.Time, 0, len(seen))
	for t := range seen {
		calendar = append(calendar, t)
	}

	sort.Slice(calendar, func(i, j int) bool {
		return calendar[i].Before(calendar[j])
	})

	return calendar
}

// alignedInstrument is one instrument's price and signal series re-expressed
// against the master calendar by forward-fill.
type alignedInstrument struct {
	// prices[i] is the last known adjusted close at calendar index i, valid
	// only when priceDefined[i] is true. Leading gaps before the first native
	// observation stay undefined and must not be traded.
	prices       []float64
	priceDefined []bool
	// signals[i] is the last known signal at calendar index i. Signal gaps
	// resolve to flat: a desired position must be a concrete state once any
	// data exists for the date.
	signals []types.Signal
}

// alignInstrument forward-fills one instrument's bars and signals onto the
// calendar. Both inputs must be sorted by time ascending; the fill cursor only
// ever advances, so no value is ever read from the future.
func alignInstrument(calendar []time.Time, bars []types.Bar, signals types.SignalSeries) alignedInstrument {
	aligned := alignedInstrument{
		prices:       make([]float64, len(calendar)),
		priceDefined: make([]bool, len(calendar)),
		signals:      make([]types.Signal, len(calendar)),
	}

	barIdx, sigIdx := 0, 0

	var (
		lastPrice  float64
		havePrice  bool
		lastSignal types.Signal
	)

	for i, date := range calendar {
		for barIdx < len(bars) && !bars[barIdx].Time.After(date) {
			lastPrice = bars[barIdx].AdjClose
			havePrice = true
			barIdx++
		}

		for sigIdx < len(signals) && !signals[sigIdx].Time.After(date) {
			lastSignal = signals[sigIdx].Value
			sigIdx++
		}

		aligned.prices[i] = lastPrice
		aligned.priceDefined[i] = havePrice
		aligned.signals[i] = lastSignal
	}

	return aligned
}
