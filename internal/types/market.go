package types

import (
	"sort"
	"time"
)

// Bar represents a single daily price bar for one ticker.
// AdjClose is the canonical trading price; intraday open/high/low are carried
// for indicator computation (true range) but positions are valued at AdjClose.
type Bar struct {
	Time     time.Time `csv:"time"`
	Open     float64   `csv:"open"`
	High     float64   `csv:"high"`
	Low      float64   `csv:"low"`
	Close    float64   `csv:"close"`
	AdjClose float64   `csv:"adj_close"`
	Volume   float64   `csv:"volume"`
}

// SortBars sorts bars by time in ascending order.
func SortBars(bars []Bar) {
	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Time.Before(bars[j].Time)
	})
}

// AdjCloses extracts the adjusted close series from a sorted bar slice.
func AdjCloses(bars []Bar) []float64 {
	prices := make([]float64, len(bars))
	for i, b := range bars {
		prices[i] = b.AdjClose
	}

	return prices
}
