package types

import "time"

// FeatureRow is one date's price bar augmented with derived indicator values.
// Close is the adjusted close. Optional indicator fields (MACD group, bands,
// ATR) are only meaningful when the owning table's Has* flag is set.
type FeatureRow struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64

	EMAFast    float64
	EMASlow    float64
	RSI        float64
	Volatility float64

	MACD       float64
	MACDSignal float64
	MACDHist   float64

	BBUpper float64
	BBLower float64

	ATR float64
}

// FeatureTable is an ordered-by-date sequence of feature rows for one ticker.
// Rows with insufficient history for any enabled indicator are dropped, so a
// table starts later than the ticker's raw price history.
type FeatureTable struct {
	Ticker string
	Rows   []FeatureRow

	HasMACD  bool
	HasBands bool
	HasATR   bool
}

// Len returns the number of feature rows.
func (t *FeatureTable) Len() int {
	return len(t.Rows)
}
