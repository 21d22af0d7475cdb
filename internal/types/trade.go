package types

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// TradeRecord is one ticker's completed or open round-trip. An open trade
// (entered but not yet exited by series end) has none exit fields and is
// excluded from closed-trade statistics.
type TradeRecord struct {
	ID         string
	Ticker     string
	EntryTime  time.Time
	EntryPrice float64
	Shares     float64
	ExitTime   optional.Option[time.Time]
	ExitPrice  optional.Option[float64]
	Proceeds   optional.Option[float64]
}

// IsClosed reports whether the trade has been exited.
func (t *TradeRecord) IsClosed() bool {
	return t.ExitTime.IsSome()
}

// PnL returns proceeds minus entry cost for a closed trade, none for an open one.
// The entry cost here is shares times the post-slippage entry price; the flat
// commission is already netted out of Proceeds on the exit leg.
func (t *TradeRecord) PnL() optional.Option[float64] {
	if !t.IsClosed() {
		return optional.None[float64]()
	}

	proceeds := t.Proceeds.TakeOr(0)

	proceedsDec := decimal.NewFromFloat(proceeds)
	costDec := decimal.NewFromFloat(t.Shares).Mul(decimal.NewFromFloat(t.EntryPrice))

	pnl, _ := proceedsDec.Sub(costDec).Float64()

	return optional.Some(pnl)
}

// HoldingDays returns the number of calendar days the trade was held,
// none for an open trade.
func (t *TradeRecord) HoldingDays() optional.Option[int] {
	if !t.IsClosed() {
		return optional.None[int]()
	}

	exitTime := t.ExitTime.TakeOr(time.Time{})

	return optional.Some(int(exitTime.Sub(t.EntryTime).Hours() / 24))
}
