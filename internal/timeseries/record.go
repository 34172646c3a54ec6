package timeseries

import "time"

// Record holds one trading day's observations from a strategy log.
//
// Profit is the signed monetary amount realized that day. PnLPercentage is
// the signed percentage return for the day; it is an independent unit from
// Profit and is not necessarily Profit/capital. PositionReturns maps a
// position label (e.g. "Trade_1") to its signed return; the map is sparse
// and a zero value means no trade was taken in that slot.
type Record struct {
	Date            time.Time          `json:"date"`
	Profit          float64            `json:"profit"`
	PnLPercentage   float64            `json:"pnl_percentage"`
	TradeCount      int                `json:"trade_count"`
	PositionReturns map[string]float64 `json:"position_returns,omitempty"`
}

// Weekday returns the day of week derived from the record date.
// It is not independently settable.
func (r Record) Weekday() time.Weekday {
	return r.Date.Weekday()
}
