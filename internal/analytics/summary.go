package analytics

import (
	"math"
	"time"

	"github.com/AlphaCoderNotAI/AlgoTrade-Analyzer/internal/timeseries"
	"github.com/shopspring/decimal"
)

// Summary holds the descriptive totals consumed directly by the
// presentation layer.
type Summary struct {
	TotalProfit float64 `json:"total_profit"`
	// TotalPnLPercentage is the plain sum of the daily percentage returns,
	// not a compounding-correct aggregate. Downstream dashboards expect the
	// plain sum.
	TotalPnLPercentage float64 `json:"total_pnl_percentage"`
	// AvgTradesPerDay is the mean trade count per record. NaN when the
	// series is empty; consumers that serialize the summary should map NaN
	// to an absent value.
	AvgTradesPerDay float64 `json:"-"`
	// WinRate is the percentage of records with Profit > 0, in [0, 100].
	// Defined as 0 on an empty series.
	WinRate float64 `json:"win_rate"`
	// ProfitByWeekday sums profit per weekday, only for weekdays present.
	ProfitByWeekday map[time.Weekday]float64 `json:"-"`
}

// Summarize computes the descriptive totals of a series. Monetary sums are
// accumulated with decimals so that long series do not drift; statistics
// stay in float64.
func Summarize(s timeseries.Series) Summary {
	sum := Summary{ProfitByWeekday: make(map[time.Weekday]float64)}
	if s.Empty() {
		sum.AvgTradesPerDay = math.NaN()
		return sum
	}

	n := s.Len()
	totalProfit := decimal.Zero
	totalPct := 0.0
	trades := 0
	wins := 0

	for i := 0; i < n; i++ {
		r := s.At(i)
		totalProfit = totalProfit.Add(decimal.NewFromFloat(r.Profit))
		totalPct += r.PnLPercentage
		trades += r.TradeCount
		if r.Profit > 0 {
			wins++
		}
		sum.ProfitByWeekday[r.Weekday()] += r.Profit
	}

	sum.TotalProfit = totalProfit.InexactFloat64()
	sum.TotalPnLPercentage = totalPct
	sum.AvgTradesPerDay = float64(trades) / float64(n)
	sum.WinRate = float64(wins) / float64(n) * 100.0
	return sum
}

// PositionReturns groups the nonzero per-position returns by position
// label, for grouped box-style displays. A zero return means "no trade in
// that slot" and is dropped.
func PositionReturns(s timeseries.Series) map[string][]float64 {
	out := make(map[string][]float64)
	for i := 0; i < s.Len(); i++ {
		for label, ret := range s.At(i).PositionReturns {
			if ret == 0 {
				continue
			}
			out[label] = append(out[label], ret)
		}
	}
	return out
}
