// Package analytics computes trading-performance statistics from a daily
// profit/loss series: cumulative aggregation, risk-adjusted ratios, drawdown
// detection, and descriptive summaries.
//
// Every function is pure and stateless over its input Series. Callers may
// invoke them concurrently on distinct Series without coordination.
package analytics

import (
	"time"

	"github.com/AlphaCoderNotAI/AlgoTrade-Analyzer/internal/timeseries"
)

// MetricFunc selects the numeric metric accumulated by Cumulative.
type MetricFunc func(timeseries.Record) float64

// Canned selectors for the standard record metrics.
var (
	MetricProfit        MetricFunc = func(r timeseries.Record) float64 { return r.Profit }
	MetricPnLPercentage MetricFunc = func(r timeseries.Record) float64 { return r.PnLPercentage }
	MetricTradeCount    MetricFunc = func(r timeseries.Record) float64 { return float64(r.TradeCount) }
)

// Point is one (date, value) pair on an ordered curve.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Cumulative returns the running sum of the selected metric in series order:
// out[i] = sum(metric[0..i]) inclusive. The result has exactly s.Len()
// points; an empty series yields an empty result, not an error.
func Cumulative(s timeseries.Series, metric MetricFunc) []Point {
	if s.Empty() {
		return nil
	}

	out := make([]Point, s.Len())
	sum := 0.0
	for i := 0; i < s.Len(); i++ {
		r := s.At(i)
		sum += metric(r)
		out[i] = Point{Date: r.Date, Value: sum}
	}
	return out
}
