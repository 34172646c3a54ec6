package analytics

import (
	"time"

	"github.com/AlphaCoderNotAI/AlgoTrade-Analyzer/internal/timeseries"
)

// DrawdownResult holds the peak-to-trough analysis of a profit series.
// All three curves are aligned with the series: one point per record.
type DrawdownResult struct {
	// Cumulative is the running sum of daily profit.
	Cumulative []Point `json:"cumulative"`
	// Peak is the running maximum of Cumulative up to and including each point.
	Peak []Point `json:"peak"`
	// Drawdown is Peak[i] - Cumulative[i] for each i; always >= 0.
	Drawdown []Point `json:"drawdown"`

	MaxDrawdown float64 `json:"max_drawdown"`
	// MaxDrawdownPct is MaxDrawdown relative to the peak value at the
	// max-drawdown index, in percent. Defined as 0 when that peak value is
	// exactly 0.
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`

	// Start is the date of the peak from which the losing run containing the
	// max-drawdown index began. End is the date at the max-drawdown index.
	// Both are zero when the series has no drawdown.
	Start time.Time `json:"start,omitempty"`
	End   time.Time `json:"end,omitempty"`
	// Duration is End - Start in calendar time, not a trading-day count.
	Duration time.Duration `json:"duration"`
}

// Drawdown computes the drawdown curves and worst peak-to-trough decline of
// a series. It is a total function: an empty series or a monotonically
// non-decreasing cumulative profit curve produces a zero result, never an
// error. Results are deterministic and bit-identical across calls on the
// same series.
func Drawdown(s timeseries.Series) DrawdownResult {
	res := DrawdownResult{}
	if s.Empty() {
		return res
	}

	n := s.Len()
	cum := Cumulative(s, MetricProfit)
	peak := make([]Point, n)
	dd := make([]Point, n)

	runningPeak := cum[0].Value
	maxDD := 0.0
	maxIdx := 0
	for i := 0; i < n; i++ {
		v := cum[i].Value
		if v > runningPeak {
			runningPeak = v
		}
		peak[i] = Point{Date: cum[i].Date, Value: runningPeak}

		d := runningPeak - v
		dd[i] = Point{Date: cum[i].Date, Value: d}
		if d > maxDD {
			maxDD = d
			maxIdx = i
		}
	}

	res.Cumulative = cum
	res.Peak = peak
	res.Drawdown = dd
	res.MaxDrawdown = maxDD
	if maxDD == 0 {
		return res
	}

	if pv := peak[maxIdx].Value; pv != 0 {
		res.MaxDrawdownPct = maxDD / pv * 100.0
	}

	// Walk back through the contiguous losing run containing the
	// max-drawdown index; the drawdown starts at the peak record just
	// before that run. dd[0] is always 0, so the walk terminates.
	start := maxIdx
	for start > 0 && dd[start-1].Value > 0 {
		start--
	}
	if start > 0 {
		start--
	}

	res.Start = cum[start].Date
	res.End = cum[maxIdx].Date
	res.Duration = res.End.Sub(res.Start)
	return res
}
