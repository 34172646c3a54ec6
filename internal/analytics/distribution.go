package analytics

import (
	"github.com/AlphaCoderNotAI/AlgoTrade-Analyzer/internal/timeseries"
)

// Bin is one histogram bucket over [Low, High). The last bin is inclusive
// of its upper bound.
type Bin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// Histogram buckets the series' daily percentage returns into equal-width
// bins, for distribution displays. An empty series yields nil. When every
// return is identical, a single bin holds all records.
func Histogram(s timeseries.Series, bins int) []Bin {
	if s.Empty() {
		return nil
	}
	if bins <= 0 {
		bins = 50
	}

	min, max := s.At(0).PnLPercentage, s.At(0).PnLPercentage
	for i := 1; i < s.Len(); i++ {
		v := s.At(i).PnLPercentage
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if min == max {
		return []Bin{{Low: min, High: max, Count: s.Len()}}
	}

	width := (max - min) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Low = min + float64(i)*width
		out[i].High = min + float64(i+1)*width
	}
	out[bins-1].High = max

	for i := 0; i < s.Len(); i++ {
		v := s.At(i).PnLPercentage
		idx := int((v - min) / width)
		if idx >= bins {
			idx = bins - 1 // v == max lands in the last bin
		}
		out[idx].Count++
	}
	return out
}
