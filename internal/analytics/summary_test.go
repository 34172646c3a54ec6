package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/AlphaCoderNotAI/AlgoTrade-Analyzer/internal/timeseries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_WinRate(t *testing.T) {
	// Profits 10, -5, 0, 20: two wins out of four records. Zero profit is
	// not a win.
	s := mustSeries(t, []float64{10, -5, 0, 20})

	sum := Summarize(s)
	assert.InDelta(t, 50.0, sum.WinRate, floatTol)
}

func TestSummarize_Empty(t *testing.T) {
	s := mustSeries(t, nil)

	sum := Summarize(s)
	assert.Zero(t, sum.WinRate)
	assert.Zero(t, sum.TotalProfit)
	assert.Zero(t, sum.TotalPnLPercentage)
	assert.True(t, math.IsNaN(sum.AvgTradesPerDay))
	assert.Empty(t, sum.ProfitByWeekday)
}

func TestSummarize_Totals(t *testing.T) {
	records := []timeseries.Record{
		{Date: day(0), Profit: 100.10, PnLPercentage: 1.5, TradeCount: 4},
		{Date: day(1), Profit: -50.05, PnLPercentage: -0.5, TradeCount: 2},
		{Date: day(2), Profit: 25.25, PnLPercentage: 0.25, TradeCount: 6},
	}
	s, err := timeseries.New(records)
	require.NoError(t, err)

	sum := Summarize(s)

	// 100.10 - 50.05 + 25.25 = 75.30, exact under decimal accumulation.
	assert.Equal(t, 75.30, sum.TotalProfit)
	// Percentage total is a plain sum, not a compounded aggregate.
	assert.InDelta(t, 1.25, sum.TotalPnLPercentage, floatTol)
	// (4 + 2 + 6) / 3 = 4.
	assert.InDelta(t, 4.0, sum.AvgTradesPerDay, floatTol)
}

func TestSummarize_ProfitByWeekday(t *testing.T) {
	// day(0) and day(7) are Mondays, day(1) is a Tuesday.
	records := []timeseries.Record{
		{Date: day(0), Profit: 10},
		{Date: day(1), Profit: -4},
		{Date: day(7), Profit: 6},
	}
	s, err := timeseries.New(records)
	require.NoError(t, err)

	sum := Summarize(s)

	require.Len(t, sum.ProfitByWeekday, 2)
	assert.InDelta(t, 16.0, sum.ProfitByWeekday[time.Monday], floatTol)
	assert.InDelta(t, -4.0, sum.ProfitByWeekday[time.Tuesday], floatTol)
	_, present := sum.ProfitByWeekday[time.Friday]
	assert.False(t, present)
}

func TestPositionReturns_DropsZeroSlots(t *testing.T) {
	records := []timeseries.Record{
		{Date: day(0), PositionReturns: map[string]float64{"Trade_1": 0.8, "Trade_2": 0}},
		{Date: day(1), PositionReturns: map[string]float64{"Trade_1": -0.3, "Trade_2": 1.1}},
	}
	s, err := timeseries.New(records)
	require.NoError(t, err)

	got := PositionReturns(s)

	require.Len(t, got, 2)
	assert.Equal(t, []float64{0.8, -0.3}, got["Trade_1"])
	assert.Equal(t, []float64{1.1}, got["Trade_2"])
}
