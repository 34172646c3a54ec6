// Package report assembles the analytics engine's outputs into documents
// for the presentation layer and serves them over HTTP.
package report

import (
	"errors"
	"math"
	"time"

	"github.com/AlphaCoderNotAI/AlgoTrade-Analyzer/internal/analytics"
	"github.com/AlphaCoderNotAI/AlgoTrade-Analyzer/internal/timeseries"
	"github.com/google/uuid"
)

// histogramBins is the bucket count for the daily-return distribution.
const histogramBins = 50

// RiskRatios carries the risk-adjusted ratios. A nil value with a reason
// string means the ratio could not be computed; consumers display their own
// fallback (e.g. "N/A").
type RiskRatios struct {
	Sharpe        *float64 `json:"sharpe,omitempty"`
	SharpeReason  string   `json:"sharpe_reason,omitempty"`
	Sortino       *float64 `json:"sortino,omitempty"`
	SortinoReason string   `json:"sortino_reason,omitempty"`
}

// DrawdownView is the serializable form of the drawdown analysis.
type DrawdownView struct {
	MaxDrawdown    float64           `json:"max_drawdown"`
	MaxDrawdownPct float64           `json:"max_drawdown_pct"`
	Start          *time.Time        `json:"start,omitempty"`
	End            *time.Time        `json:"end,omitempty"`
	DurationDays   int               `json:"duration_days"`
	Curve          []analytics.Point `json:"curve"`
}

// SummaryView is the serializable form of the descriptive totals.
// TotalPnLPct is a plain sum of daily percentages, not a compounded
// return.
type SummaryView struct {
	TotalProfit     float64            `json:"total_profit"`
	TotalPnLPct     float64            `json:"total_pnl_pct"`
	AvgTradesPerDay *float64           `json:"avg_trades_per_day,omitempty"`
	WinRate         float64            `json:"win_rate"`
	ProfitByWeekday map[string]float64 `json:"profit_by_weekday"`
}

// Report is the full analytics document for one strategy.
type Report struct {
	RunID            string               `json:"run_id"`
	Strategy         string               `json:"strategy"`
	GeneratedAt      time.Time            `json:"generated_at"`
	Records          int                  `json:"records"`
	Summary          SummaryView          `json:"summary"`
	Risk             RiskRatios           `json:"risk"`
	Drawdown         DrawdownView         `json:"drawdown"`
	CumulativeProfit []analytics.Point    `json:"cumulative_profit"`
	Distribution     []analytics.Bin      `json:"distribution"`
	PositionReturns  map[string][]float64 `json:"position_returns,omitempty"`
}

// Build runs the full engine over a series and assembles the report.
// Risk-ratio computation errors do not fail the build; they surface as nil
// ratios with reason strings.
func Build(strategy string, s timeseries.Series, cfg analytics.RiskConfig) *Report {
	sum := analytics.Summarize(s)
	dd := analytics.Drawdown(s)

	rep := &Report{
		RunID:            uuid.New().String(),
		Strategy:         strategy,
		GeneratedAt:      time.Now().UTC(),
		Records:          s.Len(),
		Summary:          summaryView(sum),
		Risk:             riskRatios(s, cfg),
		Drawdown:         drawdownView(dd),
		CumulativeProfit: dd.Cumulative,
		Distribution:     analytics.Histogram(s, histogramBins),
		PositionReturns:  analytics.PositionReturns(s),
	}
	if len(rep.PositionReturns) == 0 {
		rep.PositionReturns = nil
	}
	return rep
}

func summaryView(sum analytics.Summary) SummaryView {
	view := SummaryView{
		TotalProfit:     sum.TotalProfit,
		TotalPnLPct:     sum.TotalPnLPercentage,
		WinRate:         sum.WinRate,
		ProfitByWeekday: make(map[string]float64, len(sum.ProfitByWeekday)),
	}
	if !math.IsNaN(sum.AvgTradesPerDay) {
		avg := sum.AvgTradesPerDay
		view.AvgTradesPerDay = &avg
	}
	for wd, profit := range sum.ProfitByWeekday {
		view.ProfitByWeekday[wd.String()] = profit
	}
	return view
}

func riskRatios(s timeseries.Series, cfg analytics.RiskConfig) RiskRatios {
	ratios := RiskRatios{}

	sharpe, err := analytics.Sharpe(s, cfg)
	if err != nil {
		ratios.SharpeReason = reasonOf(err)
	} else {
		ratios.Sharpe = &sharpe
	}

	sortino, err := analytics.Sortino(s, cfg)
	if err != nil {
		ratios.SortinoReason = reasonOf(err)
	} else {
		ratios.Sortino = &sortino
	}
	return ratios
}

func drawdownView(dd analytics.DrawdownResult) DrawdownView {
	view := DrawdownView{
		MaxDrawdown:    dd.MaxDrawdown,
		MaxDrawdownPct: dd.MaxDrawdownPct,
		DurationDays:   int(dd.Duration.Hours() / 24),
		Curve:          dd.Drawdown,
	}
	if !dd.Start.IsZero() {
		start, end := dd.Start, dd.End
		view.Start = &start
		view.End = &end
	}
	return view
}

func reasonOf(err error) string {
	var compErr *analytics.ComputationError
	if errors.As(err, &compErr) {
		return compErr.Reason
	}
	return err.Error()
}
