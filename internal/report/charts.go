package report

import (
	"errors"
	"time"

	"github.com/AlphaCoderNotAI/AlgoTrade-Analyzer/internal/analytics"
	charts "github.com/vicanso/go-charts/v2"
)

// weekdayOrder lists trading weekdays first, the dashboard's display order.
var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
	time.Saturday, time.Sunday,
}

// CumulativeProfitChart renders the cumulative profit curve as a PNG.
func CumulativeProfitChart(strategy string, points []analytics.Point) ([]byte, error) {
	if len(points) < 2 {
		return nil, errors.New("not enough data points")
	}

	x := make([]string, len(points))
	values := make([]float64, len(points))
	yMin, yMax := points[0].Value, points[0].Value
	for i, p := range points {
		x[i] = p.Date.Format("2006-01-02")
		values[i] = p.Value
		if p.Value < yMin {
			yMin = p.Value
		}
		if p.Value > yMax {
			yMax = p.Value
		}
	}
	yMin, yMax = padRange(yMin, yMax)

	painter, err := charts.LineRender([][]float64{values},
		charts.TitleTextOptionFunc(strategy+" • cumulative profit"),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: x, BoundaryGap: charts.FalseFlag(), SplitNumber: 10}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, err
	}
	return painter.Bytes()
}

// WeekdayProfitChart renders the per-weekday profit breakdown as a PNG bar
// chart. Only weekdays present in the breakdown appear.
func WeekdayProfitChart(strategy string, byWeekday map[string]float64) ([]byte, error) {
	if len(byWeekday) == 0 {
		return nil, errors.New("no data points")
	}

	var labels []string
	var values []float64
	for _, wd := range weekdayOrder {
		profit, ok := byWeekday[wd.String()]
		if !ok {
			continue
		}
		labels = append(labels, wd.String())
		values = append(values, profit)
	}

	painter, err := charts.BarRender([][]float64{values},
		charts.TitleTextOptionFunc(strategy+" • profit by weekday"),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, err
	}
	return painter.Bytes()
}

// padRange widens a [min, max] axis range by 5% so the curve does not touch
// the plot edges.
func padRange(min, max float64) (float64, float64) {
	pad := (max - min) * 0.05
	if pad == 0 {
		pad = 1
	}
	return min - pad, max + pad
}
