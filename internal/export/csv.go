// Package export serializes a (possibly filtered) Series back to delimited
// text, round-tripping with the loader's schema.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/AlphaCoderNotAI/AlgoTrade-Analyzer/internal/loader"
	"github.com/AlphaCoderNotAI/AlgoTrade-Analyzer/internal/timeseries"
)

// WriteCSV writes the series as CSV using the schema's column names.
// Position slots with no trade are written as 0, matching the sparse
// convention of the source logs. When the schema declares no position
// columns, the sorted union of the labels present in the series is used,
// so a series loaded via prefix discovery still round-trips.
func WriteCSV(w io.Writer, schema loader.Schema, s timeseries.Series) error {
	cw := csv.NewWriter(w)

	positions := schema.Positions
	if len(positions) == 0 {
		positions = positionLabels(s)
	}

	header := []string{schema.Date, schema.Profit, schema.PnLPercentage, schema.TradeCount}
	header = append(header, positions...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, 0, len(header))
	for i := 0; i < s.Len(); i++ {
		r := s.At(i)
		row = row[:0]
		row = append(row,
			r.Date.Format(loader.DateLayout),
			formatFloat(r.Profit),
			formatFloat(r.PnLPercentage),
			strconv.Itoa(r.TradeCount),
		)
		for _, col := range positions {
			row = append(row, formatFloat(r.PositionReturns[col]))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportFile writes the series to a CSV file at path.
func ExportFile(path string, schema loader.Schema, s timeseries.Series) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := WriteCSV(f, schema, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// positionLabels returns the sorted union of position labels in the series.
func positionLabels(s timeseries.Series) []string {
	seen := make(map[string]struct{})
	for i := 0; i < s.Len(); i++ {
		for label := range s.At(i).PositionReturns {
			seen[label] = struct{}{}
		}
	}
	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
