// Package loader reads daily strategy logs from delimited text files into
// timeseries values. It is the collaborator responsible for parsing dates,
// validating fields, and guaranteeing date-ascending order before handing
// data to the analytics engine.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/AlphaCoderNotAI/AlgoTrade-Analyzer/internal/timeseries"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used by strategy logs.
const DateLayout = "2006-01-02"

// Schema declares the CSV columns consumed by the analytics engine.
// Per-position return columns are an explicit declared list rather than
// runtime name-pattern inspection; PositionColumns builds such a list from
// a header once, up front.
type Schema struct {
	Date          string   `yaml:"date"`
	Profit        string   `yaml:"profit"`
	PnLPercentage string   `yaml:"pnl_percentage"`
	TradeCount    string   `yaml:"trade_count"`
	Positions     []string `yaml:"positions"`
}

// DefaultSchema matches the column names produced by the strategy logger.
func DefaultSchema() Schema {
	return Schema{
		Date:          "Date",
		Profit:        "Profit",
		PnLPercentage: "Pnl_Percentage",
		TradeCount:    "No_of_Trades",
	}
}

// PositionColumns returns the header columns starting with prefix, in
// header order. Callers use it to build the declared Positions list when
// the log's position slots are not known ahead of time.
func PositionColumns(header []string, prefix string) []string {
	var out []string
	for _, col := range header {
		if prefix != "" && strings.HasPrefix(col, prefix) {
			out = append(out, col)
		}
	}
	return out
}

// DataError describes a malformed or missing field in an input file.
type DataError struct {
	File   string
	Row    int // 1-based, header is row 1
	Column string
	Reason string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("%s: row %d, column %q: %s", e.File, e.Row, e.Column, e.Reason)
}

// Load reads a single CSV file into a Series.
func Load(path string, schema Schema) (timeseries.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return timeseries.Series{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f, filepath.Base(path), schema)
}

// Read parses CSV data into a Series. The name is used in error messages
// only. A file with a header and no data rows yields an empty Series.
//
// If the schema declares no position columns, any column starting with
// "Trade_" is taken as a position slot; set Positions explicitly to
// override.
func Read(r io.Reader, name string, schema Schema) (timeseries.Series, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return timeseries.New(nil)
	}
	if err != nil {
		return timeseries.Series{}, fmt.Errorf("read header of %s: %w", name, err)
	}

	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		colIdx[strings.TrimSpace(col)] = i
	}

	for _, required := range []string{schema.Date, schema.Profit, schema.PnLPercentage, schema.TradeCount} {
		if _, ok := colIdx[required]; !ok {
			return timeseries.Series{}, &DataError{File: name, Row: 1, Column: required, Reason: "required column missing"}
		}
	}

	positions := schema.Positions
	if len(positions) == 0 {
		positions = PositionColumns(header, "Trade_")
	}

	var records []timeseries.Record
	row := 1
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return timeseries.Series{}, fmt.Errorf("read row %d of %s: %w", row, name, err)
		}

		rec, derr := parseRecord(name, row, fields, colIdx, schema, positions)
		if derr != nil {
			return timeseries.Series{}, derr
		}
		records = append(records, rec)
	}

	series, err := timeseries.New(records)
	if err != nil {
		return timeseries.Series{}, fmt.Errorf("%s: %w", name, err)
	}
	return series, nil
}

// LoadDir loads every *.csv file in dir into a Series keyed by file name
// without extension. Files that fail to parse are skipped with a logged
// error rather than aborting the scan.
func LoadDir(dir string, schema Schema) (map[string]timeseries.Series, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir %s: %w", dir, err)
	}

	out := make(map[string]timeseries.Series)
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		series, err := Load(path, schema)
		if err != nil {
			log.Error().Err(err).Str("file", entry.Name()).Msg("skipping unreadable strategy log")
			continue
		}

		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		out[name] = series
		log.Info().Str("strategy", name).Int("records", series.Len()).Msg("strategy log loaded")
	}
	return out, nil
}

// Strategies returns the sorted strategy names of a LoadDir result.
func Strategies(m map[string]timeseries.Series) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// --- Internal helpers ---

func parseRecord(file string, row int, fields []string, colIdx map[string]int, schema Schema, positions []string) (timeseries.Record, *DataError) {
	rec := timeseries.Record{}

	field := func(col string) (string, bool) {
		i, ok := colIdx[col]
		if !ok || i >= len(fields) {
			return "", false
		}
		return strings.TrimSpace(fields[i]), true
	}

	raw, ok := field(schema.Date)
	if !ok || raw == "" {
		return rec, &DataError{File: file, Row: row, Column: schema.Date, Reason: "missing date"}
	}
	date, err := time.Parse(DateLayout, raw)
	if err != nil {
		return rec, &DataError{File: file, Row: row, Column: schema.Date, Reason: fmt.Sprintf("invalid date %q", raw)}
	}
	rec.Date = date

	profit, derr := parseAmount(file, row, schema.Profit, fields, colIdx, false)
	if derr != nil {
		return rec, derr
	}
	rec.Profit = profit

	pct, derr := parseAmount(file, row, schema.PnLPercentage, fields, colIdx, false)
	if derr != nil {
		return rec, derr
	}
	rec.PnLPercentage = pct

	raw, _ = field(schema.TradeCount)
	count, err := strconv.Atoi(raw)
	if err != nil {
		return rec, &DataError{File: file, Row: row, Column: schema.TradeCount, Reason: fmt.Sprintf("invalid trade count %q", raw)}
	}
	if count < 0 {
		return rec, &DataError{File: file, Row: row, Column: schema.TradeCount, Reason: "negative trade count"}
	}
	rec.TradeCount = count

	for _, col := range positions {
		ret, derr := parseAmount(file, row, col, fields, colIdx, true)
		if derr != nil {
			return rec, derr
		}
		if ret == 0 {
			continue // no trade in this slot
		}
		if rec.PositionReturns == nil {
			rec.PositionReturns = make(map[string]float64, len(positions))
		}
		rec.PositionReturns[col] = ret
	}

	return rec, nil
}

// parseAmount parses a signed numeric field through decimal for strict
// validation. Optional fields treat an absent or empty cell as zero.
func parseAmount(file string, row int, col string, fields []string, colIdx map[string]int, optional bool) (float64, *DataError) {
	i, ok := colIdx[col]
	if !ok || i >= len(fields) {
		if optional {
			return 0, nil
		}
		return 0, &DataError{File: file, Row: row, Column: col, Reason: "missing field"}
	}

	raw := strings.TrimSpace(fields[i])
	if raw == "" {
		if optional {
			return 0, nil
		}
		return 0, &DataError{File: file, Row: row, Column: col, Reason: "missing field"}
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, &DataError{File: file, Row: row, Column: col, Reason: fmt.Sprintf("invalid number %q", raw)}
	}
	return d.InexactFloat64(), nil
}
