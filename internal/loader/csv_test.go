package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/AlphaCoderNotAI/AlgoTrade-Analyzer/internal/timeseries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `Date,Profit,Pnl_Percentage,No_of_Trades,Trade_1,Trade_2
2025-03-03,100.5,1.25,4,0.8,0
2025-03-04,-50.25,-0.5,2,-0.3,1.1
2025-03-05,0,0,0,0,0
`

func TestRead_ParsesRecords(t *testing.T) {
	s, err := Read(strings.NewReader(sampleLog), "alpha.csv", DefaultSchema())
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())

	first := s.At(0)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, 100.5, first.Profit)
	assert.Equal(t, 1.25, first.PnLPercentage)
	assert.Equal(t, 4, first.TradeCount)

	// Zero position returns are dropped, nonzero ones keyed by column.
	assert.Equal(t, map[string]float64{"Trade_1": 0.8}, first.PositionReturns)
	assert.Equal(t, map[string]float64{"Trade_1": -0.3, "Trade_2": 1.1}, s.At(1).PositionReturns)
	assert.Nil(t, s.At(2).PositionReturns)
}

func TestRead_DeclaredPositionsOverridePrefix(t *testing.T) {
	schema := DefaultSchema()
	schema.Positions = []string{"Trade_2"}

	s, err := Read(strings.NewReader(sampleLog), "alpha.csv", schema)
	require.NoError(t, err)

	// Trade_1 is ignored even though it matches the discovery prefix.
	assert.Nil(t, s.At(0).PositionReturns)
	assert.Equal(t, map[string]float64{"Trade_2": 1.1}, s.At(1).PositionReturns)
}

func TestRead_HeaderOnly(t *testing.T) {
	s, err := Read(strings.NewReader("Date,Profit,Pnl_Percentage,No_of_Trades\n"), "empty.csv", DefaultSchema())
	require.NoError(t, err)
	assert.True(t, s.Empty())
}

func TestRead_MissingRequiredColumn(t *testing.T) {
	_, err := Read(strings.NewReader("Date,Profit,No_of_Trades\n"), "bad.csv", DefaultSchema())
	require.Error(t, err)

	var dataErr *DataError
	require.True(t, errors.As(err, &dataErr))
	assert.Equal(t, "bad.csv", dataErr.File)
	assert.Equal(t, 1, dataErr.Row)
	assert.Equal(t, "Pnl_Percentage", dataErr.Column)
}

func TestRead_InvalidDate(t *testing.T) {
	input := "Date,Profit,Pnl_Percentage,No_of_Trades\n03/03/2025,1,1,1\n"
	_, err := Read(strings.NewReader(input), "bad.csv", DefaultSchema())
	require.Error(t, err)

	var dataErr *DataError
	require.True(t, errors.As(err, &dataErr))
	assert.Equal(t, 2, dataErr.Row)
	assert.Equal(t, "Date", dataErr.Column)
}

func TestRead_InvalidNumber(t *testing.T) {
	input := "Date,Profit,Pnl_Percentage,No_of_Trades\n2025-03-03,abc,1,1\n"
	_, err := Read(strings.NewReader(input), "bad.csv", DefaultSchema())
	require.Error(t, err)

	var dataErr *DataError
	require.True(t, errors.As(err, &dataErr))
	assert.Equal(t, "Profit", dataErr.Column)
	assert.Contains(t, dataErr.Reason, "abc")
}

func TestRead_NegativeTradeCount(t *testing.T) {
	input := "Date,Profit,Pnl_Percentage,No_of_Trades\n2025-03-03,1,1,-2\n"
	_, err := Read(strings.NewReader(input), "bad.csv", DefaultSchema())
	require.Error(t, err)

	var dataErr *DataError
	require.True(t, errors.As(err, &dataErr))
	assert.Equal(t, "No_of_Trades", dataErr.Column)
}

func TestRead_OutOfOrderDates(t *testing.T) {
	input := "Date,Profit,Pnl_Percentage,No_of_Trades\n2025-03-04,1,1,1\n2025-03-03,1,1,1\n"
	_, err := Read(strings.NewReader(input), "bad.csv", DefaultSchema())
	require.Error(t, err)
	assert.ErrorIs(t, err, timeseries.ErrOutOfOrder)
	assert.Contains(t, err.Error(), "bad.csv")
}

func TestPositionColumns(t *testing.T) {
	header := []string{"Date", "Trade_1", "Profit", "Trade_2", "Trader"}
	assert.Equal(t, []string{"Trade_1", "Trade_2", "Trader"}, PositionColumns(header, "Trade"))
	assert.Equal(t, []string{"Trade_1", "Trade_2"}, PositionColumns(header, "Trade_"))
	assert.Nil(t, PositionColumns(header, ""))
}

func TestLoadDir_SkipsUnparseableFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alpha.csv"), []byte(sampleLog), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.csv"), []byte("not,a,log\n1,2,3\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	loaded, err := LoadDir(dir, DefaultSchema())
	require.NoError(t, err)

	require.Len(t, loaded, 1)
	assert.Equal(t, 3, loaded["alpha"].Len())
	assert.Equal(t, []string{"alpha"}, Strategies(loaded))
}

func TestLoadDir_MissingDir(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "nope"), DefaultSchema())
	assert.Error(t, err)
}
