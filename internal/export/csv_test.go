package export

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/AlphaCoderNotAI/AlgoTrade-Analyzer/internal/loader"
	"github.com/AlphaCoderNotAI/AlgoTrade-Analyzer/internal/timeseries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeries(t *testing.T) timeseries.Series {
	t.Helper()
	s, err := timeseries.New([]timeseries.Record{
		{
			Date:            time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
			Profit:          100.5,
			PnLPercentage:   1.25,
			TradeCount:      4,
			PositionReturns: map[string]float64{"Trade_1": 0.8},
		},
		{
			Date:            time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
			Profit:          -50.25,
			PnLPercentage:   -0.5,
			TradeCount:      2,
			PositionReturns: map[string]float64{"Trade_1": -0.3, "Trade_2": 1.1},
		},
	})
	require.NoError(t, err)
	return s
}

func TestWriteCSV_RoundTripsThroughLoader(t *testing.T) {
	s := testSeries(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, loader.DefaultSchema(), s))

	reloaded, err := loader.Read(&buf, "roundtrip.csv", loader.DefaultSchema())
	require.NoError(t, err)
	assert.Equal(t, s.Records(), reloaded.Records())
}

func TestWriteCSV_DeclaredPositionOrder(t *testing.T) {
	schema := loader.DefaultSchema()
	schema.Positions = []string{"Trade_2", "Trade_1"}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, schema, testSeries(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Profit,Pnl_Percentage,No_of_Trades,Trade_2,Trade_1", lines[0])

	// Empty slots serialize as 0, matching the source logs.
	assert.Equal(t, "2025-03-03,100.5,1.25,4,0,0.8", lines[1])
	assert.Equal(t, "2025-03-04,-50.25,-0.5,2,1.1,-0.3", lines[2])
}

func TestWriteCSV_DiscoveredLabelsSorted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, loader.DefaultSchema(), testSeries(t)))

	header := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Equal(t, "Date,Profit,Pnl_Percentage,No_of_Trades,Trade_1,Trade_2", header)
}

func TestWriteCSV_EmptySeries(t *testing.T) {
	empty, err := timeseries.New(nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, loader.DefaultSchema(), empty))
	assert.Equal(t, "Date,Profit,Pnl_Percentage,No_of_Trades\n", buf.String())
}

func TestExportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, ExportFile(path, loader.DefaultSchema(), testSeries(t)))

	reloaded, err := loader.Load(path, loader.DefaultSchema())
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Len())
}
