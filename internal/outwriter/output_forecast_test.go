package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gamelens/foresight/internal/contract"
	"github.com/gamelens/foresight/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleForecasts() []schema.RevenueForecast {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return []schema.RevenueForecast{
		{
			Date:           start,
			Value:          1200.50,
			Confidence:     0.88,
			Period:         schema.DailyPeriod,
			Breakdown:      schema.RevenueBreakdown{ExistingUsers: 1000, NewUsers: 150.50, Reactivated: 50},
			Trend:          schema.GrowingTrend,
			SeasonalFactor: 1.05,
			Range:          &schema.PredictionRange{Low: 1050, High: 1350},
		},
		{
			Date:           start.AddDate(0, 0, 1),
			Value:          1180.25,
			Confidence:     0.87,
			Period:         schema.DailyPeriod,
			Breakdown:      schema.RevenueBreakdown{ExistingUsers: 980, NewUsers: 150.25, Reactivated: 50},
			Trend:          schema.GrowingTrend,
			SeasonalFactor: 0.98,
		},
	}
}

func TestWriteForecastTable(t *testing.T) {
	forecasts := sampleForecasts()
	cfg := &contract.Config{
		Output:       schema.TextOut,
		Precision:    2,
		Width:        120,
		StoreBackend: schema.SQLiteBackend,
	}
	fmtFloat, _ := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	duration := 100 * time.Millisecond
	err := writeForecastTable(forecasts, cfg, fmtFloat, duration, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "2025-06-01")
	assert.Contains(t, output, "1200.50")
	assert.Contains(t, output, "1050.00 - 1350.00")
	assert.Contains(t, output, "growing")
	assert.Contains(t, output, "2025-06-02")
	assert.Contains(t, output, "Projected revenue over 2 days: 2380.75")
	assert.Contains(t, output, "Forecast completed in 100ms. Store backend: sqlite")
	assert.NotContains(t, output, "Existing", "Breakdown columns should be off by default")
}

func TestWriteForecastTableWithBreakdown(t *testing.T) {
	forecasts := sampleForecasts()
	cfg := &contract.Config{
		Output:           schema.TextOut,
		Precision:        2,
		Width:            120,
		StoreBackend:     schema.SQLiteBackend,
		IncludeBreakdown: true,
	}
	fmtFloat, _ := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	err := writeForecastTable(forecasts, cfg, fmtFloat, time.Millisecond, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Existing")
	assert.Contains(t, output, "Reactivated")
	assert.Contains(t, output, "1000.00")
	assert.Contains(t, output, "150.50")
}

func TestPrintForecastResultsJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "forecasts.json")
	cfg := &contract.Config{
		Output:     schema.JSONOut,
		OutputFile: tmpFile,
		Precision:  2,
	}

	err := PrintForecastResults(sampleForecasts(), cfg, time.Millisecond)
	require.NoError(t, err)

	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)

	var parsed []map[string]any
	err = json.Unmarshal(content, &parsed)
	require.NoError(t, err)
	require.Len(t, parsed, 2)

	assert.Equal(t, "High", parsed[0]["confidence_label"])
	assert.Equal(t, 1200.50, parsed[0]["value"])
	assert.Equal(t, "daily", parsed[0]["period"])
	assert.Equal(t, "growing", parsed[0]["trend"])
	assert.Contains(t, parsed[0], "range")
	assert.NotContains(t, parsed[1], "range")
}

func TestPrintForecastResultsCSV(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "forecasts.csv")
	cfg := &contract.Config{
		Output:     schema.CSVOut,
		OutputFile: tmpFile,
		Precision:  2,
	}

	err := PrintForecastResults(sampleForecasts(), cfg, time.Millisecond)
	require.NoError(t, err)

	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t,
		"date,period,revenue,low,high,confidence,confidence_label,trend,seasonal_factor,existing_users,new_users,reactivated",
		lines[0])
	assert.Contains(t, lines[1], "2025-06-01,daily,1200.50,1050.00,1350.00,0.88,High,growing,1.05")
	// Exact forecast collapses the range onto the value
	assert.Contains(t, lines[2], "1180.25,1180.25,1180.25")
}

func TestPrintForecastResultsParquet(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "forecasts.parquet")
	cfg := &contract.Config{
		Output:     schema.ParquetOut,
		OutputFile: tmpFile,
		Precision:  2,
	}

	err := PrintForecastResults(sampleForecasts(), cfg, time.Millisecond)
	require.NoError(t, err)

	info, err := os.Stat(tmpFile)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func sampleWhatIf() (schema.WhatIfResult, schema.WhatIfScenario) {
	scenario := schema.WhatIfScenario{DAUChange: 10, ARPUChange: -5}
	result := schema.WhatIfResult{
		Baseline: schema.RevenueForecast{
			Value:      1000,
			Confidence: 0.80,
			Range:      &schema.PredictionRange{Low: 900, High: 1100},
		},
		Scenario: schema.RevenueForecast{
			Value:      1045,
			Confidence: 0.72,
			Range:      &schema.PredictionRange{Low: 940, High: 1150},
		},
		Difference:    45,
		PercentChange: 4.5,
	}
	return result, scenario
}

func TestWriteWhatIfTable(t *testing.T) {
	result, scenario := sampleWhatIf()
	cfg := &contract.Config{Output: schema.TextOut, Precision: 2, Width: 120}
	fmtFloat, _ := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	err := writeWhatIfTable(result, scenario, cfg, fmtFloat, &buf)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Scenario: DAU +10.0%, ARPU -5.0%, Conversion +0.0%")
	assert.Contains(t, output, "Baseline")
	assert.Contains(t, output, "1000.00")
	assert.Contains(t, output, "900.00 - 1100.00")
	assert.Contains(t, output, "1045.00")
	assert.Contains(t, output, "Difference: 45.00 (+4.5%)")
}

func TestPrintWhatIfResultJSON(t *testing.T) {
	result, scenario := sampleWhatIf()
	tmpFile := filepath.Join(t.TempDir(), "whatif.json")
	cfg := &contract.Config{
		Output:     schema.JSONOut,
		OutputFile: tmpFile,
		Precision:  2,
	}

	err := PrintWhatIfResult(result, scenario, cfg)
	require.NoError(t, err)

	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)

	var parsed map[string]any
	err = json.Unmarshal(content, &parsed)
	require.NoError(t, err)

	deltas := parsed["scenario_deltas"].(map[string]any)
	assert.Equal(t, 10.0, deltas["dau_change"])
	assert.Equal(t, -5.0, deltas["arpu_change"])

	baseline := parsed["baseline"].(map[string]any)
	assert.Equal(t, 1000.0, baseline["value"])
	assert.Equal(t, 45.0, parsed["difference"])
	assert.Equal(t, 4.5, parsed["percent_change"])
}

func TestPrintWhatIfResultCSV(t *testing.T) {
	result, scenario := sampleWhatIf()
	tmpFile := filepath.Join(t.TempDir(), "whatif.csv")
	cfg := &contract.Config{
		Output:     schema.CSVOut,
		OutputFile: tmpFile,
		Precision:  2,
	}

	err := PrintWhatIfResult(result, scenario, cfg)
	require.NoError(t, err)

	content, err := os.ReadFile(tmpFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "kind,revenue,confidence,difference,percent_change", lines[0])
	assert.Equal(t, "baseline,1000.00,0.80,,", lines[1])
	assert.Equal(t, "scenario,1045.00,0.72,45.00,4.5", lines[2])
}
