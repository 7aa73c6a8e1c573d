package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gamelens/foresight/schema"
	"github.com/parquet-go/parquet-go"
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

func TestForecastRecordStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	sch := parquet.SchemaOf(new(ForecastRecord))
	require.NotNil(t, sch)

	// Check that all expected columns exist
	expectedColumns := []string{
		"date",
		"period",
		"revenue",
		"low",
		"high",
		"confidence",
		"trend",
		"seasonal_factor",
		"existing_users",
		"new_users",
		"reactivated",
	}

	for _, colName := range expectedColumns {
		col, ok := sch.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestRetentionCurveRecordStructTags(t *testing.T) {
	sch := parquet.SchemaOf(new(RetentionCurveRecord))
	require.NotNil(t, sch)

	for _, colName := range []string{"day", "retention"} {
		col, ok := sch.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestSnapshotRecordStructTags(t *testing.T) {
	sch := parquet.SchemaOf(new(SnapshotRecord))
	require.NotNil(t, sch)

	for _, colName := range []string{"model_key", "payload", "version", "stored_at"} {
		col, ok := sch.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestWriteForecastsParquet(t *testing.T) {
	// Create temporary directory for test output
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "forecasts.parquet")

	data := ConvertForecasts(sampleForecasts())
	require.NotEmpty(t, data)

	// Write data to Parquet file
	err := WriteForecastsParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	// Verify file was created
	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	// Read back and verify data
	file, err := os.Open(outputPath)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[ForecastRecord](file)
	defer reader.Close()

	readData := make([]ForecastRecord, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	assert.Equal(t, len(data), n, "Should read all records")

	assert.Equal(t, data[0].Revenue, readData[0].Revenue)
	assert.Equal(t, data[0].Trend, readData[0].Trend)
	require.NotNil(t, readData[0].Low, "Bounded forecast should keep its range")
	assert.Equal(t, *data[0].Low, *readData[0].Low)
	assert.Nil(t, readData[1].Low, "Exact forecast should have no range")
}

func TestWriteRetentionCurveParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "curve.parquet")

	data := ConvertCurvePoints([]schema.CurvePoint{
		{Day: 0, Value: 1.0},
		{Day: 1, Value: 0.42},
		{Day: 7, Value: 0.21},
		{Day: 30, Value: 0.09},
	})

	err := WriteRetentionCurveParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	file, err := os.Open(outputPath)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[RetentionCurveRecord](file)
	defer reader.Close()

	readData := make([]RetentionCurveRecord, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	assert.Equal(t, len(data), n, "Should read all records")
	assert.Equal(t, int32(7), readData[2].Day)
	assert.Equal(t, 0.21, readData[2].Retention)
}

func TestWriteParquetErrors(t *testing.T) {
	t.Run("empty output path", func(t *testing.T) {
		err := WriteForecastsParquet(nil, "")
		assert.Error(t, err)
	})

	t.Run("unwritable directory", func(t *testing.T) {
		err := WriteForecastsParquet(nil, filepath.Join(t.TempDir(), "missing", "out.parquet"))
		assert.Error(t, err)
	})
}

func TestConvertForecasts(t *testing.T) {
	records := ConvertForecasts(sampleForecasts())
	require.Len(t, records, 2)

	assert.Equal(t, "daily", records[0].Period)
	assert.Equal(t, "growing", records[0].Trend)
	assert.Equal(t, 1200.50, records[0].Revenue)
	require.NotNil(t, records[0].High)
	assert.Equal(t, 1350.0, *records[0].High)
	assert.Nil(t, records[1].High)
}
