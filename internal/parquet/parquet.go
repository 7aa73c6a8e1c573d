// Package parquet provides data structures and functions for exporting
// forecast and retention data to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/gamelens/foresight/schema"
	"github.com/parquet-go/parquet-go"
)

// ForecastRecord represents a single daily revenue forecast row.
type ForecastRecord struct {
	// Date is the calendar day the forecast applies to
	Date time.Time `parquet:"date,snappy"`

	// Period is the aggregation granularity (daily, weekly, monthly)
	Period string `parquet:"period,snappy"`

	// Revenue is the projected revenue for the day
	Revenue float64 `parquet:"revenue,snappy"`

	// Low and High bound the projection (nullable for exact values)
	Low  *float64 `parquet:"low,optional,snappy"`
	High *float64 `parquet:"high,optional,snappy"`

	// Confidence is the forecast confidence in [0,1]
	Confidence float64 `parquet:"confidence,snappy"`

	// Trend is the fitted trend direction (growing, stable, declining)
	Trend string `parquet:"trend,snappy"`

	// SeasonalFactor is the day-of-week multiplier applied
	SeasonalFactor float64 `parquet:"seasonal_factor,snappy"`

	// Revenue breakdown by user origin
	ExistingUsers float64 `parquet:"existing_users,snappy"`
	NewUsers      float64 `parquet:"new_users,snappy"`
	Reactivated   float64 `parquet:"reactivated,snappy"`
}

// RetentionCurveRecord represents one point on a predicted retention curve.
type RetentionCurveRecord struct {
	// Day is the offset from the cohort acquisition date
	Day int32 `parquet:"day,snappy"`

	// Retention is the predicted retention fraction in [0,1]
	Retention float64 `parquet:"retention,snappy"`
}

// SnapshotRecord represents a stored model snapshot row for export.
type SnapshotRecord struct {
	// ModelKey is the persistence key the snapshot is stored under
	ModelKey string `parquet:"model_key,snappy"`

	// Payload is the JSON-encoded snapshot
	Payload []byte `parquet:"payload,snappy"`

	// Version is the snapshot schema version
	Version int32 `parquet:"version,snappy"`

	// StoredAt is when the snapshot was written (Unix seconds)
	StoredAt int64 `parquet:"stored_at,snappy"`
}

// WriteForecastsParquet writes a slice of ForecastRecord structs to a Parquet file.
func WriteForecastsParquet(data []ForecastRecord, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRetentionCurveParquet writes a slice of RetentionCurveRecord structs to a Parquet file.
func WriteRetentionCurveParquet(data []RetentionCurveRecord, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteSnapshotsParquet writes a slice of SnapshotRecord structs to a Parquet file.
func WriteSnapshotsParquet(data []SnapshotRecord, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes records to a Parquet file using struct schema inference.
func writeParquet[T any](data []T, outputPath string) error {
	if outputPath == "" {
		return fmt.Errorf("output file is required for parquet export")
	}

	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the struct tags
	writer := parquet.NewGenericWriter[T](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	// The Write method accepts a variadic slice
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertForecasts converts schema.RevenueForecast to ForecastRecord for Parquet export.
func ConvertForecasts(forecasts []schema.RevenueForecast) []ForecastRecord {
	result := make([]ForecastRecord, len(forecasts))
	for i, f := range forecasts {
		record := ForecastRecord{
			Date:           f.Date,
			Period:         string(f.Period),
			Revenue:        f.Value,
			Confidence:     f.Confidence,
			Trend:          string(f.Trend),
			SeasonalFactor: f.SeasonalFactor,
			ExistingUsers:  f.Breakdown.ExistingUsers,
			NewUsers:       f.Breakdown.NewUsers,
			Reactivated:    f.Breakdown.Reactivated,
		}
		if f.Range != nil {
			low, high := f.Range.Low, f.Range.High
			record.Low = &low
			record.High = &high
		}
		result[i] = record
	}
	return result
}

// ConvertCurvePoints converts schema.CurvePoint to RetentionCurveRecord for Parquet export.
func ConvertCurvePoints(points []schema.CurvePoint) []RetentionCurveRecord {
	result := make([]RetentionCurveRecord, len(points))
	for i, p := range points {
		result[i] = RetentionCurveRecord{
			Day:       int32(p.Day),
			Retention: p.Value,
		}
	}
	return result
}

// ConvertSnapshots converts store snapshot rows to Parquet records.
func ConvertSnapshots(entries []schema.SnapshotEntry) []SnapshotRecord {
	result := make([]SnapshotRecord, len(entries))
	for i, e := range entries {
		result[i] = SnapshotRecord{
			ModelKey: e.Key,
			Payload:  e.Payload,
			Version:  int32(e.Version),
			StoredAt: e.StoredAt,
		}
	}
	return result
}
