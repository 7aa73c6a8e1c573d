// Package schema has configs, models and shared constants for all parts of foresight.
package schema

import "time"

// ObservedRetention maps a day offset (non-negative) to the retention
// fraction in [0,1] observed for that day. Keys need not be contiguous.
// Day 0 is implicitly 1.0 when absent.
type ObservedRetention map[int]float64

// CohortRecord is one acquisition cohort with its observed retention curve.
// Records are caller-owned and never mutated by the engine.
type CohortRecord struct {
	CohortDate     time.Time         `json:"cohort_date"`
	Size           int               `json:"size"`
	RetentionByDay ObservedRetention `json:"retention_by_day"`
}

// CurvePoint is a single (day, retention) point on a retention curve.
type CurvePoint struct {
	Day   int     `json:"day"`
	Value float64 `json:"value"`
}

// Factor is a named contributor to a prediction, used for explainability.
type Factor struct {
	Name        string  `json:"name"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description"`
}

// PredictionRange bounds an extrapolated prediction. Low <= Value <= High.
type PredictionRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// RetentionPrediction is the result of a single retention prediction call.
// It is produced fresh per call and never mutated after return.
type RetentionPrediction struct {
	Value               float64             `json:"value"`
	Confidence          float64             `json:"confidence"`
	Range               *PredictionRange    `json:"range,omitempty"`
	RetentionCurve      []CurvePoint        `json:"retention_curve"`
	BenchmarkComparison BenchmarkComparison `json:"benchmark_comparison"`
	Factors             []Factor            `json:"factors"`
	CohortSize          int                 `json:"cohort_size,omitempty"`
}

// LTVEstimate is the cohort lifetime value derived from a retention curve.
type LTVEstimate struct {
	LTV        float64 `json:"ltv"`
	Confidence float64 `json:"confidence"`
}

// ModelMetrics summarizes the most recent train or evaluate call.
type ModelMetrics struct {
	MSE            float64   `json:"mse"`
	MAE            float64   `json:"mae"`
	DataPointsUsed int       `json:"data_points_used"`
	LastTrainedAt  time.Time `json:"last_trained_at"`
}

// RevenueDataPoint is one row of daily revenue aggregates. Rows are
// caller-owned and expected in time order.
type RevenueDataPoint struct {
	Date     time.Time `json:"date"`
	Revenue  float64   `json:"revenue"`
	DAU      int       `json:"dau"`
	NewUsers int       `json:"new_users"`
	Payers   int       `json:"payers"`
}

// RevenueBreakdown decomposes forecast revenue by user origin.
// Components sum to the forecast value within rounding tolerance.
type RevenueBreakdown struct {
	ExistingUsers float64 `json:"existing_users"`
	NewUsers      float64 `json:"new_users"`
	Reactivated   float64 `json:"reactivated"`
}

// RevenueForecast is a projected revenue figure for one day or one period.
type RevenueForecast struct {
	Date           time.Time        `json:"date"`
	Value          float64          `json:"value"`
	Confidence     float64          `json:"confidence"`
	Period         ForecastPeriod   `json:"period"`
	Breakdown      RevenueBreakdown `json:"breakdown"`
	Trend          TrendDirection   `json:"trend"`
	SeasonalFactor float64          `json:"seasonal_factor"`
	Range          *PredictionRange `json:"range,omitempty"`
	Factors        []Factor         `json:"factors"`
}

// WhatIfScenario holds percentage deltas applied to the revenue drivers.
// A zero-valued scenario leaves the forecast unchanged.
type WhatIfScenario struct {
	DAUChange        float64 `json:"dau_change"`
	ARPUChange       float64 `json:"arpu_change"`
	ConversionChange float64 `json:"conversion_change"`
}

// WhatIfResult compares a baseline aggregate forecast against a scenario
// with the deltas applied.
type WhatIfResult struct {
	Baseline      RevenueForecast `json:"baseline"`
	Scenario      RevenueForecast `json:"scenario"`
	Difference    float64         `json:"difference"`
	PercentChange float64         `json:"percent_change"`
}

// SnapshotEntry is one raw row from the model snapshot store.
type SnapshotEntry struct {
	Key      string `json:"key"`
	Payload  []byte `json:"payload"`
	Version  int    `json:"version"`
	StoredAt int64  `json:"stored_at"`
}

// StoreStatus summarizes the state of the model snapshot store.
type StoreStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}
