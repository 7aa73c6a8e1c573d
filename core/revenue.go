package core

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/gamelens/foresight/internal/contract"
	"github.com/gamelens/foresight/schema"
)

// RevenueModelKey is the fixed persistence key for the revenue model.
const RevenueModelKey = "foresight_revenue_model"

// weekdayFactorFloor keeps seasonal multipliers strictly positive even for
// weekdays with no revenue in the training window.
const weekdayFactorFloor = 0.1

// RevenueForecaster projects future daily revenue from historical daily
// aggregates, with trend, day-of-week seasonality, and scenario analysis.
// Construct with NewRevenueForecaster; instances are exclusively owned by
// their caller. Read-only calls are safe to run concurrently against a
// state snapshot; callers must serialize Train and Load themselves.
type RevenueForecaster struct {
	cfg   schema.RevenueConfig
	store contract.ModelStore

	// state is only ever replaced wholesale by construction, Train, or
	// Load; intermediate computation never leaves it partially updated.
	state *schema.RevenueSnapshot
}

// NewRevenueForecaster creates a forecaster with the given heuristics and
// persistence store. A nil store disables Save/Load. The initial state is a
// neutral zero-revenue model; Forecast is still total against it.
func NewRevenueForecaster(cfg schema.RevenueConfig, store contract.ModelStore) *RevenueForecaster {
	snap := &schema.RevenueSnapshot{}
	for i := range snap.WeekdayFactors {
		snap.WeekdayFactors[i] = 1.0
	}
	return &RevenueForecaster{cfg: cfg, store: store, state: snap}
}

// Forecast projects revenue for the next days calendar days, one entry per
// day in order. Confidence is non-increasing across entries. Breakdown is
// zero-filled unless includeBreakdown is set.
func (f *RevenueForecaster) Forecast(days int, includeBreakdown bool) []schema.RevenueForecast {
	if days < 0 {
		days = 0
	}
	anchor := f.anchor()
	out := make([]schema.RevenueForecast, 0, days)
	for i := 1; i <= days; i++ {
		fc := f.ForecastSingleDay(anchor.AddDate(0, 0, i))
		if !includeBreakdown {
			fc.Breakdown = schema.RevenueBreakdown{}
		}
		out = append(out, fc)
	}
	return out
}

// ForecastSingleDay applies the learned trend (baseline plus slope times the
// day offset from training end) multiplied by the weekday seasonal factor.
func (f *RevenueForecaster) ForecastSingleDay(date time.Time) schema.RevenueForecast {
	state := f.state
	offset := daysBetween(f.anchor(), date)

	seasonal := state.WeekdayFactors[int(date.Weekday())]
	if seasonal <= 0 {
		seasonal = weekdayFactorFloor
	}

	value := (state.Baseline + state.Slope*float64(offset)) * seasonal
	if value < 0 {
		value = 0
	}
	confidence := f.horizonConfidence(offset)

	return schema.RevenueForecast{
		Date:           date,
		Value:          value,
		Confidence:     confidence,
		Period:         schema.DailyPeriod,
		Breakdown:      f.breakdown(value),
		Trend:          f.trend(),
		SeasonalFactor: seasonal,
		Range:          forecastRange(value, confidence),
		Factors:        f.forecastFactors(seasonal, offset),
	}
}

// ForecastPeriod aggregates the daily forecast over one week or one month.
// The combined confidence is the minimum of the constituent confidences, a
// conservative aggregate rather than an average.
func (f *RevenueForecaster) ForecastPeriod(period schema.ForecastPeriod) schema.RevenueForecast {
	days := schema.DaysPerWeek
	if period == schema.MonthlyPeriod {
		days = schema.DaysPerMonth
	}
	agg := f.aggregate(days)
	agg.Period = period
	return agg
}

// WhatIf computes a baseline aggregate over horizonDays, then a scenario
// aggregate with the percentage deltas applied multiplicatively to the
// revenue drivers. Conversion deltas are damped by the configured
// elasticity since only payer revenue moves with conversion.
func (f *RevenueForecaster) WhatIf(scenario schema.WhatIfScenario, horizonDays int) schema.WhatIfResult {
	if horizonDays <= 0 {
		horizonDays = contract.DefaultHorizonDays
	}
	baseline := f.aggregate(horizonDays)

	factor := driverTerm(scenario.DAUChange) *
		driverTerm(scenario.ARPUChange) *
		driverTerm(scenario.ConversionChange*f.cfg.ConversionElasticity)

	adjusted := baseline
	adjusted.Value = baseline.Value * factor
	adjusted.Breakdown = schema.RevenueBreakdown{
		ExistingUsers: baseline.Breakdown.ExistingUsers * factor,
		NewUsers:      baseline.Breakdown.NewUsers * factor,
		Reactivated:   baseline.Breakdown.Reactivated * factor,
	}
	if baseline.Range != nil {
		adjusted.Range = &schema.PredictionRange{
			Low:  baseline.Range.Low * factor,
			High: baseline.Range.High * factor,
		}
	}
	adjusted.Factors = []schema.Factor{
		{Name: schema.FeatureDAU, Weight: 0.4, Description: fmt.Sprintf("DAU shift of %+.1f%%", scenario.DAUChange)},
		{Name: schema.FeatureARPDAU, Weight: 0.4, Description: fmt.Sprintf("ARPU shift of %+.1f%%", scenario.ARPUChange)},
		{Name: schema.FeatureConversion, Weight: 0.2, Description: fmt.Sprintf("Conversion shift of %+.1f%%", scenario.ConversionChange)},
	}

	difference := adjusted.Value - baseline.Value
	var percent float64
	if baseline.Value != 0 {
		percent = difference / baseline.Value * 100
	}
	return schema.WhatIfResult{
		Baseline:      baseline,
		Scenario:      adjusted,
		Difference:    difference,
		PercentChange: percent,
	}
}

// Train fits a linear revenue trend over the time index and per-weekday
// seasonal multipliers normalized to mean 1.0. It returns
// ErrInsufficientData without touching state when the dataset is below the
// configured minimum.
func (f *RevenueForecaster) Train(data []schema.RevenueDataPoint) (schema.ModelMetrics, error) {
	if len(data) < f.cfg.MinDataPoints {
		return schema.ModelMetrics{}, fmt.Errorf(
			"%w: got %d days, need at least %d", ErrInsufficientData, len(data), f.cfg.MinDataPoints)
	}

	revenues := make([]float64, len(data))
	for i, row := range data {
		revenues[i] = math.Max(row.Revenue, 0)
	}
	intercept, slope := linearFit(revenues)

	baseline := intercept + slope*float64(len(data)-1)
	if baseline < 0 {
		baseline = 0
	}

	next := schema.RevenueSnapshot{
		Baseline:       baseline,
		Slope:          slope,
		WeekdayFactors: weekdayFactors(data),
		TrainEnd:       data[len(data)-1].Date,
		TrainedAt:      time.Now(),
	}
	next.NewUserShare, next.ARPDAU, next.Conversion = driverAverages(data, f.cfg.ReactivatedShare)
	next.Metrics = revenueError(&next, data)
	next.Metrics.DataPointsUsed = len(data)
	next.Metrics.LastTrainedAt = next.TrainedAt

	f.state = &next
	return next.Metrics, nil
}

// Evaluate computes the prediction error of the current model against
// held-out daily rows without mutating state. An empty dataset yields
// all-zero metrics.
func (f *RevenueForecaster) Evaluate(data []schema.RevenueDataPoint) schema.ModelMetrics {
	if len(data) == 0 {
		return schema.ModelMetrics{}
	}
	state := f.state
	metrics := revenueError(state, data)
	metrics.DataPointsUsed = len(data)
	metrics.LastTrainedAt = state.TrainedAt
	return metrics
}

// FeatureImportance reports the relative weight of each named model input.
// Weights sum to 1.
func (f *RevenueForecaster) FeatureImportance() map[string]float64 {
	return map[string]float64{
		schema.FeatureTrend:     0.35,
		schema.FeatureDayOfWeek: 0.25,
		schema.FeatureDAU:       0.20,
		schema.FeatureARPDAU:    0.20,
	}
}

// Snapshot returns a copy of the current model state.
func (f *RevenueForecaster) Snapshot() schema.RevenueSnapshot {
	return *f.state
}

// Save serializes the model snapshot through the persistence store under
// the fixed revenue key.
func (f *RevenueForecaster) Save() error {
	if f.store == nil {
		return fmt.Errorf("no model store configured")
	}
	data, err := json.Marshal(f.state)
	if err != nil {
		return fmt.Errorf("failed to serialize revenue snapshot: %w", err)
	}
	return f.store.Set(RevenueModelKey, data, schema.SnapshotVersion, time.Now().Unix())
}

// Load restores the model snapshot from the persistence store. It reports
// whether a snapshot was restored; a missing key, version mismatch, or
// malformed payload leaves the current in-memory state unchanged.
func (f *RevenueForecaster) Load() bool {
	if f.store == nil {
		return false
	}
	data, version, _, err := f.store.Get(RevenueModelKey)
	if err != nil || version != schema.SnapshotVersion {
		return false
	}
	var snap schema.RevenueSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return false
	}
	if snap.Baseline < 0 {
		return false
	}
	f.state = &snap
	return true
}

// anchor is the date forecast offsets are measured from: the end of the
// training window, or today for an untrained model.
func (f *RevenueForecaster) anchor() time.Time {
	if f.state.TrainEnd.IsZero() {
		return time.Now().Truncate(24 * time.Hour)
	}
	return f.state.TrainEnd
}

// aggregate sums the daily forecast over a horizon into one record.
func (f *RevenueForecaster) aggregate(days int) schema.RevenueForecast {
	dailies := f.Forecast(days, true)

	agg := schema.RevenueForecast{
		Date:           f.anchor().AddDate(0, 0, 1),
		Period:         schema.DailyPeriod,
		Trend:          f.trend(),
		SeasonalFactor: 1.0,
		Confidence:     f.cfg.MaxConfidence,
	}
	var low, high float64
	for _, d := range dailies {
		agg.Value += d.Value
		agg.Breakdown.ExistingUsers += d.Breakdown.ExistingUsers
		agg.Breakdown.NewUsers += d.Breakdown.NewUsers
		agg.Breakdown.Reactivated += d.Breakdown.Reactivated
		if d.Confidence < agg.Confidence {
			agg.Confidence = d.Confidence
		}
		if d.Range != nil {
			low += d.Range.Low
			high += d.Range.High
		}
	}
	if len(dailies) > 0 {
		agg.Range = &schema.PredictionRange{Low: low, High: high}
		agg.Factors = dailies[0].Factors
	}
	return agg
}

// breakdown splits a forecast value by user origin using the shares learned
// at training time.
func (f *RevenueForecaster) breakdown(value float64) schema.RevenueBreakdown {
	state := f.state
	newShare := state.NewUserShare
	reactivated := f.cfg.ReactivatedShare
	existing := 1 - newShare - reactivated
	if existing < 0 {
		existing = 0
	}
	return schema.RevenueBreakdown{
		ExistingUsers: value * existing,
		NewUsers:      value * newShare,
		Reactivated:   value * reactivated,
	}
}

// trend classifies the fitted slope relative to the baseline level.
func (f *RevenueForecaster) trend() schema.TrendDirection {
	state := f.state
	denom := math.Max(math.Abs(state.Baseline), 1)
	ratio := state.Slope / denom
	switch {
	case ratio > f.cfg.StableSlopeRatio:
		return schema.GrowingTrend
	case ratio < -f.cfg.StableSlopeRatio:
		return schema.DecliningTrend
	default:
		return schema.StableTrend
	}
}

// horizonConfidence decays confidence with forecast distance, flooring at
// the configured minimum.
func (f *RevenueForecaster) horizonConfidence(offset int) float64 {
	if offset < 0 {
		offset = 0
	}
	return schema.ClampRange(
		f.cfg.MaxConfidence-f.cfg.ConfidenceDecayPerDay*float64(offset),
		f.cfg.MinConfidence, f.cfg.MaxConfidence,
	)
}

// forecastFactors names the contributors behind a daily forecast.
func (f *RevenueForecaster) forecastFactors(seasonal float64, offset int) []schema.Factor {
	state := f.state
	return []schema.Factor{
		{
			Name:        schema.FactorBaseline,
			Weight:      0.4,
			Description: fmt.Sprintf("Trend level of %.2f at end of training", state.Baseline),
		},
		{
			Name:        schema.FactorTrend,
			Weight:      0.35,
			Description: fmt.Sprintf("Per-day slope of %+.2f applied over %d days", state.Slope, offset),
		},
		{
			Name:        schema.FactorSeasonality,
			Weight:      0.25,
			Description: fmt.Sprintf("Weekday multiplier of %.2f", seasonal),
		},
	}
}

// driverTerm converts a percentage delta into a non-negative multiplier.
func driverTerm(percent float64) float64 {
	term := 1 + percent/100
	if term < 0 {
		return 0
	}
	return term
}

// forecastRange bounds a forecast value; the band widens as confidence
// drops with horizon.
func forecastRange(value, confidence float64) *schema.PredictionRange {
	half := (1 - confidence) * value
	low := value - half
	if low < 0 {
		low = 0
	}
	return &schema.PredictionRange{Low: low, High: value + half}
}

// daysBetween counts whole calendar days from a to b.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// weekdayFactors computes per-weekday revenue multipliers normalized to
// mean 1.0 across the week.
func weekdayFactors(data []schema.RevenueDataPoint) [7]float64 {
	var sums, counts [7]float64
	var total float64
	for _, row := range data {
		wd := int(row.Date.Weekday())
		rev := math.Max(row.Revenue, 0)
		sums[wd] += rev
		counts[wd]++
		total += rev
	}

	overall := total / float64(len(data))
	var factors [7]float64
	for i := range factors {
		factors[i] = 1.0
		if counts[i] > 0 && overall > 0 {
			factors[i] = (sums[i] / counts[i]) / overall
		}
		if factors[i] < weekdayFactorFloor {
			factors[i] = weekdayFactorFloor
		}
	}

	// Renormalize so the multipliers average to exactly 1.0.
	var mean float64
	for _, v := range factors {
		mean += v
	}
	mean /= 7
	if mean > 0 {
		for i := range factors {
			factors[i] /= mean
		}
	}
	return factors
}

// driverAverages derives the revenue-driver shares from the training rows.
func driverAverages(data []schema.RevenueDataPoint, reactivatedShare float64) (newShare, arpdau, conversion float64) {
	var n float64
	for _, row := range data {
		if row.DAU <= 0 {
			continue
		}
		dau := float64(row.DAU)
		newShare += float64(row.NewUsers) / dau
		arpdau += math.Max(row.Revenue, 0) / dau
		conversion += float64(row.Payers) / dau
		n++
	}
	if n == 0 {
		return 0, 0, 0
	}
	newShare /= n
	arpdau /= n
	conversion /= n

	// New users can never own more of the breakdown than what is left
	// after the reactivated share.
	maxNewShare := 0.9 - reactivatedShare
	if newShare > maxNewShare {
		newShare = maxNewShare
	}
	return newShare, arpdau, conversion
}

// revenueError measures model error against actual daily rows.
func revenueError(state *schema.RevenueSnapshot, data []schema.RevenueDataPoint) schema.ModelMetrics {
	var sqSum, absSum float64
	for _, row := range data {
		offset := daysBetween(state.TrainEnd, row.Date)
		seasonal := state.WeekdayFactors[int(row.Date.Weekday())]
		if seasonal <= 0 {
			seasonal = weekdayFactorFloor
		}
		predicted := (state.Baseline + state.Slope*float64(offset)) * seasonal
		if predicted < 0 {
			predicted = 0
		}
		diff := predicted - math.Max(row.Revenue, 0)
		sqSum += diff * diff
		absSum += math.Abs(diff)
	}
	n := float64(len(data))
	return schema.ModelMetrics{
		MSE: sqSum / n,
		MAE: absSum / n,
	}
}
