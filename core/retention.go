// Package core implements the predictive models behind foresight: the
// retention curve predictor and the revenue forecaster. Both expose the
// same train/predict/evaluate/persist lifecycle over closed-form fits.
package core

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/gamelens/foresight/internal/contract"
	"github.com/gamelens/foresight/schema"
)

// RetentionModelKey is the fixed persistence key for the retention model.
const RetentionModelKey = "foresight_retention_model"

// Confidence levels for the two-point D1/D7 specialization. Quality of the
// observed retention drives these, not just horizon distance.
const (
	healthyPairConfidence = 0.80
	mixedPairConfidence   = 0.65
	weakPairConfidence    = 0.50
)

// Span between the two observed days of the D1/D7 specialization, and the
// compounding distance from D7 out to D30.
const (
	d1ToD7Days  = 6
	d7ToD30Days = 23
)

// RetentionPredictor extrapolates user retention decay and derives cohort
// lifetime value. Construct with NewRetentionPredictor; instances are
// exclusively owned by their caller. Read-only calls are safe to run
// concurrently against a state snapshot; callers must serialize Train and
// Load themselves.
type RetentionPredictor struct {
	cfg   schema.RetentionConfig
	store contract.ModelStore

	// state is only ever replaced wholesale by construction, Train, or
	// Load; intermediate computation never leaves it partially updated.
	state *schema.RetentionSnapshot
}

// NewRetentionPredictor creates a predictor with the given heuristics and
// persistence store. A nil store disables Save/Load. The initial state is
// fitted from the configured industry-average fallback curve.
func NewRetentionPredictor(cfg schema.RetentionConfig, store contract.ModelStore) *RetentionPredictor {
	base, decay := logLinearFit(cfg.FallbackCurve.Points(), nil)
	return &RetentionPredictor{
		cfg:   cfg,
		store: store,
		state: &schema.RetentionSnapshot{
			Base:     base,
			Decay:    decay,
			GameType: classifyGameType(base, decay),
		},
	}
}

// PredictRetention estimates retention at targetDay from a sparse observed
// set. Exact observations win: when targetDay is observed the value is
// returned verbatim with confidence 1.0 and no range. Otherwise a geometric
// decay curve is fitted to the observations and extrapolated. The call is
// total; degenerate input falls back to the current model state (the
// industry-average curve when untrained).
func (p *RetentionPredictor) PredictRetention(observed schema.ObservedRetention, targetDay, cohortSize int) schema.RetentionPrediction {
	if targetDay < 0 {
		targetDay = 0
	}

	if v, ok := observed.At(targetDay); ok {
		base, decay := p.fitObserved(observed)
		return schema.RetentionPrediction{
			Value:               schema.Clamp01(v),
			Confidence:          1.0,
			RetentionCurve:      p.benchmarkCurve(base, decay, targetDay),
			BenchmarkComparison: p.compareBenchmark(schema.Clamp01(v), targetDay),
			Factors: []schema.Factor{{
				Name:        schema.FactorObservedRetention,
				Weight:      1.0,
				Description: fmt.Sprintf("Day %d retention observed directly", targetDay),
			}},
			CohortSize: cohortSize,
		}
	}

	base, decay := p.fitObserved(observed)
	value := evalDecayCurve(base, decay, targetDay)
	dist := p.extrapolationDistance(observed, targetDay)
	confidence := p.distanceConfidence(dist)

	return schema.RetentionPrediction{
		Value:               value,
		Confidence:          confidence,
		Range:               extrapolationRange(value, confidence, base),
		RetentionCurve:      p.benchmarkCurve(base, decay, targetDay),
		BenchmarkComparison: p.compareBenchmark(value, targetDay),
		Factors:             p.extrapolationFactors(observed, decay, dist, cohortSize),
		CohortSize:          cohortSize,
	}
}

// PredictD30FromEarly predicts day-30 retention from exactly two observed
// points. The per-period decay between D1 and D7 is compounded forward to
// D30 under the same geometric-decay assumption. Confidence reflects the
// quality of the observed retention, not only the horizon.
func (p *RetentionPredictor) PredictD30FromEarly(d1, d7 float64, cohortSize int) schema.RetentionPrediction {
	d1 = schema.Clamp01(d1)
	d7 = schema.Clamp01(d7)
	if d1 <= 0 {
		// Nothing to compound from; treat as degenerate input.
		return p.PredictRetention(schema.ObservedRetention{}, 30, cohortSize)
	}

	rate := math.Pow(d7/d1, 1.0/float64(d1ToD7Days))
	if rate > 1.0 {
		rate = 1.0
	}
	value := schema.Clamp01(d7 * math.Pow(rate, float64(d7ToD30Days)))
	confidence := p.pairConfidence(d1, d7)

	observed := schema.ObservedRetention{1: d1, 7: d7}
	base, decay := p.fitObserved(observed)

	return schema.RetentionPrediction{
		Value:               value,
		Confidence:          confidence,
		Range:               extrapolationRange(value, confidence, base),
		RetentionCurve:      p.benchmarkCurve(base, decay, 30),
		BenchmarkComparison: p.compareBenchmark(value, 30),
		Factors: appendCohortFactor([]schema.Factor{
			{
				Name:        schema.FactorD1Retention,
				Weight:      0.5,
				Description: fmt.Sprintf("Observed D1 retention of %.2f anchors the curve", d1),
			},
			{
				Name:        schema.FactorDecayRate,
				Weight:      0.5,
				Description: fmt.Sprintf("D1 to D7 decay ratio of %.2f compounded to D30", d7/d1),
			},
		}, cohortSize),
		CohortSize: cohortSize,
	}
}

// PredictCohortLTV integrates retention mass over the horizon at the given
// per-day revenue rate. The supplied curve is interpolated between known
// points and extended at its tail decay rate beyond coverage.
func (p *RetentionPredictor) PredictCohortLTV(curve []schema.CurvePoint, dailyRevenuePerUser float64, horizonDays int) schema.LTVEstimate {
	if horizonDays < 0 {
		horizonDays = 0
	}
	if dailyRevenuePerUser < 0 {
		dailyRevenuePerUser = 0
	}

	points := normalizeCurve(curve)
	if len(points) == 0 {
		points = p.cfg.FallbackCurve.Points()
	}

	var mass float64
	for d := 0; d <= horizonDays; d++ {
		mass += interpolateCurve(points, d)
	}

	confidence := schema.ClampRange(
		p.cfg.MaxConfidence*math.Exp(-float64(horizonDays)/365.0),
		0.05, p.cfg.MaxConfidence,
	)
	return schema.LTVEstimate{
		LTV:        mass * dailyRevenuePerUser,
		Confidence: confidence,
	}
}

// Train fits a single global decay model across all cohorts by regression
// weighted by cohort size. It returns ErrInsufficientData without touching
// state when the dataset is below the configured minimum.
func (p *RetentionPredictor) Train(dataset []schema.CohortRecord) (schema.ModelMetrics, error) {
	if len(dataset) < p.cfg.MinDataPoints {
		return schema.ModelMetrics{}, fmt.Errorf(
			"%w: got %d cohorts, need at least %d", ErrInsufficientData, len(dataset), p.cfg.MinDataPoints)
	}

	var points []schema.CurvePoint
	var weights []float64
	for _, cohort := range dataset {
		w := float64(cohort.Size)
		if w < 1 {
			w = 1
		}
		for _, pt := range cohort.RetentionByDay.Points() {
			points = append(points, pt)
			weights = append(weights, w)
		}
	}

	base, decay := logLinearFit(points, weights)
	next := schema.RetentionSnapshot{
		Base:      base,
		Decay:     decay,
		GameType:  classifyGameType(base, decay),
		TrainedAt: time.Now(),
	}
	next.Metrics = retentionError(base, decay, dataset)
	next.Metrics.DataPointsUsed = len(dataset)
	next.Metrics.LastTrainedAt = next.TrainedAt

	p.state = &next
	return next.Metrics, nil
}

// Evaluate computes the prediction error of the current model against
// held-out cohort curves without mutating state. An empty dataset yields
// all-zero metrics.
func (p *RetentionPredictor) Evaluate(dataset []schema.CohortRecord) schema.ModelMetrics {
	if len(dataset) == 0 {
		return schema.ModelMetrics{}
	}
	state := p.state
	metrics := retentionError(state.Base, state.Decay, dataset)
	metrics.DataPointsUsed = len(dataset)
	metrics.LastTrainedAt = state.TrainedAt
	return metrics
}

// FeatureImportance reports the relative weight of each named model input.
// Weights sum to 1.
func (p *RetentionPredictor) FeatureImportance() map[string]float64 {
	return map[string]float64{
		schema.FeatureD1Retention: 0.45,
		schema.FeatureD7Retention: 0.30,
		schema.FeatureCohortSize:  0.15,
		schema.FeatureGameType:    0.10,
	}
}

// Snapshot returns a copy of the current model state.
func (p *RetentionPredictor) Snapshot() schema.RetentionSnapshot {
	return *p.state
}

// Save serializes the model snapshot through the persistence store under
// the fixed retention key.
func (p *RetentionPredictor) Save() error {
	if p.store == nil {
		return fmt.Errorf("no model store configured")
	}
	data, err := json.Marshal(p.state)
	if err != nil {
		return fmt.Errorf("failed to serialize retention snapshot: %w", err)
	}
	return p.store.Set(RetentionModelKey, data, schema.SnapshotVersion, time.Now().Unix())
}

// Load restores the model snapshot from the persistence store. It reports
// whether a snapshot was restored; a missing key, version mismatch, or
// malformed payload leaves the current in-memory state unchanged.
func (p *RetentionPredictor) Load() bool {
	if p.store == nil {
		return false
	}
	data, version, _, err := p.store.Get(RetentionModelKey)
	if err != nil || version != schema.SnapshotVersion {
		return false
	}
	var snap schema.RetentionSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return false
	}
	if snap.Base <= 0 || snap.Decay <= 0 || snap.Decay > 1 {
		return false
	}
	p.state = &snap
	return true
}

// fitObserved fits the geometric decay curve for a single prediction call,
// falling back to the current model state when nothing was observed.
func (p *RetentionPredictor) fitObserved(observed schema.ObservedRetention) (base, decay float64) {
	if len(observed) == 0 {
		return p.state.Base, p.state.Decay
	}
	return logLinearFit(observed.Points(), nil)
}

// extrapolationDistance measures how far targetDay sits from the nearest
// observed day.
func (p *RetentionPredictor) extrapolationDistance(observed schema.ObservedRetention, targetDay int) int {
	nearest := observed.NearestDay(targetDay)
	dist := targetDay - nearest
	if dist < 0 {
		dist = -dist
	}
	return dist
}

// distanceConfidence decays confidence with extrapolation distance. The
// result is strictly below 1 and never leaves [MinConfidence, MaxConfidence].
func (p *RetentionPredictor) distanceConfidence(dist int) float64 {
	return schema.ClampRange(
		p.cfg.MaxConfidence-p.cfg.ConfidenceDecayPerDay*float64(dist),
		p.cfg.MinConfidence, p.cfg.MaxConfidence,
	)
}

// pairConfidence grades the D1/D7 pair by retention quality against the
// healthy benchmarks.
func (p *RetentionPredictor) pairConfidence(d1, d7 float64) float64 {
	goodD1 := p.cfg.Benchmarks[1]
	goodD7 := p.cfg.Benchmarks[7]
	switch {
	case d1 >= goodD1 && d7 >= goodD7:
		return healthyPairConfidence
	case d1 < goodD1/2 && d7 < goodD7/2:
		return weakPairConfidence
	default:
		return mixedPairConfidence
	}
}

// benchmarkCurve evaluates the fitted model at the canonical benchmark days
// up to and including targetDay. Geometric decay with a rate in (0,1] keeps
// the curve non-increasing.
func (p *RetentionPredictor) benchmarkCurve(base, decay float64, targetDay int) []schema.CurvePoint {
	var curve []schema.CurvePoint
	for _, day := range p.cfg.BenchmarkDays {
		if day > targetDay {
			break
		}
		curve = append(curve, schema.CurvePoint{Day: day, Value: evalDecayCurve(base, decay, day)})
	}
	if n := len(curve); n == 0 || curve[n-1].Day < targetDay {
		curve = append(curve, schema.CurvePoint{Day: targetDay, Value: evalDecayCurve(base, decay, targetDay)})
	}
	return curve
}

// compareBenchmark classifies value against the benchmark threshold of the
// nearest canonical day.
func (p *RetentionPredictor) compareBenchmark(value float64, targetDay int) schema.BenchmarkComparison {
	day := p.cfg.BenchmarkDays[0]
	bestDist := math.Abs(float64(targetDay - day))
	for _, d := range p.cfg.BenchmarkDays[1:] {
		if dist := math.Abs(float64(targetDay - d)); dist < bestDist {
			day = d
			bestDist = dist
		}
	}

	threshold := p.cfg.Benchmarks[day]
	switch {
	case value > threshold+p.cfg.BenchmarkTolerance:
		return schema.AboveBenchmark
	case value < threshold-p.cfg.BenchmarkTolerance:
		return schema.BelowBenchmark
	default:
		return schema.AtBenchmark
	}
}

// extrapolationFactors names the contributors behind an extrapolated
// prediction, normalized to unit weight.
func (p *RetentionPredictor) extrapolationFactors(observed schema.ObservedRetention, decay float64, dist, cohortSize int) []schema.Factor {
	var factors []schema.Factor
	if len(observed) == 0 {
		factors = append(factors, schema.Factor{
			Name:        schema.FactorIndustryFallback,
			Weight:      0.6,
			Description: "No observations; using industry-average decay curve",
		})
	} else if d1, ok := observed[1]; ok {
		factors = append(factors, schema.Factor{
			Name:        schema.FactorD1Retention,
			Weight:      0.4,
			Description: fmt.Sprintf("Observed D1 retention of %.2f anchors the curve", d1),
		})
	}
	factors = append(factors,
		schema.Factor{
			Name:        schema.FactorDecayRate,
			Weight:      0.3,
			Description: fmt.Sprintf("Fitted per-day decay of %.3f", decay),
		},
		schema.Factor{
			Name:        schema.FactorExtrapolation,
			Weight:      0.2,
			Description: fmt.Sprintf("%d days beyond the nearest observation", dist),
		},
	)
	factors = appendCohortFactor(factors, cohortSize)
	return normalizeFactors(factors)
}

// appendCohortFactor adds the cohort-size contributor when a size was given.
func appendCohortFactor(factors []schema.Factor, cohortSize int) []schema.Factor {
	if cohortSize <= 0 {
		return factors
	}
	return append(factors, schema.Factor{
		Name:        schema.FactorCohortSize,
		Weight:      0.1,
		Description: fmt.Sprintf("Cohort of %d users", cohortSize),
	})
}

// normalizeFactors scales factor weights so they sum to 1.
func normalizeFactors(factors []schema.Factor) []schema.Factor {
	var total float64
	for _, f := range factors {
		total += f.Weight
	}
	if total <= 0 {
		return factors
	}
	for i := range factors {
		factors[i].Weight /= total
	}
	return factors
}

// minRangeScale floors the uncertainty scale so degenerate fits still carry
// a visible band.
const minRangeScale = 0.05

// extrapolationRange bounds an extrapolated value. The half-width is
// (1-confidence) times the fitted day-zero anchor rather than the decayed
// value, so the band only widens as confidence drops with distance. The band
// shifts to stay inside [0,1] instead of clipping, which would narrow it
// again at the edges.
func extrapolationRange(value, confidence, scale float64) *schema.PredictionRange {
	half := (1 - confidence) * math.Max(scale, minRangeScale)
	low := value - half
	high := value + half
	if low < 0 {
		high = math.Min(high-low, 1)
		low = 0
	} else if high > 1 {
		low = math.Max(low-(high-1), 0)
		high = 1
	}
	return &schema.PredictionRange{Low: low, High: high}
}

// normalizeCurve returns a sorted, deduplicated, clamped copy of a curve.
func normalizeCurve(curve []schema.CurvePoint) []schema.CurvePoint {
	if len(curve) == 0 {
		return nil
	}
	points := make([]schema.CurvePoint, len(curve))
	copy(points, curve)
	sort.Slice(points, func(i, j int) bool { return points[i].Day < points[j].Day })

	out := points[:0]
	for _, pt := range points {
		if pt.Day < 0 {
			continue
		}
		pt.Value = schema.Clamp01(pt.Value)
		if n := len(out); n > 0 && out[n-1].Day == pt.Day {
			out[n-1] = pt
			continue
		}
		out = append(out, pt)
	}
	return out
}

// classifyGameType labels the fitted curve by its implied D1 retention.
// Long-session genres retain better on day one than casual titles.
func classifyGameType(base, decay float64) schema.GameType {
	d1 := evalDecayCurve(base, decay, 1)
	switch {
	case d1 >= 0.40:
		return schema.HardcoreGame
	case d1 >= 0.30:
		return schema.MidcoreGame
	default:
		return schema.CasualGame
	}
}

// retentionError measures model error against observed cohort curves.
func retentionError(base, decay float64, dataset []schema.CohortRecord) schema.ModelMetrics {
	var sqSum, absSum float64
	var n int
	for _, cohort := range dataset {
		for day, actual := range cohort.RetentionByDay {
			diff := evalDecayCurve(base, decay, day) - schema.Clamp01(actual)
			sqSum += diff * diff
			absSum += math.Abs(diff)
			n++
		}
	}
	if n == 0 {
		return schema.ModelMetrics{}
	}
	return schema.ModelMetrics{
		MSE: sqSum / float64(n),
		MAE: absSum / float64(n),
	}
}
