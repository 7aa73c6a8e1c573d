package schema

// Default minimum dataset sizes for training.
const (
	DefaultRetentionMinDataPoints = 30
	DefaultRevenueMinDataPoints   = 14
)

// RetentionConfig holds the tunable heuristics of the retention predictor.
// The thresholds are industry rules of thumb rather than fitted values, so
// they live here as named, overridable configuration.
type RetentionConfig struct {
	// MinDataPoints is the minimum number of cohorts required by Train.
	MinDataPoints int

	// BenchmarkDays are the canonical days at which curves are evaluated.
	BenchmarkDays []int

	// Benchmarks maps a day offset to the "good" retention threshold for
	// that day (e.g. D1 good >= 0.40).
	Benchmarks map[int]float64

	// BenchmarkTolerance is the band around a benchmark within which a
	// prediction is classified as "at" rather than above/below.
	BenchmarkTolerance float64

	// FallbackCurve is the industry-average curve used when no retention
	// data is observed at all.
	FallbackCurve ObservedRetention

	// MaxConfidence caps the confidence of any extrapolated prediction so
	// it stays strictly below the 1.0 reserved for exact observations.
	MaxConfidence float64

	// MinConfidence floors the confidence of far extrapolations.
	MinConfidence float64

	// ConfidenceDecayPerDay is how much confidence drops per day of
	// distance from the nearest observed point.
	ConfidenceDecayPerDay float64
}

// DefaultRetentionConfig returns the stock retention heuristics.
func DefaultRetentionConfig() RetentionConfig {
	return RetentionConfig{
		MinDataPoints: DefaultRetentionMinDataPoints,
		BenchmarkDays: []int{1, 3, 7, 14, 30},
		Benchmarks: map[int]float64{
			1:  0.40,
			3:  0.25,
			7:  0.20,
			14: 0.15,
			30: 0.10,
		},
		BenchmarkTolerance: 0.02,
		FallbackCurve: ObservedRetention{
			1:  0.40,
			7:  0.18,
			30: 0.08,
		},
		MaxConfidence:         0.95,
		MinConfidence:         0.20,
		ConfidenceDecayPerDay: 0.015,
	}
}

// RevenueConfig holds the tunable heuristics of the revenue forecaster.
type RevenueConfig struct {
	// MinDataPoints is the minimum number of daily rows required by Train.
	MinDataPoints int

	// StableSlopeRatio bounds the |slope|/baseline ratio below which the
	// trend is classified as stable rather than growing/declining.
	StableSlopeRatio float64

	// ConversionElasticity scales conversion-rate deltas in what-if
	// scenarios; conversion shifts move only part of total revenue.
	ConversionElasticity float64

	// ReactivatedShare is the fraction of revenue attributed to
	// reactivated users in forecast breakdowns.
	ReactivatedShare float64

	// MaxConfidence caps the confidence of the nearest-day forecast.
	MaxConfidence float64

	// MinConfidence floors the confidence of far-horizon forecasts.
	MinConfidence float64

	// ConfidenceDecayPerDay is how much confidence drops per day of
	// forecast horizon.
	ConfidenceDecayPerDay float64
}

// DefaultRevenueConfig returns the stock revenue heuristics.
func DefaultRevenueConfig() RevenueConfig {
	return RevenueConfig{
		MinDataPoints:         DefaultRevenueMinDataPoints,
		StableSlopeRatio:      0.005,
		ConversionElasticity:  0.5,
		ReactivatedShare:      0.05,
		MaxConfidence:         0.90,
		MinConfidence:         0.30,
		ConfidenceDecayPerDay: 0.01,
	}
}
