package schema

// Custom string types for type safety.
type (
	// BenchmarkComparison classifies a prediction against the industry benchmark table.
	BenchmarkComparison string

	// TrendDirection represents the direction of a revenue trend.
	TrendDirection string

	// ForecastPeriod represents the aggregation period of a revenue forecast.
	ForecastPeriod string

	// GameType is the game-style label inferred from a fitted retention curve.
	GameType string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for model storage.
	DatabaseBackend string
)

// All benchmark comparisons supported.
const (
	AboveBenchmark BenchmarkComparison = "above"
	AtBenchmark    BenchmarkComparison = "at"
	BelowBenchmark BenchmarkComparison = "below"
)

// All trend directions supported.
const (
	GrowingTrend   TrendDirection = "growing"
	StableTrend    TrendDirection = "stable"
	DecliningTrend TrendDirection = "declining"
)

// All forecast periods supported.
const (
	DailyPeriod   ForecastPeriod = "daily" // default
	WeeklyPeriod  ForecastPeriod = "weekly"
	MonthlyPeriod ForecastPeriod = "monthly"
)

// Days covered by each aggregation period.
const (
	DaysPerWeek  = 7
	DaysPerMonth = 30
)

// All game types inferred from retention quality.
const (
	CasualGame   GameType = "casual"
	MidcoreGame  GameType = "midcore"
	HardcoreGame GameType = "hardcore"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All storage backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Feature importance keys shared between models and their outputs.
const (
	FeatureD1Retention = "d1_retention"
	FeatureD7Retention = "d7_retention"
	FeatureCohortSize  = "cohort_size"
	FeatureGameType    = "game_type"

	FeatureTrend      = "trend"
	FeatureDayOfWeek  = "day_of_week"
	FeatureDAU        = "dau"
	FeatureARPDAU     = "arpdau"
	FeatureConversion = "conversion"
)

// Factor names used in prediction explainability output.
const (
	FactorObservedRetention = "Observed Retention"
	FactorD1Retention       = "D1 Retention"
	FactorDecayRate         = "Decay Rate"
	FactorExtrapolation     = "Extrapolation Distance"
	FactorCohortSize        = "Cohort Size"
	FactorIndustryFallback  = "Industry Fallback"
	FactorTrend             = "Revenue Trend"
	FactorSeasonality       = "Day-of-Week Seasonality"
	FactorBaseline          = "Baseline Revenue"
)

// ValidForecastPeriods lists all valid forecast periods.
var ValidForecastPeriods = map[ForecastPeriod]struct{}{
	DailyPeriod:   {},
	WeeklyPeriod:  {},
	MonthlyPeriod: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid storage backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
