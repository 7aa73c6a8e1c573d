package core

import (
	"fmt"
	"time"

	"github.com/gamelens/foresight/internal/contract"
	"github.com/gamelens/foresight/internal/dataload"
	"github.com/gamelens/foresight/internal/outwriter"
	"github.com/gamelens/foresight/schema"
)

// Model names accepted by the train, evaluate, and importance commands.
const (
	RetentionModelName = "retention"
	RevenueModelName   = "revenue"
)

// retentionModelConfig layers config overrides onto the stock retention
// heuristics. Zero-valued overrides keep the defaults.
func retentionModelConfig(cfg *contract.Config) schema.RetentionConfig {
	modelCfg := schema.DefaultRetentionConfig()
	if cfg.RetentionMinPoints > 0 {
		modelCfg.MinDataPoints = cfg.RetentionMinPoints
	}
	if cfg.BenchmarkTolerance > 0 {
		modelCfg.BenchmarkTolerance = cfg.BenchmarkTolerance
	}
	if cfg.RetentionConfidenceDecay > 0 {
		modelCfg.ConfidenceDecayPerDay = cfg.RetentionConfidenceDecay
	}
	return modelCfg
}

// revenueModelConfig layers config overrides onto the stock revenue
// heuristics. Zero-valued overrides keep the defaults.
func revenueModelConfig(cfg *contract.Config) schema.RevenueConfig {
	modelCfg := schema.DefaultRevenueConfig()
	if cfg.RevenueMinPoints > 0 {
		modelCfg.MinDataPoints = cfg.RevenueMinPoints
	}
	if cfg.RevenueConfidenceDecay > 0 {
		modelCfg.ConfidenceDecayPerDay = cfg.RevenueConfidenceDecay
	}
	if cfg.ConversionElasticity > 0 {
		modelCfg.ConversionElasticity = cfg.ConversionElasticity
	}
	return modelCfg
}

// buildRetentionPredictor constructs a predictor with config overrides
// applied and any persisted snapshot loaded.
func buildRetentionPredictor(cfg *contract.Config, mgr contract.StoreManager) *RetentionPredictor {
	p := NewRetentionPredictor(retentionModelConfig(cfg), mgr.GetModelStore())
	p.Load()
	return p
}

// buildRevenueForecaster constructs a forecaster with config overrides
// applied. When a data file is configured the model is trained from it;
// otherwise the persisted snapshot is required.
func buildRevenueForecaster(cfg *contract.Config, mgr contract.StoreManager) (*RevenueForecaster, error) {
	f := NewRevenueForecaster(revenueModelConfig(cfg), mgr.GetModelStore())

	if cfg.DataFile != "" {
		rows, err := dataload.LoadRevenue(cfg.DataFile)
		if err != nil {
			return nil, err
		}
		if _, err := f.Train(rows); err != nil {
			return nil, err
		}
		return f, nil
	}

	if !f.Load() {
		return nil, fmt.Errorf("no trained revenue model found; run 'foresight train revenue --data-file <file>' first")
	}
	return f, nil
}

// observedFromConfig assembles the observed retention map from the inline
// D1/D7 flags, or from the most recent cohort of the configured data file.
func observedFromConfig(cfg *contract.Config) (schema.ObservedRetention, int, error) {
	if cfg.DataFile != "" {
		cohorts, err := dataload.LoadCohorts(cfg.DataFile)
		if err != nil {
			return nil, 0, err
		}
		if len(cohorts) == 0 {
			return nil, 0, fmt.Errorf("no cohorts found in %s", cfg.DataFile)
		}
		latest := cohorts[len(cohorts)-1]
		size := cfg.CohortSize
		if size == 0 {
			size = latest.Size
		}
		return latest.RetentionByDay, size, nil
	}

	observed := make(schema.ObservedRetention)
	if cfg.D1 > 0 {
		observed[1] = cfg.D1
	}
	if cfg.D7 > 0 {
		observed[7] = cfg.D7
	}
	return observed, cfg.CohortSize, nil
}

// ExecuteRetentionPredict predicts retention at the target day and prints
// the result. It serves as the entry point for the 'retention' command.
func ExecuteRetentionPredict(cfg *contract.Config, mgr contract.StoreManager) error {
	observed, cohortSize, err := observedFromConfig(cfg)
	if err != nil {
		return err
	}

	targetDay := cfg.TargetDay
	if targetDay == 0 {
		targetDay = contract.DefaultTargetDay
	}

	p := buildRetentionPredictor(cfg, mgr)
	pred := p.PredictRetention(observed, targetDay, cohortSize)
	return outwriter.PrintRetentionPrediction(pred, targetDay, cfg)
}

// ExecuteD30Predict predicts day-30 retention from the D1/D7 pair and prints
// the result. It serves as the entry point for the 'd30' command.
func ExecuteD30Predict(cfg *contract.Config, mgr contract.StoreManager) error {
	p := buildRetentionPredictor(cfg, mgr)
	pred := p.PredictD30FromEarly(cfg.D1, cfg.D7, cfg.CohortSize)
	return outwriter.PrintRetentionPrediction(pred, contract.DefaultTargetDay, cfg)
}

// ExecuteLTV estimates cohort lifetime value over the configured horizon and
// prints the result. It serves as the entry point for the 'ltv' command.
func ExecuteLTV(cfg *contract.Config, mgr contract.StoreManager) error {
	if cfg.ARPDAU <= 0 {
		return fmt.Errorf("--arpdau must be positive for LTV estimation")
	}
	observed, _, err := observedFromConfig(cfg)
	if err != nil {
		return err
	}

	horizonDays := cfg.HorizonDays
	if horizonDays == 0 {
		horizonDays = contract.DefaultHorizonDays
	}

	p := buildRetentionPredictor(cfg, mgr)
	pred := p.PredictRetention(observed, horizonDays, 0)
	estimate := p.PredictCohortLTV(pred.RetentionCurve, cfg.ARPDAU, horizonDays)
	return outwriter.PrintLTVEstimate(estimate, horizonDays, cfg)
}

// ExecuteForecast projects revenue and prints the result. It serves as the
// entry point for the 'forecast' command.
func ExecuteForecast(cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()

	f, err := buildRevenueForecaster(cfg, mgr)
	if err != nil {
		return err
	}

	days := cfg.ForecastDays
	if days == 0 {
		days = contract.DefaultHorizonDays
	}

	var forecasts []schema.RevenueForecast
	switch cfg.Period {
	case schema.WeeklyPeriod, schema.MonthlyPeriod:
		forecasts = []schema.RevenueForecast{f.ForecastPeriod(cfg.Period)}
	default:
		if !cfg.ForecastStart.IsZero() {
			for i := 0; i < days; i++ {
				fc := f.ForecastSingleDay(cfg.ForecastStart.AddDate(0, 0, i))
				if !cfg.IncludeBreakdown {
					fc.Breakdown = schema.RevenueBreakdown{}
				}
				forecasts = append(forecasts, fc)
			}
		} else {
			forecasts = f.Forecast(days, cfg.IncludeBreakdown)
		}
	}

	return outwriter.PrintForecastResults(forecasts, cfg, time.Since(start))
}

// ExecuteWhatIf compares the baseline forecast against a driver scenario and
// prints the result. It serves as the entry point for the 'whatif' command.
func ExecuteWhatIf(cfg *contract.Config, mgr contract.StoreManager) error {
	f, err := buildRevenueForecaster(cfg, mgr)
	if err != nil {
		return err
	}

	horizonDays := cfg.HorizonDays
	if horizonDays == 0 {
		horizonDays = contract.DefaultHorizonDays
	}

	scenario := schema.WhatIfScenario{
		DAUChange:        cfg.DAUChange,
		ARPUChange:       cfg.ARPUChange,
		ConversionChange: cfg.ConversionChange,
	}
	result := f.WhatIf(scenario, horizonDays)
	return outwriter.PrintWhatIfResult(result, scenario, cfg)
}

// ExecuteTrain trains the named model from the configured data file, saves
// the snapshot, and prints the training metrics. It serves as the entry
// point for the 'train' command.
func ExecuteTrain(model string, cfg *contract.Config, mgr contract.StoreManager) error {
	if cfg.DataFile == "" {
		return fmt.Errorf("--data-file is required for training")
	}

	var metrics schema.ModelMetrics
	switch model {
	case RetentionModelName:
		cohorts, err := dataload.LoadCohorts(cfg.DataFile)
		if err != nil {
			return err
		}
		p := buildRetentionPredictor(cfg, mgr)
		metrics, err = p.Train(cohorts)
		if err != nil {
			return err
		}
		if err := p.Save(); err != nil {
			return fmt.Errorf("model trained but snapshot save failed: %w", err)
		}

	case RevenueModelName:
		rows, err := dataload.LoadRevenue(cfg.DataFile)
		if err != nil {
			return err
		}
		f := NewRevenueForecaster(revenueModelConfig(cfg), mgr.GetModelStore())
		metrics, err = f.Train(rows)
		if err != nil {
			return err
		}
		if err := f.Save(); err != nil {
			return fmt.Errorf("model trained but snapshot save failed: %w", err)
		}

	default:
		return fmt.Errorf("unknown model %q. must be retention or revenue", model)
	}

	return outwriter.PrintModelMetrics(map[string]schema.ModelMetrics{model: metrics}, cfg)
}

// ExecuteEvaluate evaluates the named model against the configured data file
// without mutating it, and prints the metrics. It serves as the entry point
// for the 'evaluate' command.
func ExecuteEvaluate(model string, cfg *contract.Config, mgr contract.StoreManager) error {
	if cfg.DataFile == "" {
		return fmt.Errorf("--data-file is required for evaluation")
	}

	var metrics schema.ModelMetrics
	switch model {
	case RetentionModelName:
		cohorts, err := dataload.LoadCohorts(cfg.DataFile)
		if err != nil {
			return err
		}
		p := buildRetentionPredictor(cfg, mgr)
		metrics = p.Evaluate(cohorts)

	case RevenueModelName:
		rows, err := dataload.LoadRevenue(cfg.DataFile)
		if err != nil {
			return err
		}
		f := NewRevenueForecaster(revenueModelConfig(cfg), mgr.GetModelStore())
		f.Load()
		metrics = f.Evaluate(rows)

	default:
		return fmt.Errorf("unknown model %q. must be retention or revenue", model)
	}

	return outwriter.PrintModelMetrics(map[string]schema.ModelMetrics{model: metrics}, cfg)
}

// ExecuteImportance prints the feature weights of both models. It serves as
// the entry point for the 'importance' command.
func ExecuteImportance(cfg *contract.Config, mgr contract.StoreManager) error {
	p := buildRetentionPredictor(cfg, mgr)

	f := NewRevenueForecaster(revenueModelConfig(cfg), mgr.GetModelStore())
	f.Load()

	weights := map[string]map[string]float64{
		RetentionModelName: p.FeatureImportance(),
		RevenueModelName:   f.FeatureImportance(),
	}
	return outwriter.PrintFeatureImportance(weights, cfg)
}
