// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/gamelens/foresight/internal/contract"
	"github.com/gamelens/foresight/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteRetention prints a retention prediction using the configured output format.
func (ow *OutWriter) WriteRetention(pred schema.RetentionPrediction, targetDay int, cfg *contract.Config) error {
	return PrintRetentionPrediction(pred, targetDay, cfg)
}

// WriteLTV prints a cohort LTV estimate using the configured output format.
func (ow *OutWriter) WriteLTV(estimate schema.LTVEstimate, horizonDays int, cfg *contract.Config) error {
	return PrintLTVEstimate(estimate, horizonDays, cfg)
}

// WriteForecasts prints revenue forecasts using the configured output format.
func (ow *OutWriter) WriteForecasts(forecasts []schema.RevenueForecast, cfg *contract.Config, duration time.Duration) error {
	return PrintForecastResults(forecasts, cfg, duration)
}

// WriteWhatIf prints a scenario analysis using the configured output format.
func (ow *OutWriter) WriteWhatIf(result schema.WhatIfResult, scenario schema.WhatIfScenario, cfg *contract.Config) error {
	return PrintWhatIfResult(result, scenario, cfg)
}

// WriteMetrics prints model train/evaluate metrics using the configured output format.
func (ow *OutWriter) WriteMetrics(metrics map[string]schema.ModelMetrics, cfg *contract.Config) error {
	return PrintModelMetrics(metrics, cfg)
}

// WriteImportance prints feature importance weights using the configured output format.
func (ow *OutWriter) WriteImportance(weights map[string]map[string]float64, cfg *contract.Config) error {
	return PrintFeatureImportance(weights, cfg)
}

// GetMaxTableDescWidth calculates the maximum width for factor descriptions in
// table output based on terminal width.
func GetMaxTableDescWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the name and weight columns plus table borders,
	// separators, and padding.
	baseWidth := 40

	available := termWidth - baseWidth
	if available < 20 {
		// Minimum reasonable description width
		return 20
	}
	if available > 70 {
		// Maximum description width to prevent overly wide tables
		return 70
	}
	return available
}
