package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gamelens/foresight/core"
	"github.com/gamelens/foresight/internal/contract"
	"github.com/gamelens/foresight/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// newRetentionPredictor builds a predictor with config overrides applied and
// any persisted snapshot loaded.
func (h *toolHandler) newRetentionPredictor() *core.RetentionPredictor {
	cfg := schema.DefaultRetentionConfig()
	if h.baseCfg.RetentionMinPoints > 0 {
		cfg.MinDataPoints = h.baseCfg.RetentionMinPoints
	}
	p := core.NewRetentionPredictor(cfg, h.mgr.GetModelStore())
	p.Load()
	return p
}

// newRevenueForecaster builds a forecaster from its persisted snapshot.
// The second return is false when no trained model is available.
func (h *toolHandler) newRevenueForecaster() (*core.RevenueForecaster, bool) {
	cfg := schema.DefaultRevenueConfig()
	if h.baseCfg.RevenueMinPoints > 0 {
		cfg.MinDataPoints = h.baseCfg.RevenueMinPoints
	}
	f := core.NewRevenueForecaster(cfg, h.mgr.GetModelStore())
	return f, f.Load()
}

// parseObserved decodes the retention_json argument into observed retention.
func parseObserved(raw string) (schema.ObservedRetention, error) {
	if raw == "" {
		return nil, fmt.Errorf("retention_json is required")
	}
	var observed schema.ObservedRetention
	if err := json.Unmarshal([]byte(raw), &observed); err != nil {
		return nil, fmt.Errorf("invalid retention_json: %w", err)
	}
	for day, value := range observed {
		if day < 0 {
			return nil, fmt.Errorf("invalid retention_json: day %d is negative", day)
		}
		if value < 0 || value > 1 {
			return nil, fmt.Errorf("invalid retention_json: retention %v for day %d is outside [0,1]", value, day)
		}
	}
	return observed, nil
}

func (h *toolHandler) handlePredictRetention(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	observed, err := parseObserved(request.GetString("retention_json", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	targetDay := request.GetInt("target_day", contract.DefaultTargetDay)
	if targetDay < 0 {
		return mcp.NewToolResultError(fmt.Sprintf("target_day must be non-negative, got %d", targetDay)), nil
	}
	cohortSize := request.GetInt("cohort_size", 0)

	p := h.newRetentionPredictor()
	pred := p.PredictRetention(observed, targetDay, cohortSize)

	jsonData, _ := json.MarshalIndent(pred, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handlePredictD30(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d1 := request.GetFloat("d1", -1)
	d7 := request.GetFloat("d7", -1)
	if d1 < 0 || d1 > 1 {
		return mcp.NewToolResultError(fmt.Sprintf("d1 must be in [0,1], got %v", d1)), nil
	}
	if d7 < 0 || d7 > 1 {
		return mcp.NewToolResultError(fmt.Sprintf("d7 must be in [0,1], got %v", d7)), nil
	}
	cohortSize := request.GetInt("cohort_size", 0)

	p := h.newRetentionPredictor()
	pred := p.PredictD30FromEarly(d1, d7, cohortSize)

	jsonData, _ := json.MarshalIndent(pred, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCohortLTV(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	observed, err := parseObserved(request.GetString("retention_json", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	arpdau := request.GetFloat("arpdau", 0)
	if arpdau <= 0 {
		return mcp.NewToolResultError(fmt.Sprintf("arpdau must be positive, got %v", arpdau)), nil
	}
	horizonDays := request.GetInt("horizon_days", contract.DefaultHorizonDays)
	if horizonDays <= 0 {
		return mcp.NewToolResultError(fmt.Sprintf("horizon_days must be positive, got %d", horizonDays)), nil
	}

	p := h.newRetentionPredictor()
	pred := p.PredictRetention(observed, horizonDays, 0)
	estimate := p.PredictCohortLTV(pred.RetentionCurve, arpdau, horizonDays)

	jsonData, _ := json.MarshalIndent(estimate, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleForecastRevenue(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := request.GetInt("days", contract.DefaultHorizonDays)
	if days < 1 || days > contract.MaxForecastDays {
		return mcp.NewToolResultError(fmt.Sprintf("days must be between 1 and %d, got %d", contract.MaxForecastDays, days)), nil
	}

	f, ok := h.newRevenueForecaster()
	if !ok {
		return mcp.NewToolResultError("no trained revenue model found; run train first"), nil
	}

	var result any
	switch period := request.GetString("period", ""); schema.ForecastPeriod(period) {
	case schema.WeeklyPeriod, schema.MonthlyPeriod:
		result = f.ForecastPeriod(schema.ForecastPeriod(period))
	default:
		result = f.Forecast(days, request.GetBool("include_breakdown", false))
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleWhatIf(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	horizonDays := request.GetInt("horizon_days", contract.DefaultHorizonDays)
	if horizonDays <= 0 {
		return mcp.NewToolResultError(fmt.Sprintf("horizon_days must be positive, got %d", horizonDays)), nil
	}

	f, ok := h.newRevenueForecaster()
	if !ok {
		return mcp.NewToolResultError("no trained revenue model found; run train first"), nil
	}

	scenario := schema.WhatIfScenario{
		DAUChange:        request.GetFloat("dau_change", 0),
		ARPUChange:       request.GetFloat("arpu_change", 0),
		ConversionChange: request.GetFloat("conversion_change", 0),
	}
	result := f.WhatIf(scenario, horizonDays)

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
