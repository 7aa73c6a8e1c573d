// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/gamelens/foresight/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Foresight MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Foresight Prediction Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: predict_retention ---
	s.AddTool(mcp.NewTool("predict_retention",
		mcp.WithDescription("Predict retention at a target day from observed early retention points."),
		mcp.WithString("retention_json", mcp.Description(`Observed retention as a JSON object mapping day offsets to fractions, e.g. {"1": 0.42, "7": 0.21}.`), mcp.Required()),
		mcp.WithNumber("target_day", mcp.Description("Day offset to predict (defaults to 30).")),
		mcp.WithNumber("cohort_size", mcp.Description("Number of users in the cohort, used for confidence weighting.")),
	), h.handlePredictRetention)

	// --- 2. Tool: predict_d30 ---
	s.AddTool(mcp.NewTool("predict_d30",
		mcp.WithDescription("Predict day-30 retention from day-1 and day-7 retention alone."),
		mcp.WithNumber("d1", mcp.Description("Day-1 retention fraction in [0,1]."), mcp.Required()),
		mcp.WithNumber("d7", mcp.Description("Day-7 retention fraction in [0,1]."), mcp.Required()),
		mcp.WithNumber("cohort_size", mcp.Description("Number of users in the cohort.")),
	), h.handlePredictD30)

	// --- 3. Tool: cohort_ltv ---
	s.AddTool(mcp.NewTool("cohort_ltv",
		mcp.WithDescription("Estimate cohort lifetime value from a retention curve and revenue per daily active user."),
		mcp.WithString("retention_json", mcp.Description(`Observed retention as a JSON object mapping day offsets to fractions.`), mcp.Required()),
		mcp.WithNumber("arpdau", mcp.Description("Average revenue per daily active user."), mcp.Required()),
		mcp.WithNumber("horizon_days", mcp.Description("LTV horizon in days (defaults to 30).")),
	), h.handleCohortLTV)

	// --- 4. Tool: forecast_revenue ---
	s.AddTool(mcp.NewTool("forecast_revenue",
		mcp.WithDescription("Forecast daily revenue from the trained revenue model."),
		mcp.WithNumber("days", mcp.Description("Number of days to forecast (defaults to 30).")),
		mcp.WithString("period", mcp.Description("Aggregate the forecast into a single period."), mcp.Enum("daily", "weekly", "monthly")),
		mcp.WithBoolean("include_breakdown", mcp.Description("Include the existing/new/reactivated revenue breakdown.")),
	), h.handleForecastRevenue)

	// --- 5. Tool: what_if ---
	s.AddTool(mcp.NewTool("what_if",
		mcp.WithDescription("Compare the baseline revenue forecast against a scenario with driver deltas applied."),
		mcp.WithNumber("dau_change", mcp.Description("Percentage change in daily active users, e.g. 10 for +10%.")),
		mcp.WithNumber("arpu_change", mcp.Description("Percentage change in average revenue per user.")),
		mcp.WithNumber("conversion_change", mcp.Description("Percentage change in payer conversion.")),
		mcp.WithNumber("horizon_days", mcp.Description("Scenario horizon in days (defaults to 30).")),
	), h.handleWhatIf)

	return s
}

// StartMCPServer starts the Foresight MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
