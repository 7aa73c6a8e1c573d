package cmd

import (
	"github.com/gamelens/foresight/core"
	"github.com/gamelens/foresight/internal/contract"
	"github.com/spf13/cobra"
)

// forecastCmd projects future revenue from the trained model.
var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project daily, weekly, or monthly revenue.",
	Long: `Project future revenue using the trained linear trend and day-of-week
seasonality model.

The model is loaded from the configured store. Alternatively, pass
--data-file to train on a revenue dataset in-memory for this run only.
Forecast confidence decays as the horizon grows, and each entry carries an
uncertainty range that widens accordingly.

Examples:
  # Two weeks of daily revenue
  foresight forecast --days 14

  # Aggregate a full week or month into one figure
  foresight forecast --period weekly
  foresight forecast --period monthly

  # Include the new/existing/reactivated breakdown
  foresight forecast --days 7 --include-breakdown

  # One-off forecast from a dataset without touching the store
  foresight forecast --data-file revenue.csv --days 30

  # Export for downstream analytics
  foresight forecast --days 90 --output parquet --output-file forecast.parquet`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteForecast(cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run revenue forecast", err)
		}
	},
}
