package cmd

import (
	"github.com/gamelens/foresight/core"
	"github.com/gamelens/foresight/internal/contract"
	"github.com/spf13/cobra"
)

// retentionCmd predicts retention at an arbitrary target day.
var retentionCmd = &cobra.Command{
	Use:   "retention",
	Short: "Predict retention at a target day from early cohort signals.",
	Long: `Fit a decay curve to observed retention points and extrapolate to a target day.

Accepts observed retention either inline (--d1/--d7) or from a cohort dataset
(--data-file), in which case the most recent cohort is used. Predictions
carry a confidence score that shrinks with extrapolation distance, plus an
uncertainty range and the contributing factors.

Examples:
  # Predict day-30 retention from early signals
  foresight retention --d1 0.42 --d7 0.18

  # Predict a different day with cohort context
  foresight retention --d1 0.42 --d7 0.18 --target-day 60 --cohort-size 5000

  # Use the latest cohort from a dataset
  foresight retention --data-file cohorts.csv

  # Export the projected curve for spreadsheets
  foresight retention --d1 0.42 --d7 0.18 --output csv --output-file curve.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRetentionPredict(cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run retention prediction", err)
		}
	},
}

// retentionD30Cmd predicts day-30 retention from the D1/D7 pair.
var retentionD30Cmd = &cobra.Command{
	Use:   "d30",
	Short: "Predict day-30 retention from the D1/D7 pair.",
	Long: `Predict day-30 retention using only day-1 and day-7 retention.

This is the common early-read: a week after launch you have D1 and D7 and
want to know where D30 will land. Both flags are required to get a
data-driven answer; with neither, the industry benchmark curve is used.

Examples:
  # The standard early read
  foresight retention d30 --d1 0.42 --d7 0.18

  # With cohort size for confidence weighting
  foresight retention d30 --d1 0.42 --d7 0.18 --cohort-size 12000`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteD30Predict(cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run d30 prediction", err)
		}
	},
}

// retentionLTVCmd estimates cohort lifetime value.
var retentionLTVCmd = &cobra.Command{
	Use:   "ltv",
	Short: "Estimate per-user lifetime value over a horizon.",
	Long: `Estimate cohort lifetime value by integrating the projected retention
curve against average revenue per daily active user.

The retention curve is predicted from the observed points first, then each
projected day contributes retention times ARPDAU to the running total.

Examples:
  # 30-day LTV from early signals
  foresight retention ltv --d1 0.42 --d7 0.18 --arpdau 0.12

  # Longer horizon from a cohort dataset
  foresight retention ltv --data-file cohorts.csv --arpdau 0.12 --horizon-days 90`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteLTV(cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run LTV estimation", err)
		}
	},
}
