package cmd

import (
	"github.com/gamelens/foresight/core"
	"github.com/gamelens/foresight/internal/contract"
	"github.com/spf13/cobra"
)

// trainCmd fits a model on a dataset and persists the snapshot.
var trainCmd = &cobra.Command{
	Use:   "train [retention|revenue]",
	Short: "Train a model on historical data and save the snapshot.",
	Long: `Fit the named model on a historical dataset and persist the result.

The retention model trains on cohort records (cohort date, size, observed
retention by day) and the revenue model trains on daily revenue rows. On
success the fitted snapshot is saved to the configured store so later
predictions pick it up automatically, and training metrics are printed.

Examples:
  # Train the retention model on cohort history
  foresight train retention --data-file cohorts.csv

  # Train the revenue model on daily revenue
  foresight train revenue --data-file revenue.csv

  # Train against a shared MySQL store
  FORESIGHT_STORE_BACKEND=mysql FORESIGHT_STORE_CONNECT="..." foresight train revenue --data-file revenue.csv`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{core.RetentionModelName, core.RevenueModelName},
	PreRunE:   sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteTrain(args[0], cfg, storeManager); err != nil {
			contract.LogFatal("Cannot train model", err)
		}
	},
}

// evaluateCmd scores a model against a dataset without mutating it.
var evaluateCmd = &cobra.Command{
	Use:   "evaluate [retention|revenue]",
	Short: "Evaluate a model against a dataset without saving anything.",
	Long: `Score the named model against a historical dataset.

Unlike train, evaluate never mutates the model or the store: the current
model state (persisted snapshot if present, defaults otherwise) is scored
against the dataset and the error metrics are printed. Use this to check a
trained model against a holdout period before trusting its forecasts.

Examples:
  # Score the stored retention model on fresh cohorts
  foresight evaluate retention --data-file holdout-cohorts.csv

  # Score the stored revenue model on last month
  foresight evaluate revenue --data-file revenue-latest.csv`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{core.RetentionModelName, core.RevenueModelName},
	PreRunE:   sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteEvaluate(args[0], cfg, storeManager); err != nil {
			contract.LogFatal("Cannot evaluate model", err)
		}
	},
}

// importanceCmd prints feature weights for both models.
var importanceCmd = &cobra.Command{
	Use:   "importance",
	Short: "Show feature importance for both models.",
	Long: `Display the relative weight each input feature carries in the current
retention and revenue models.

Weights are normalized per model and sorted from most to least influential.
Useful for sanity-checking what a trained model actually keys on.

Examples:
  # Inspect both models
  foresight importance

  # Machine-readable weights
  foresight importance --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteImportance(cfg, storeManager); err != nil {
			contract.LogFatal("Cannot show feature importance", err)
		}
	},
}
