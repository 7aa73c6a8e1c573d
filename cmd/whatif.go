package cmd

import (
	"github.com/gamelens/foresight/core"
	"github.com/gamelens/foresight/internal/contract"
	"github.com/spf13/cobra"
)

// whatifCmd compares a driver scenario against the baseline forecast.
var whatifCmd = &cobra.Command{
	Use:   "whatif",
	Short: "Compare a revenue scenario against the baseline forecast.",
	Long: `Model how revenue responds to percentage changes in its drivers.

Drivers are DAU, ARPU, and payer conversion, each expressed as a percent
delta against the baseline. The scenario multiplies the baseline forecast
over the horizon, and the scenario confidence is discounted in proportion to
how far the drivers move.

Examples:
  # What does a 10% DAU lift buy us this month?
  foresight whatif --dau-change 10

  # Price increase trade-off: higher ARPU, lower conversion
  foresight whatif --arpu-change 15 --conversion-change -5

  # Pessimistic quarter
  foresight whatif --dau-change -20 --horizon-days 90`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteWhatIf(cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run what-if scenario", err)
		}
	},
}
