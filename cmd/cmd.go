// Package cmd defines the command-line interface for foresight.
package cmd

import (
	"github.com/gamelens/foresight/internal/contract"
	"github.com/gamelens/foresight/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(retentionCmd)
	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(whatifCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(importanceCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(storeCmd)

	// Add the retention subcommands to the parent retention command
	retentionCmd.AddCommand(retentionD30Cmd)
	retentionCmd.AddCommand(retentionLTVCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Model store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().Int("retention-min-points", 0, "Minimum cohorts required to train the retention model (0 = model default)")
	rootCmd.PersistentFlags().Int("revenue-min-points", 0, "Minimum days required to train the revenue model (0 = model default)")
	rootCmd.PersistentFlags().String("data-file", "", "Path to a cohort or revenue dataset (CSV or JSON)")
	rootCmd.PersistentFlags().Float64("d1", 0, "Observed day-1 retention fraction in [0,1]")
	rootCmd.PersistentFlags().Float64("d7", 0, "Observed day-7 retention fraction in [0,1]")
	rootCmd.PersistentFlags().Int("cohort-size", 0, "Number of players in the cohort (0 = unknown)")
	rootCmd.PersistentFlags().Int("target-day", contract.DefaultTargetDay, "Day offset to predict retention for")
	rootCmd.PersistentFlags().Float64("arpdau", 0, "Average revenue per daily active user for LTV estimation")
	rootCmd.PersistentFlags().Int("horizon-days", contract.DefaultHorizonDays, "Number of days an LTV estimate or what-if scenario covers")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of forecastCmd to Viper
	forecastCmd.Flags().Int("days", contract.DefaultHorizonDays, "Number of days to forecast")
	forecastCmd.Flags().String("period", string(schema.DailyPeriod), "Forecast period: daily or weekly or monthly")
	forecastCmd.Flags().Bool("include-breakdown", false, "Include revenue breakdown by user origin")
	forecastCmd.Flags().String("forecast-start", "", "First forecast date in YYYY-MM-DD (default: day after training end)")
	if err := viper.BindPFlags(forecastCmd.Flags()); err != nil {
		contract.LogFatal("Error binding forecast flags", err)
	}

	// Bind all flags of whatifCmd to Viper
	whatifCmd.Flags().Float64("dau-change", 0, "DAU delta in percent (e.g. 10 for +10%)")
	whatifCmd.Flags().Float64("arpu-change", 0, "ARPU delta in percent")
	whatifCmd.Flags().Float64("conversion-change", 0, "Payer conversion delta in percent")
	if err := viper.BindPFlags(whatifCmd.Flags()); err != nil {
		contract.LogFatal("Error binding whatif flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
