package cmd

import (
	"fmt"

	"github.com/gamelens/foresight/internal/contract"
	"github.com/gamelens/foresight/internal/modelstore"
	"github.com/gamelens/foresight/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeSetup loads minimal configuration needed for store operations.
// This is used by commands that need store access without full shared setup.
func storeSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	connStr := viper.GetString("store-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values (used by export command)
	outputFile := viper.GetString("output-file")

	// Initialize the snapshot store with the loaded config
	if err := modelstore.InitStore(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize model store: %w", err)
	}

	cfg.StoreBackend = backend
	cfg.StoreConnect = connStr
	cfg.OutputFile = outputFile

	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for store commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func storeMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backend := schema.DatabaseBackend(viper.GetString("store-backend"))
	connStr := viper.GetString("store-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetModelDBFilePath()
	}

	cfg.StoreBackend = backend
	cfg.StoreConnect = connStr

	return nil
}

// storeMigrateSetupWrapper wraps storeMigrateSetup to provide PreRunE for migrate command.
func storeMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeMigrateSetup()
}

// storeCmd focused on model snapshot management.
//
// Note: Store subcommands use minimal initialization (storeSetup) instead of
// the full sharedSetup used by prediction commands. This avoids model config
// processing for simple store operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage persisted model snapshots",
	Long: `Manage the store that holds trained model snapshots.

Trained retention and revenue models are saved as versioned snapshots so
predictions survive process restarts and can be shared across machines.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (in-memory)

Subcommands:
  status  - Show snapshot statistics and connection info
  clear   - Remove all stored snapshots
  export  - Export snapshots to Parquet for analytics
  migrate - Run database schema migrations

Examples:
  # Check store status
  foresight store status

  # Clear snapshots after a bad training run
  foresight store clear`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display snapshot statistics and connection details",
	Long: `Show detailed information about the model snapshot store.

Displays:
- Backend type and connection status
- Number of stored snapshots
- Last and oldest snapshot timestamps
- Store database size

Use this to:
- Verify the store is connected and holding trained models
- Check when models were last trained
- Debug store-related issues

Examples:
  # Check store status
  foresight store status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := modelstore.Manager.GetModelStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		modelstore.PrintStoreStatus(status)
	},
}

// storeClearCmd clears the stored snapshots.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored model snapshots",
	Long: `Delete all trained model snapshots from the configured backend.

Use this when:
- A bad dataset poisoned the trained models
- Starting fresh after changing model configuration
- Testing behavior without persisted state

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the snapshots table

Examples:
  # Clear SQLite store (default)
  foresight store clear

  # Clear MySQL store (set connection string via env variable)
  FORESIGHT_STORE_BACKEND=mysql FORESIGHT_STORE_CONNECT="..." foresight store clear`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := modelstore.ClearModels(cfg.StoreBackend, contract.GetModelDBFilePath(), cfg.StoreConnect); err != nil {
			contract.LogFatal("Failed to clear model store", err)
		}
		fmt.Println("Model store cleared successfully.")
	},
}

// storeExportCmd exports model snapshots to a Parquet file.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export model snapshots to Parquet for analytics",
	Long: `Export all stored model snapshots to Parquet format.

Each row holds one snapshot: the model key, the serialized payload, the
snapshot version, and the stored-at timestamp. Useful for auditing model
history or moving snapshots between environments.

Requires: --output-file parameter

Examples:
  # Export all snapshots
  foresight store export --output-file snapshots.parquet

  # Inspect with DuckDB
  duckdb -c "SELECT model_key, version, stored_at FROM read_parquet('snapshots.parquet')"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := modelstore.ExecuteSnapshotExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export model snapshots", err)
		}
	},
}

// storeMigrateCmd runs database migrations for the snapshot store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the model snapshot store.

Migrations allow:
- Upgrading to new schema versions when Foresight is updated
- Safely modifying database structure without data loss
- Rolling back schema changes if needed

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  foresight store migrate

  # Migrate to specific version
  foresight store migrate --target-version 1

  # Rollback to previous version
  foresight store migrate --target-version 0`,
	PreRunE: storeMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := modelstore.MigrateModels(cfg.StoreBackend, cfg.StoreConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
