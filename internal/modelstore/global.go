package modelstore

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/gamelens/foresight/internal/contract"
	"github.com/gamelens/foresight/schema"
)

// snapshotsTable is the name of the table for model snapshots.
const snapshotsTable = "model_snapshots"

// Global Manager instance for main logic.
var (
	Manager   = &StoreManagerImpl{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetModelDBFilePath returns the path to the SQLite DB file for model storage.
func GetModelDBFilePath() string {
	return contract.GetModelDBFilePath()
}

// InitStore initializes the global store manager with a model snapshot store.
// backend can be empty to skip initialization entirely.
func InitStore(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		var modelStore contract.ModelStore
		if backend != "" {
			var err error
			modelStore, err = NewModelStore(snapshotsTable, backend, connStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize model store: %w", err)
				return
			}
		}

		Manager.Lock()
		Manager.model = modelStore
		Manager.Unlock()
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// CloseStore should be called on application shutdown.
func CloseStore() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.model != nil {
			_ = Manager.model.Close()
		}
	})
}

// ClearModels clears the stored snapshots for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
// For NoneBackend, it does nothing.
func ClearModels(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		return clearSQLTable("mysql", connStr, snapshotsTable)

	case schema.PostgreSQLBackend:
		return clearSQLTable("pgx", connStr, snapshotsTable)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported store backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(driverName, connStr, tableName string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName)
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	return nil
}
