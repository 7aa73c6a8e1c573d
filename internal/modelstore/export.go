package modelstore

import (
	"errors"
	"fmt"

	"github.com/gamelens/foresight/internal/parquet"
)

// ExecuteSnapshotExport writes all stored model snapshots to a Parquet file.
func ExecuteSnapshotExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetModelStore()

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}

	if status.TotalEntries == 0 {
		return errors.New("no model snapshots found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total snapshots: %d\n", status.TotalEntries)

	entries, err := store.GetAllSnapshots()
	if err != nil {
		return fmt.Errorf("failed to retrieve snapshots: %w", err)
	}

	records := parquet.ConvertSnapshots(entries)
	if err := parquet.WriteSnapshotsParquet(records, outputFile); err != nil {
		return fmt.Errorf("failed to write snapshots: %w", err)
	}
	fmt.Printf("Exported %d snapshots to: %s\n", len(records), outputFile)

	return nil
}
