package winstore

import (
	"errors"
	"fmt"

	"winsfinder/internal/parquet"
)

// ExecuteHistoryExport performs the actual export of wins history to a Parquet file.
func ExecuteHistoryExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the activity store
	store := Manager.GetActivityStore()
	if store == nil {
		return errors.New("activity store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}

	// Retrieve all archived reports
	records, err := store.GetAllHistory()
	if err != nil {
		return fmt.Errorf("failed to retrieve wins history: %w", err)
	}

	if len(records) == 0 {
		return errors.New("no wins history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total archived reports: %d\n", len(records))

	// Convert to Parquet format and write
	rows := parquet.ConvertHistoryRecords(records)
	historyFile := outputFile + ".wins_history.parquet"
	if err := parquet.WriteHistoryParquet(rows, historyFile); err != nil {
		return fmt.Errorf("failed to write wins history: %w", err)
	}
	fmt.Printf("Exported %d reports to: %s\n", len(rows), historyFile)

	fmt.Println("\nExport complete! The Parquet file can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
