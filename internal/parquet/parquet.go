// Package parquet provides data structures and functions for exporting wins
// report history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"winsfinder/schema"
)

// HistoryRow represents a single archived wins report.
// This struct maps to the wins_history database table, with a few summary
// columns lifted out of the report payload for easier querying.
type HistoryRow struct {
	// ID is the unique identifier for this history entry
	ID int64 `parquet:"id,snappy"`

	// WeekStart is the Monday the report covers (stored as TIMESTAMP with nanosecond precision)
	WeekStart time.Time `parquet:"week_start,snappy"`

	// CreatedAt is when the report was archived
	CreatedAt time.Time `parquet:"created_at,snappy"`

	// TotalActivities is the activity count from the report summary (nullable)
	TotalActivities *int32 `parquet:"total_activities,optional,snappy"`

	// CorrelationCount is the cross-service correlation count from the report summary (nullable)
	CorrelationCount *int32 `parquet:"correlation_count,optional,snappy"`

	// Audience is the audience the report was generated for (nullable)
	Audience *string `parquet:"audience,optional,snappy"`

	// ReportJSON contains the full JSON-encoded wins report
	ReportJSON string `parquet:"report_json,snappy"`
}

// WriteHistoryParquet writes a slice of HistoryRow structs to a Parquet file.
func WriteHistoryParquet(data []HistoryRow, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the HistoryRow struct tags
	writer := parquet.NewGenericWriter[HistoryRow](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	// The Write method accepts a variadic slice
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertHistoryRecords converts schema.HistoryRecord to HistoryRow for Parquet export.
// Summary columns stay nil when the stored payload does not decode.
func ConvertHistoryRecords(records []schema.HistoryRecord) []HistoryRow {
	result := make([]HistoryRow, len(records))
	for i, record := range records {
		row := HistoryRow{
			ID:         record.ID,
			WeekStart:  record.WeekStart,
			CreatedAt:  record.CreatedAt,
			ReportJSON: record.ReportJSON,
		}

		var report schema.WinsReport
		if err := json.Unmarshal([]byte(record.ReportJSON), &report); err == nil {
			total := int32(report.Summary.TotalActivities)
			correlated := int32(report.Summary.CrossServiceCorrelations)
			audience := string(report.Audience)
			row.TotalActivities = &total
			row.CorrelationCount = &correlated
			if audience != "" {
				row.Audience = &audience
			}
		}

		result[i] = row
	}
	return result
}
