package winstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"winsfinder/internal/contract"
	"winsfinder/schema"
)

// historyRow summarizes one archived report as a list table row. The
// impact cell is colored for terminals; fatih/color falls back to plain
// text when stdout is not a tty.
func historyRow(record schema.HistoryRecord) []string {
	week := record.WeekStart.Format("2006-01-02")
	created := record.CreatedAt.Format("2006-01-02 15:04:05")

	var report schema.WinsReport
	if err := json.Unmarshal([]byte(record.ReportJSON), &report); err != nil {
		return []string{week, created, "-", "-", "(unreadable report)", "-"}
	}

	audience := string(report.Audience)
	if audience == "" {
		audience = string(contract.DefaultAudience)
	}

	topWin := "-"
	impact := "-"
	if len(report.TopWins) > 0 {
		topWin = report.TopWins[0].Title
		impact = contract.GetColorImpactLabel(report.TopWins[0].Impact)
	}

	return []string{
		week,
		created,
		audience,
		fmt.Sprintf("%d", report.Summary.TotalActivities),
		topWin,
		impact,
	}
}

// ExecuteHistoryList prints the archived wins reports, newest first.
func ExecuteHistoryList() error {
	store := Manager.GetActivityStore()
	if store == nil {
		return errors.New("activity store is not initialized")
	}

	records, err := store.GetAllHistory()
	if err != nil {
		return fmt.Errorf("failed to retrieve wins history: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No wins history found.")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Week", "Created", "Audience", "Activities", "Top Win", "Impact"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	// GetAllHistory returns oldest first; the list reads newest first
	var data [][]string
	for i := len(records) - 1; i >= 0; i-- {
		data = append(data, historyRow(records[i]))
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
