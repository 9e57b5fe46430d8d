package winstore

import (
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"

	"winsfinder/schema"
)

// maxSourceWidth calculates how wide the source column can be given the
// detected terminal width. The timestamp columns and borders take a
// fixed amount of space.
func maxSourceWidth() int {
	termWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || termWidth <= 0 {
		termWidth = 80 // Conservative default for narrow terminals and CI
	}

	// Entries + two timestamp columns with borders/padding
	baseWidth := 55
	available := termWidth - baseWidth
	if available < 16 {
		available = 16
	}
	return available
}

// truncateSource shortens a source key to fit the computed column width.
func truncateSource(source string, width int) string {
	if len(source) <= width {
		return source
	}
	if width <= 3 {
		return source[:width]
	}
	return source[:width-3] + "..."
}

// PrintStoreStatus prints activity store status information.
func PrintStoreStatus(status schema.StoreStatus) error {
	fmt.Printf("Store Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return nil
	}
	fmt.Printf("Total Cache Entries: %d\n", status.TotalEntries)
	if len(status.Stats) == 0 {
		return nil
	}

	// Stable ordering for the stats table
	keys := make([]string, 0, len(status.Stats))
	for key := range status.Stats {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Source", "Entries", "Latest Fetch", "Earliest Fetch"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	sourceWidth := maxSourceWidth()

	var data [][]string
	for _, key := range keys {
		stat := status.Stats[key]
		data = append(data, []string{
			truncateSource(key, sourceWidth),
			fmt.Sprintf("%d", stat.Count),
			stat.Latest.Format("2006-01-02 15:04:05"),
			stat.Earliest.Format("2006-01-02 15:04:05"),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
