// Package report renders ranked aggregation results as text tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/ademuri/spotify-history-tools/internal/aggregate"
)

// Table prints a titled table followed by a blank line.
func Table(out io.Writer, title string, headers []string, rows [][]string) {
	fmt.Fprintln(out, title)
	table := tablewriter.NewWriter(out)
	table.Header(headers)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			fmt.Fprintf(out, "Error rendering table: %v\n", err)
			return
		}
	}
	if err := table.Render(); err != nil {
		fmt.Fprintf(out, "Error rendering table: %v\n", err)
		return
	}
	fmt.Fprintln(out)
}

// RankedRows converts ranked items into numbered table rows.
func RankedRows(items []aggregate.Item) [][]string {
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			item.Name,
			strconv.Itoa(item.Count),
		})
	}
	return rows
}

// RankedList prints ranked items as plain numbered lines, for the reports
// that do not use a table.
func RankedList(out io.Writer, items []aggregate.Item, unit string) {
	for i, item := range items {
		fmt.Fprintf(out, "%d. %s - %d %s\n", i+1, item.Name, item.Count, unit)
	}
}
