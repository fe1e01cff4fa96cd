package cli

import (
	"fmt"
	"io"
	"strings"

	"timesheet-backend/internal/timesheet"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newShowCmd(opts *options) *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the timesheet grid for the range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			printGrid(cmd.OutOrStdout(), s.ws.Range(), s.ws.Entries(), query)
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "filter", "f", "", "Only tasks whose project or task name contains this")
	return cmd
}

// printGrid renders one row per task and one column per day. Cells show
// hours, or the day's marker label when it is not a working day.
func printGrid(w io.Writer, r timesheet.Range, entries []timesheet.Entry, query string) {
	days := r.Days()

	header := []string{"PROJECT", "TASK"}
	for _, d := range days {
		header = append(header, d[5:])
	}

	var rows [][]string
	for _, p := range timesheet.Projects(entries) {
		for _, t := range timesheet.TasksByProject(p.ID, entries, query) {
			cells := []string{p.Title, t.Title}
			for _, d := range days {
				cells = append(cells, cell(d, t.ID, p.ID, entries))
			}
			rows = append(rows, cells)
		}
	}

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s .. %s", r.Start, r.End)))
	if len(rows) == 0 {
		fmt.Fprintln(w, "No entries found.")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(emptyStyle).
		Headers(header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
}

func cell(date, taskID, projectID string, entries []timesheet.Entry) string {
	if m := timesheet.DateStatus(date, taskID, projectID, entries); m != nil {
		return markerStyle.Render(m.Label)
	}
	for _, e := range entries {
		if e.Date == date && e.TaskID == taskID && e.ProjectID == projectID {
			return formatHours(e.Hours)
		}
	}
	return emptyStyle.Render("-")
}

func formatHours(h float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", h), "0"), ".")
}
