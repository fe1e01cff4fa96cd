package cli

import (
	"fmt"
	"io"

	"timesheet-backend/internal/timesheet"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newTotalsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "totals",
		Short: "Print hours per project and per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			printTotals(cmd.OutOrStdout(), s.ws.Range(), s.ws.Entries())
			return nil
		},
	}
}

func printTotals(w io.Writer, r timesheet.Range, entries []timesheet.Entry) {
	var (
		projects [][]string
		total    float64
	)
	for _, p := range timesheet.Projects(entries) {
		tasks := timesheet.TasksByProject(p.ID, entries, "")
		h := timesheet.ProjectTotalHours(p.ID, entries, r, timesheet.TaskIDs(tasks))
		total += h
		projects = append(projects, []string{p.Title, formatHours(h)})
	}
	projects = append(projects, []string{"TOTAL", formatHours(total)})

	daily := timesheet.DailyTotalHours(entries, r)
	var days [][]string
	for _, d := range r.Days() {
		days = append(days, []string{d, formatHours(daily[d])})
	}

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s .. %s", r.Start, r.End)))
	fmt.Fprintln(w, totalsTable([]string{"PROJECT", "HOURS"}, projects))
	fmt.Fprintln(w, totalsTable([]string{"DAY", "HOURS"}, days))
}

func totalsTable(header []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(emptyStyle).
		Headers(header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Render()
}
