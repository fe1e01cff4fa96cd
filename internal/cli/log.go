package cli

import (
	"fmt"
	"strings"

	"timesheet-backend/internal/timesheet"
	"timesheet-backend/internal/timeutil"

	"github.com/spf13/cobra"
)

func newLogCmd(opts *options) *cobra.Command {
	var (
		project, task, date, comment, status string
		hours                                float64
	)
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record hours against a task and submit them",
		Long: `log edits one (project, task, date) cell of the range and submits it.
--project and --task match ids or names, case-insensitively.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = timeutil.Today()
			}
			if opts.start == "" && opts.end == "" {
				d, err := timeutil.ParseDate(date)
				if err != nil {
					return fmt.Errorf("invalid date %q", date)
				}
				opts.start, opts.end = timeutil.WeekBounds(d)
			}
			s, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			if !s.ws.Range().Contains(date) {
				return fmt.Errorf("date %s is outside %s..%s", date, s.ws.Range().Start, s.ws.Range().End)
			}

			pkg, ok := matchPackage(s.catalog, project)
			if !ok {
				return fmt.Errorf("no project matches %q", project)
			}
			p := timesheet.TaskRef{ID: pkg.PackageID.ID, Title: pkg.PackageID.Title}
			t, ok := match(taskRefs(pkg), task)
			if !ok {
				return fmt.Errorf("no task of %s matches %q", p.Title, task)
			}

			e := timesheet.Entry{
				Date: date, ProjectID: p.ID, ProjectName: p.Title,
				TaskID: t.ID, TaskName: t.Title, Hours: hours, Comments: comment,
			}
			for _, cur := range s.ws.Entries() {
				if cur.Key() == e.Key() {
					e.ID = cur.ID
					if !cmd.Flags().Changed("comment") {
						e.Comments = cur.Comments
					}
				}
			}
			s.ws.Edit(e)

			n, err := s.ws.Submit(cmd.Context(), s.client, s.employee, timesheet.Status(status))
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing changed.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %sh on %s / %s for %s\n", formatHours(hours), p.Title, t.Title, date)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&project, "project", "p", "", "Project id or name")
	f.StringVarP(&task, "task", "t", "", "Task id or name")
	f.StringVar(&date, "date", "", "Day YYYY-MM-DD (defaults to today)")
	f.Float64Var(&hours, "hours", 0, "Hours worked, 0 to 24")
	f.StringVarP(&comment, "comment", "m", "", "Comment")
	f.StringVar(&status, "status", "", "Status to submit with (defaults to Waiting For Approval)")
	cmd.MarkFlagRequired("project")
	cmd.MarkFlagRequired("task")
	cmd.MarkFlagRequired("hours")
	return cmd
}

func matchPackage(groups []timesheet.PackageGroup, q string) (timesheet.PackageGroup, bool) {
	refs := make([]timesheet.TaskRef, len(groups))
	for i, g := range groups {
		refs[i] = timesheet.TaskRef{ID: g.PackageID.ID, Title: g.PackageID.Title}
	}
	r, ok := match(refs, q)
	if !ok {
		return timesheet.PackageGroup{}, false
	}
	for _, g := range groups {
		if g.PackageID.ID == r.ID {
			return g, true
		}
	}
	return timesheet.PackageGroup{}, false
}

func taskRefs(g timesheet.PackageGroup) []timesheet.TaskRef {
	refs := make([]timesheet.TaskRef, len(g.Tasks))
	for i, t := range g.Tasks {
		refs[i] = timesheet.TaskRef{ID: t.TaskID.ID, Title: t.TaskID.Title}
	}
	return refs
}

// match finds a ref by exact id, then by case-insensitive name
func match(refs []timesheet.TaskRef, q string) (timesheet.TaskRef, bool) {
	for _, r := range refs {
		if r.ID == q {
			return r, true
		}
	}
	for _, r := range refs {
		if strings.EqualFold(r.Title, q) {
			return r, true
		}
	}
	return timesheet.TaskRef{}, false
}
