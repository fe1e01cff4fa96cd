// Package cli implements tsctl, a terminal client for the timesheet API.
package cli

import (
	"context"
	"fmt"
	"os"

	"timesheet-backend/internal/client"
	"timesheet-backend/internal/timesheet"
	"timesheet-backend/internal/timeutil"

	"github.com/spf13/cobra"
)

type options struct {
	server   string
	token    string
	employee string
	start    string
	end      string
	shift    int
}

// NewRootCmd builds the tsctl command tree
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "tsctl",
		Short:         "Timesheet client for the terminal",
		Long:          "tsctl shows, totals and logs timesheet hours against the timesheet API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.server, "server", envOr("TSCTL_SERVER", "http://localhost:8080"), "API base URL")
	pf.StringVar(&opts.token, "token", os.Getenv("TSCTL_TOKEN"), "Bearer token (see `tsctl login`)")
	pf.StringVar(&opts.employee, "employee", "", "Employee id (defaults to the signed-in user)")
	pf.StringVar(&opts.start, "start", "", "First day YYYY-MM-DD (defaults to this week's Monday)")
	pf.StringVar(&opts.end, "end", "", "Last day YYYY-MM-DD (defaults to this week's Sunday)")
	pf.IntVar(&opts.shift, "shift", 0, "Move the range by its own length; negative goes back")

	root.AddCommand(newLoginCmd(opts))
	root.AddCommand(newShowCmd(opts))
	root.AddCommand(newTotalsCmd(opts))
	root.AddCommand(newLogCmd(opts))
	return root
}

// Execute is the entry point called from main.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// rangeFor resolves the start/end/shift flags
func (o *options) rangeFor() (timesheet.Range, error) {
	start, end := timeutil.WeekBounds(timeutil.Now())
	if o.start != "" {
		start = o.start
	}
	if o.end != "" {
		end = o.end
	}
	r := timesheet.Range{Start: start, End: end}
	if r.Span() == 0 {
		return r, fmt.Errorf("invalid range %s..%s", start, end)
	}

	dir, n := timesheet.Next, o.shift
	if n < 0 {
		dir, n = timesheet.Previous, -n
	}
	for i := 0; i < n; i++ {
		r = timesheet.NavigateRange(dir, r)
	}
	return r, nil
}

// session is a loaded workspace for one employee
type session struct {
	client   *client.Client
	employee string
	ws       *timesheet.Workspace
	// catalog is the last fetched payload; it lists assigned tasks that
	// have no records in the range too
	catalog []timesheet.PackageGroup
}

// recorder keeps the groups of the last Fetch
type recorder struct {
	timesheet.Source
	groups []timesheet.PackageGroup
}

func (r *recorder) Fetch(ctx context.Context, start, end, employeeID string) ([]timesheet.PackageGroup, error) {
	groups, err := r.Source.Fetch(ctx, start, end, employeeID)
	if err == nil {
		r.groups = groups
	}
	return groups, err
}

func (o *options) open(ctx context.Context) (*session, error) {
	if o.token == "" {
		return nil, fmt.Errorf("no token: run `tsctl login` or set TSCTL_TOKEN")
	}
	r, err := o.rangeFor()
	if err != nil {
		return nil, err
	}
	c := client.New(ctx, o.server, o.token)

	employee := o.employee
	if employee == "" {
		me, err := c.Me(ctx)
		if err != nil {
			return nil, err
		}
		employee = fmt.Sprint(me.ID)
	}

	rec := &recorder{Source: c}
	ws := timesheet.NewWorkspace(r)
	if err := ws.Load(ctx, rec, employee); err != nil {
		return nil, err
	}
	return &session{client: c, employee: employee, ws: ws, catalog: rec.groups}, nil
}
