package services_test

import (
	"context"
	"errors"
	"testing"

	"timesheet-backend/internal/auth"
	"timesheet-backend/internal/models"
	"timesheet-backend/internal/services"
	"timesheet-backend/internal/testutil"
	"timesheet-backend/internal/timesheet"
	"timesheet-backend/internal/timeutil"
)

func fp(v float64) *float64 { return &v }

var (
	admin    = testutil.Admin
	employee = testutil.Employee
	mentor   = testutil.Mentor
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		start, end string
		ok         bool
	}{
		{"2025-07-01", "2025-07-07", true},
		{"2025-07-07", "2025-07-07", true},
		{"2025-07-08", "2025-07-07", false},
		{"07/01/2025", "2025-07-07", false},
		{"2024-01-01", "2025-07-07", false},
	}
	for _, tt := range tests {
		_, err := services.ParseRange(tt.start, tt.end)
		if (err == nil) != tt.ok {
			t.Errorf("ParseRange(%s, %s) = %v", tt.start, tt.end, err)
		}
		if err != nil && !errors.Is(err, services.ErrInvalidInput) {
			t.Errorf("ParseRange error %v is not ErrInvalidInput", err)
		}
	}
}

func TestFetchListsAssignedTasks(t *testing.T) {
	f := testutil.NewFixture()
	groups, err := f.Service.Fetch(context.Background(), 2, "2025-07-01", "2025-07-07")
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 2 || groups[0].PackageID.ID != "10" || groups[1].PackageID.ID != "20" {
		t.Fatalf("groups = %+v", groups)
	}
	payroll := groups[0]
	if len(payroll.Tasks) != 2 {
		t.Fatalf("payroll tasks = %+v", payroll.Tasks)
	}
	if got := len(payroll.Tasks[0].Timesheet); got != 2 {
		t.Errorf("Design records = %d, want 2", got)
	}
	if payroll.Tasks[1].TaskID.Title != "Build" || len(payroll.Tasks[1].Timesheet) != 0 {
		t.Errorf("Build = %+v", payroll.Tasks[1])
	}
	rec := payroll.Tasks[0].Timesheet[0]
	if rec.ID != "1" || rec.Date != "2025-07-01" || *rec.Hours != 4 || rec.Status != timesheet.StatusApproved {
		t.Errorf("record = %+v", rec)
	}
}

func TestGroupRecordsUnassignedTask(t *testing.T) {
	rows := []*models.TimesheetRow{
		{ID: 9, PackageID: 30, PackageTitle: "Legacy", TaskID: 31, TaskTitle: "Old", WorkDate: testutil.Day("2025-07-01"), Hours: 1},
	}
	groups := services.GroupRecords(nil, rows)
	if len(groups) != 1 || groups[0].PackageID.Title != "Legacy" || len(groups[0].Tasks[0].Timesheet) != 1 {
		t.Errorf("groups = %+v", groups)
	}
}

func TestAuthorize(t *testing.T) {
	f := testutil.NewFixture()
	ctx := context.Background()
	tests := []struct {
		name       string
		actor      *auth.Claims
		employeeID int
		write      bool
		want       error
	}{
		{"self", employee, 2, true, nil},
		{"admin same org", admin, 2, true, nil},
		{"admin other org", admin, 4, false, services.ErrNotFound},
		{"mentor reads mentee", mentor, 2, false, nil},
		{"mentor cannot write", mentor, 2, true, services.ErrForbidden},
		{"peer", employee, 3, false, services.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.Service.Authorize(ctx, tt.actor, tt.employeeID, tt.write)
			if !errors.Is(err, tt.want) || (tt.want == nil && err != nil) {
				t.Errorf("Authorize = %v, want %v", err, tt.want)
			}
		})
	}
}

func submission(pkgID, taskID string, recs ...timesheet.Record) []timesheet.PackageGroup {
	return []timesheet.PackageGroup{{
		PackageID: timesheet.Ref{ID: pkgID},
		Tasks:     []timesheet.TaskGroup{{TaskID: timesheet.Ref{ID: taskID}, Timesheet: recs}},
	}}
}

func TestSubmit(t *testing.T) {
	f := testutil.NewFixture()
	ctx := context.Background()

	n, err := f.Service.Submit(ctx, employee, 2, submission("10", "11",
		timesheet.Record{ID: "2", Date: "2025-07-02T00:00:00Z", Hours: fp(3), Comments: nil},
		timesheet.Record{Date: "2025-07-05", Hours: fp(5), Status: timesheet.StatusNotSubmitted},
	))
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 || len(f.Timesheets.Batches) != 1 {
		t.Fatalf("n = %d, batches = %d", n, len(f.Timesheets.Batches))
	}
	batch := f.Timesheets.Batches[0]
	if batch[0].ID != 2 || batch[0].TaskID != 11 || batch[0].Hours != 3 || batch[0].EmployeeID != 2 {
		t.Errorf("first = %+v", batch[0])
	}
	if batch[0].WorkDate.Format(timeutil.DateLayout) != "2025-07-02" {
		t.Errorf("work date = %v", batch[0].WorkDate)
	}
	for _, r := range batch {
		if r.Status != string(timesheet.StatusWaitingForApproval) {
			t.Errorf("status = %q", r.Status)
		}
	}
}

func TestSubmitRejections(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		actor  *auth.Claims
		groups []timesheet.PackageGroup
		want   error
	}{
		{"task outside package", employee, submission("10", "21", timesheet.Record{Date: "2025-07-05", Hours: fp(1)}), services.ErrForbidden},
		{"unassigned package", employee, submission("30", "31", timesheet.Record{Date: "2025-07-05", Hours: fp(1)}), services.ErrForbidden},
		{"self approval", employee, submission("10", "11", timesheet.Record{Date: "2025-07-05", Hours: fp(1), Status: timesheet.StatusApproved}), services.ErrForbidden},
		{"closed month", employee, submission("10", "11", timesheet.Record{Date: "2025-06-30", Hours: fp(1)}), services.ErrForbidden},
		{"hours out of range", employee, submission("10", "11", timesheet.Record{Date: "2025-07-05", Hours: fp(30)}), services.ErrInvalidInput},
		{"bad record id", employee, submission("10", "11", timesheet.Record{ID: "abc", Date: "2025-07-05", Hours: fp(1)}), services.ErrInvalidInput},
		{"daily cap", employee, []timesheet.PackageGroup{{
			PackageID: timesheet.Ref{ID: "10"},
			Tasks: []timesheet.TaskGroup{
				{TaskID: timesheet.Ref{ID: "11"}, Timesheet: []timesheet.Record{{Date: "2025-07-05", Hours: fp(20)}}},
				{TaskID: timesheet.Ref{ID: "12"}, Timesheet: []timesheet.Record{{Date: "2025-07-05", Hours: fp(10)}}},
			},
		}}, services.ErrInvalidInput},
		{"daily cap with stored hours", employee, submission("10", "12",
			timesheet.Record{Date: "2025-07-02", Hours: fp(23)}), services.ErrInvalidInput},
		{"duplicate date", employee, submission("10", "11",
			timesheet.Record{Date: "2025-07-09", Hours: fp(2)},
			timesheet.Record{Date: "2025-07-09T00:00:00Z", Hours: fp(3)}), services.ErrInvalidInput},
		{"record moved to another date", employee, submission("10", "11",
			timesheet.Record{ID: "2", Date: "2025-07-09", Hours: fp(1)}), services.ErrInvalidInput},
		{"record moved to another task", employee, submission("10", "12",
			timesheet.Record{ID: "2", Date: "2025-07-02", Hours: fp(1)}), services.ErrInvalidInput},
		{"unknown record", employee, submission("10", "11",
			timesheet.Record{ID: "99", Date: "2025-07-09", Hours: fp(1)}), services.ErrNotFound},
		{"mentor", mentor, submission("10", "11", timesheet.Record{Date: "2025-07-05", Hours: fp(1)}), services.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testutil.NewFixture()
			_, err := f.Service.Submit(ctx, tt.actor, 2, tt.groups)
			if !errors.Is(err, tt.want) {
				t.Errorf("Submit = %v, want %v", err, tt.want)
			}
			if len(f.Timesheets.Batches) != 0 {
				t.Error("rejected submission was written")
			}
		})
	}
}

func TestSubmitClosedMonthRecordStaysPut(t *testing.T) {
	f := testutil.NewFixture()
	f.Timesheets.Rows[1].WorkDate = testutil.Day("2025-06-10")

	_, err := f.Service.Submit(context.Background(), employee, 2, submission("10", "11",
		timesheet.Record{ID: "2", Date: "2025-07-09", Hours: fp(1)}))
	if !errors.Is(err, services.ErrInvalidInput) {
		t.Errorf("Submit = %v, want ErrInvalidInput", err)
	}
	_, err = f.Service.Submit(context.Background(), employee, 2, submission("10", "11",
		timesheet.Record{ID: "2", Date: "2025-06-10", Hours: fp(1)}))
	if !errors.Is(err, services.ErrForbidden) {
		t.Errorf("Submit in closed month = %v, want ErrForbidden", err)
	}
	if len(f.Timesheets.Batches) != 0 {
		t.Error("closed month record was written")
	}
}

func TestSubmitDailyCapReplacesStoredHours(t *testing.T) {
	f := testutil.NewFixture()
	// 2025-07-02 holds 2.5h on Design; rewriting that cell does not count it twice
	n, err := f.Service.Submit(context.Background(), employee, 2, []timesheet.PackageGroup{{
		PackageID: timesheet.Ref{ID: "10"},
		Tasks: []timesheet.TaskGroup{
			{TaskID: timesheet.Ref{ID: "11"}, Timesheet: []timesheet.Record{{ID: "2", Date: "2025-07-02", Hours: fp(1)}}},
			{TaskID: timesheet.Ref{ID: "12"}, Timesheet: []timesheet.Record{{Date: "2025-07-02", Hours: fp(23)}}},
		},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("n = %d", n)
	}
}

func TestSubmitAdminOverrides(t *testing.T) {
	f := testutil.NewFixture()
	_, err := f.Service.Submit(context.Background(), admin, 2, submission("10", "11",
		timesheet.Record{Date: "2025-06-30", Hours: fp(8), Status: timesheet.StatusApproved}))
	if err != nil {
		t.Fatalf("admin submit: %v", err)
	}
	if got := f.Timesheets.Batches[0][0].Status; got != "Approved" {
		t.Errorf("status = %q", got)
	}
}

func TestSubmitLocked(t *testing.T) {
	f := testutil.NewFixture()
	f.Timesheets.UpsertErr = services.ErrLocked
	_, err := f.Service.Submit(context.Background(), employee, 2, submission("10", "11",
		timesheet.Record{ID: "1", Date: "2025-07-01", Hours: fp(1)}))
	if !errors.Is(err, services.ErrLocked) {
		t.Errorf("Submit = %v, want ErrLocked", err)
	}
}

func TestReview(t *testing.T) {
	f := testutil.NewFixture()
	ctx := context.Background()

	if _, err := f.Service.Review(ctx, employee, &models.ReviewRequest{EmployeeID: 2, IDs: []int{2}, Status: "Approved"}); !errors.Is(err, services.ErrForbidden) {
		t.Errorf("employee review = %v", err)
	}
	if _, err := f.Service.Review(ctx, admin, &models.ReviewRequest{EmployeeID: 2, IDs: []int{2}, Status: "Waiting For Approval"}); !errors.Is(err, services.ErrInvalidInput) {
		t.Errorf("bad status = %v", err)
	}

	n, err := f.Service.Review(ctx, admin, &models.ReviewRequest{EmployeeID: 2, IDs: []int{2, 3}, Status: "Rejected", Note: "split by task"})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("n = %d", n)
	}
	up := f.Timesheets.Updates[0]
	if up.EmployeeID != 2 || up.Status != "Rejected" || up.Reviewer != 1 {
		t.Errorf("update = %+v", up)
	}
	if len(f.Notifications.Items) != 1 || f.Notifications.Items[0].EmployeeID != 2 {
		t.Fatalf("notifications = %+v", f.Notifications.Items)
	}
	if f.Hub.Pushed[2] != 1 {
		t.Errorf("pushed = %v", f.Hub.Pushed)
	}
}

func TestSummary(t *testing.T) {
	f := testutil.NewFixture()
	sum, err := f.Service.Summary(context.Background(), 2, "2025-07-01", "2025-07-07")
	if err != nil {
		t.Fatal(err)
	}
	if sum.TotalHours != 6.5 {
		t.Errorf("total = %v", sum.TotalHours)
	}
	if len(sum.Daily) != 7 || sum.Daily["2025-07-02"] != 2.5 || sum.Daily["2025-07-07"] != 0 {
		t.Errorf("daily = %v", sum.Daily)
	}
	want := map[string]float64{"10": 6.5, "20": 0}
	if len(sum.Projects) != 2 {
		t.Fatalf("projects = %+v", sum.Projects)
	}
	for _, p := range sum.Projects {
		if p.Hours != want[p.PackageID] {
			t.Errorf("project %s = %v, want %v", p.PackageID, p.Hours, want[p.PackageID])
		}
	}
}

func TestLeaveDays(t *testing.T) {
	f := testutil.NewFixture()
	n, err := f.Service.LeaveDays(context.Background(), 2, "2025-07-01", "2025-07-31")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("leave days = %d, want 2", n)
	}
}

func TestCountLeaveDaysDistinct(t *testing.T) {
	entries := []timesheet.Entry{
		{Date: "2025-07-03", TaskID: "1", IsVacation: true},
		{Date: "2025-07-03", TaskID: "2", IsVacation: true},
		{Date: "2025-07-04", TaskID: "1"},
	}
	if got := services.CountLeaveDays(entries); got != 1 {
		t.Errorf("CountLeaveDays = %d, want 1", got)
	}
}
