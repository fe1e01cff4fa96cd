package timesheet_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"timesheet-backend/internal/timesheet"
)

func f(v float64) *float64 { return &v }
func s(v string) *string   { return &v }

func fixture() []timesheet.PackageGroup {
	return []timesheet.PackageGroup{
		{
			PackageID: timesheet.Ref{ID: "P1", Title: "Payroll"},
			Tasks: []timesheet.TaskGroup{
				{
					TaskID: timesheet.Ref{ID: "T1", Title: "Design"},
					Timesheet: []timesheet.Record{
						{ID: "r1", Date: "2025-07-01T00:00:00Z", Hours: f(4), Comments: s("draft"), Status: timesheet.StatusApproved},
						{ID: "r2", Date: "2025-07-02", Hours: f(2)},
					},
				},
				{
					TaskID: timesheet.Ref{ID: "T2", Title: "Build"},
					Timesheet: []timesheet.Record{
						{ID: "r3", Date: "2025-07-01", IsWeekOff: true, IsHoliday: true, Comments: s("sunday")},
					},
				},
			},
		},
		{
			PackageID: timesheet.Ref{ID: "P2", Title: "Portal"},
			Tasks: []timesheet.TaskGroup{
				{
					TaskID:    timesheet.Ref{ID: "T3", Title: "Review"},
					Timesheet: []timesheet.Record{{ID: "r4", Date: "2025-07-03", Hours: f(8), IsVacation: true, LeaveReason: "trip"}},
				},
			},
		},
	}
}

func TestFlatten(t *testing.T) {
	entries := timesheet.Flatten(fixture())
	if len(entries) != 4 {
		t.Fatalf("Flatten len = %d, want 4", len(entries))
	}
	first := entries[0]
	if first.Date != "2025-07-01" || first.ProjectName != "Payroll" || first.TaskName != "Design" || first.Hours != 4 || first.Comments != "draft" {
		t.Errorf("Flatten first = %+v", first)
	}
	if entries[2].Hours != 0 || entries[2].TaskID != "T2" {
		t.Errorf("missing hours should default to 0, got %+v", entries[2])
	}
	if entries[1].Comments != "" {
		t.Errorf("missing comments should default to empty, got %q", entries[1].Comments)
	}
	wantOrder := []string{"r1", "r2", "r3", "r4"}
	for i, e := range entries {
		if e.ID != wantOrder[i] {
			t.Errorf("entry %d id = %q, want %q", i, e.ID, wantOrder[i])
		}
	}
}

func TestFlattenEmpty(t *testing.T) {
	if got := timesheet.Flatten(nil); len(got) != 0 {
		t.Errorf("Flatten(nil) = %v, want empty", got)
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct{ in, want string }{
		{"2025-07-01", "2025-07-01"},
		{"2025-07-01T18:30:00Z", "2025-07-01"},
		{"2025-07-01T18:30:00.000+05:30", "2025-07-01"},
		{"not a date", "not a date"},
	}
	for _, tt := range tests {
		if got := timesheet.NormalizeDate(tt.in); got != tt.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDateRange(t *testing.T) {
	got := timesheet.DateRange("2025-02-27", "2025-03-02")
	want := []string{"2025-02-27", "2025-02-28", "2025-03-01", "2025-03-02"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DateRange = %v, want %v", got, want)
	}
	if got := timesheet.DateRange("", "2025-03-02"); len(got) != 0 {
		t.Errorf("DateRange with empty start = %v, want empty", got)
	}
	if got := timesheet.DateRange("2025-03-02", "2025-03-01"); len(got) != 0 {
		t.Errorf("DateRange reversed = %v, want empty", got)
	}
	if got := timesheet.DateRange("2025-03-02", "2025-03-02"); len(got) != 1 {
		t.Errorf("DateRange single day len = %d, want 1", len(got))
	}
}

func TestIsPastDate(t *testing.T) {
	now := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		date string
		want bool
	}{
		{"2025-07-01", false},
		{"2025-07-14", false},
		{"2025-07-15", false},
		{"2025-07-31", false},
		{"2025-06-30", true},
		{"2024-07-01", true},
		{"2025-08-01", false},
		{"garbage", false},
	}
	for _, tt := range tests {
		if got := timesheet.IsPastDate(tt.date, now); got != tt.want {
			t.Errorf("IsPastDate(%q) = %v, want %v", tt.date, got, tt.want)
		}
	}

	clock := timesheet.Clock(func() time.Time { return now })
	if !clock.IsPast("2025-06-30") {
		t.Error("Clock.IsPast(2025-06-30) = false, want true")
	}
}

func TestNavigateRange(t *testing.T) {
	week := timesheet.Range{Start: "2025-07-07", End: "2025-07-13"}
	next := timesheet.NavigateRange(timesheet.Next, week)
	if next != (timesheet.Range{Start: "2025-07-14", End: "2025-07-20"}) {
		t.Errorf("Next = %+v", next)
	}
	prev := timesheet.NavigateRange(timesheet.Previous, week)
	if prev != (timesheet.Range{Start: "2025-06-30", End: "2025-07-06"}) {
		t.Errorf("Previous = %+v", prev)
	}
	if prev.Span() != week.Span() {
		t.Errorf("span changed: %d != %d", prev.Span(), week.Span())
	}
	bad := timesheet.Range{Start: "x", End: "2025-07-13"}
	if got := timesheet.NavigateRange(timesheet.Next, bad); got != bad {
		t.Errorf("malformed range moved to %+v", got)
	}
}

func keys(entries []timesheet.Entry) []timesheet.Key {
	var out []timesheet.Key
	for _, e := range entries {
		out = append(out, e.Key())
	}
	return out
}

func TestTrackChangesExactness(t *testing.T) {
	originals := timesheet.Flatten(fixture())
	var changes []timesheet.Entry

	edit := originals[0]
	edit.ID = ""
	edit.Hours = 6
	changes = timesheet.TrackChanges(edit, originals, changes)
	if len(changes) != 1 || changes[0].ID != "r1" {
		t.Fatalf("after first edit changes = %+v", changes)
	}

	edit.Hours = 7
	changes = timesheet.TrackChanges(edit, originals, changes)
	if len(changes) != 1 || changes[0].Hours != 7 {
		t.Fatalf("second edit should replace, got %+v", changes)
	}

	other := originals[1]
	other.Comments = "note"
	changes = timesheet.TrackChanges(other, originals, changes)

	fresh := timesheet.Entry{ProjectID: "P1", TaskID: "T1", Date: "2025-07-05", Hours: 1}
	changes = timesheet.TrackChanges(fresh, originals, changes)

	want := []timesheet.Key{originals[0].Key(), originals[1].Key(), fresh.Key()}
	if !reflect.DeepEqual(keys(changes), want) {
		t.Errorf("change keys = %v, want %v", keys(changes), want)
	}

	// flags alone are not a change
	flagOnly := originals[3]
	flagOnly.IsVacation = false
	changes = timesheet.TrackChanges(flagOnly, originals, changes)
	if len(changes) != 3 {
		t.Errorf("flag-only edit changed set size to %d", len(changes))
	}
}

func TestTrackChangesRevert(t *testing.T) {
	originals := timesheet.Flatten(fixture())
	before := []timesheet.Entry{}

	edit := originals[1]
	edit.Hours = 5
	changes := timesheet.TrackChanges(edit, originals, before)
	if len(changes) != 1 {
		t.Fatalf("changes = %d, want 1", len(changes))
	}
	changes = timesheet.TrackChanges(originals[1], originals, changes)
	if len(changes) != 0 {
		t.Errorf("revert left %d changes", len(changes))
	}
	if len(before) != 0 {
		t.Error("input slice was mutated")
	}
}

func TestChangeSet(t *testing.T) {
	originals := timesheet.Flatten(fixture())
	cs := timesheet.NewChangeSet(originals)

	e := originals[0]
	e.ID = ""
	e.Comments = "updated"
	stored := cs.Track(e)
	if stored.ID != "r1" {
		t.Errorf("Track id = %q, want r1", stored.ID)
	}
	if !cs.Has(e.Key()) || cs.Len() != 1 {
		t.Errorf("change-set missing %v", e.Key())
	}
	if o, ok := cs.Original(e.Key()); !ok || o.Comments != "draft" {
		t.Errorf("Original = %+v, %v", o, ok)
	}
	cs.Track(originals[0])
	if cs.Len() != 0 {
		t.Errorf("Len after revert = %d", cs.Len())
	}
}

func TestProjectTotalHours(t *testing.T) {
	entries := []timesheet.Entry{
		{ProjectID: "P1", TaskID: "T1", Date: "2025-06-30", Hours: 5},
		{ProjectID: "P1", TaskID: "T1", Date: "2025-07-01", Hours: 2},
		{ProjectID: "P1", TaskID: "T2", Date: "2025-07-15", Hours: 3.5},
		{ProjectID: "P1", TaskID: "T3", Date: "2025-07-15", Hours: 10},
		{ProjectID: "P1", TaskID: "T1", Date: "2025-07-31", Hours: 1},
		{ProjectID: "P1", TaskID: "T1", Date: "2025-08-01", Hours: 9},
		{ProjectID: "P2", TaskID: "T1", Date: "2025-07-10", Hours: 4},
	}
	july := timesheet.Range{Start: "2025-07-01", End: "2025-07-31"}
	got := timesheet.ProjectTotalHours("P1", entries, july, []string{"T1", "T2"})
	if got != 6.5 {
		t.Errorf("ProjectTotalHours = %v, want 6.5", got)
	}
	if got := timesheet.ProjectTotalHours("P1", entries, july, nil); got != 0 {
		t.Errorf("ProjectTotalHours with no tasks = %v, want 0", got)
	}
}

func TestDailyTotalHours(t *testing.T) {
	entries := timesheet.Flatten(fixture())
	totals := timesheet.DailyTotalHours(entries, timesheet.Range{Start: "2025-07-01", End: "2025-07-02"})
	if totals["2025-07-01"] != 4 || totals["2025-07-02"] != 2 || len(totals) != 2 {
		t.Errorf("DailyTotalHours = %v", totals)
	}
}

func TestDateStatus(t *testing.T) {
	entries := timesheet.Flatten(fixture())

	m := timesheet.DateStatus("2025-07-01", "T2", "P1", entries)
	if m == nil || m.Label != timesheet.LabelWeekOff || m.Comment != "sunday" {
		t.Errorf("weekoff+holiday = %+v, want weekoff", m)
	}
	m = timesheet.DateStatus("2025-07-03", "T3", "P2", entries)
	if m == nil || m.Label != timesheet.LabelLeave || m.Comment != "trip" {
		t.Errorf("vacation = %+v, want leave/trip", m)
	}
	if m := timesheet.DateStatus("2025-07-01", "T1", "P1", entries); m != nil {
		t.Errorf("working day = %+v, want nil", m)
	}
	if m := timesheet.DateStatus("2025-07-09", "T1", "P1", entries); m != nil {
		t.Errorf("missing entry = %+v, want nil", m)
	}
	holiday := []timesheet.Entry{{ProjectID: "P", TaskID: "T", Date: "2025-01-26", IsHoliday: true, Comments: "republic day"}}
	if m := timesheet.DateStatus("2025-01-26", "T", "P", holiday); m == nil || m.Label != timesheet.LabelHoliday {
		t.Errorf("holiday = %+v", m)
	}
}

func TestPrepareSubmitDataRoundTrip(t *testing.T) {
	src := fixture()
	out := timesheet.PrepareSubmitData(timesheet.Flatten(src), "")

	if len(out) != len(src) {
		t.Fatalf("packages = %d, want %d", len(out), len(src))
	}
	for pi := range src {
		if out[pi].PackageID != src[pi].PackageID {
			t.Errorf("package %d = %+v, want %+v", pi, out[pi].PackageID, src[pi].PackageID)
		}
		if len(out[pi].Tasks) != len(src[pi].Tasks) {
			t.Fatalf("package %d tasks = %d, want %d", pi, len(out[pi].Tasks), len(src[pi].Tasks))
		}
		for ti := range src[pi].Tasks {
			if out[pi].Tasks[ti].TaskID != src[pi].Tasks[ti].TaskID {
				t.Errorf("task %d/%d = %+v", pi, ti, out[pi].Tasks[ti].TaskID)
			}
			if len(out[pi].Tasks[ti].Timesheet) != len(src[pi].Tasks[ti].Timesheet) {
				t.Errorf("task %d/%d records = %d", pi, ti, len(out[pi].Tasks[ti].Timesheet))
			}
			for _, rec := range out[pi].Tasks[ti].Timesheet {
				if rec.Status != timesheet.StatusWaitingForApproval {
					t.Errorf("status = %q", rec.Status)
				}
				if rec.IsHoliday || rec.IsVacation || rec.IsWeekOff || rec.LeaveReason != "" {
					t.Errorf("markers not cleared: %+v", rec)
				}
			}
		}
	}
	if err := timesheet.Validate(out); err != nil {
		t.Errorf("Validate(round trip) = %v", err)
	}
}

func TestPrepareSubmitDataStatus(t *testing.T) {
	changes := timesheet.Flatten(fixture())
	tests := []struct {
		in, want timesheet.Status
	}{
		{timesheet.StatusNotSubmitted, timesheet.StatusWaitingForApproval},
		{"", timesheet.StatusWaitingForApproval},
		{timesheet.StatusApproved, timesheet.StatusApproved},
		{timesheet.StatusRejected, timesheet.StatusRejected},
	}
	for _, tt := range tests {
		for _, pkg := range timesheet.PrepareSubmitData(changes, tt.in) {
			for _, task := range pkg.Tasks {
				for _, rec := range task.Timesheet {
					if rec.Status != tt.want {
						t.Errorf("PrepareSubmitData(%q) status = %q, want %q", tt.in, rec.Status, tt.want)
					}
				}
			}
		}
	}
}

func TestTasksByProject(t *testing.T) {
	entries := []timesheet.Entry{
		{ProjectID: "P1", ProjectName: "Payroll", TaskID: "T1", TaskName: "Design", Date: "2025-07-01"},
		{ProjectID: "P1", ProjectName: "Payroll", TaskID: "T1", TaskName: "Design", Date: "2025-07-02"},
		{ProjectID: "P1", ProjectName: "Payroll", TaskID: "T2", TaskName: "Build", Date: "2025-07-01"},
		{ProjectID: "P2", ProjectName: "Portal", TaskID: "T3", TaskName: "Design", Date: "2025-07-01"},
	}
	got := timesheet.TasksByProject("P1", entries, "")
	want := []timesheet.TaskRef{{ID: "T1", Title: "Design"}, {ID: "T2", Title: "Build"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TasksByProject = %v, want %v", got, want)
	}
	got = timesheet.TasksByProject("P1", entries, "BUI")
	if len(got) != 1 || got[0].ID != "T2" {
		t.Errorf("TasksByProject(BUI) = %v", got)
	}
	got = timesheet.TasksByProject("P1", entries, "payroll")
	if len(got) != 2 {
		t.Errorf("project name match = %v", got)
	}
}

func TestValidate(t *testing.T) {
	if err := timesheet.Validate(fixture()); err != nil {
		t.Fatalf("Validate(fixture) = %v", err)
	}
	bad := []timesheet.PackageGroup{{
		Tasks: []timesheet.TaskGroup{{
			TaskID:    timesheet.Ref{ID: "T"},
			Timesheet: []timesheet.Record{{Date: "07/01/2025", Hours: f(-1), Status: "Done"}},
		}},
	}}
	err := timesheet.Validate(bad)
	if err == nil {
		t.Fatal("Validate(bad) = nil")
	}
	for _, frag := range []string{"packages[0]: missing _id", "invalid date", "out of range", "unknown status"} {
		if !strings.Contains(err.Error(), frag) {
			t.Errorf("error %q missing %q", err, frag)
		}
	}
}

func TestValidateDuplicateKey(t *testing.T) {
	groups := fixture()
	design := &groups[0].Tasks[0]
	design.Timesheet = append(design.Timesheet, timesheet.Record{Date: "2025-07-02T00:00:00Z", Hours: f(1)})

	err := timesheet.Validate(groups)
	if !errors.Is(err, timesheet.ErrInvalidPayload) {
		t.Fatalf("Validate = %v, want ErrInvalidPayload", err)
	}
	if !strings.Contains(err.Error(), "duplicate of packages[0].tasks[0].timesheet[1]") {
		t.Errorf("error = %q", err)
	}

	// same date on another task is a different key
	groups = fixture()
	groups[0].Tasks[1].Timesheet = append(groups[0].Tasks[1].Timesheet, timesheet.Record{Date: "2025-07-02", Hours: f(1)})
	if err := timesheet.Validate(groups); err != nil {
		t.Errorf("Validate(distinct tasks) = %v", err)
	}
}
