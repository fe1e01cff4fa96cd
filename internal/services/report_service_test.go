package services_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"timesheet-backend/internal/services"
	"timesheet-backend/internal/testutil"
	"timesheet-backend/internal/timesheet"

	"github.com/xuri/excelize/v2"
)

var reportEntries = []timesheet.Entry{
	{Date: "2025-07-01", ProjectID: "10", ProjectName: "Payroll", TaskID: "11", TaskName: "Design", Hours: 4, Status: timesheet.StatusApproved},
	{Date: "2025-07-02", ProjectID: "10", ProjectName: "Payroll", TaskID: "11", TaskName: "Design", Hours: 2.5, Comments: "review, fixes"},
	{Date: "2025-07-03", ProjectID: "20", ProjectName: "Portal", TaskID: "21", TaskName: "Review", IsVacation: true, LeaveReason: "trip"},
}

func TestEntriesCSV(t *testing.T) {
	data, err := services.EntriesCSV(reportEntries)
	if err != nil {
		t.Fatal(err)
	}
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(rows))
	}
	if rows[0][0] != "Date" || rows[2][5] != "review, fixes" || rows[3][8] != "Yes" {
		t.Errorf("rows = %q", rows)
	}
	if last := rows[4]; last[0] != "Total" || last[3] != "6.5" {
		t.Errorf("total row = %q", last)
	}
}

func TestEntriesXLSX(t *testing.T) {
	data, err := services.EntriesXLSX(reportEntries, timesheet.Range{Start: "2025-07-01", End: "2025-07-07"})
	if err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	title, _ := f.GetCellValue("Timesheet", "A1")
	if title != "Timesheet 2025-07-01 to 2025-07-07" {
		t.Errorf("A1 = %q", title)
	}
	project, _ := f.GetCellValue("Timesheet", "B4")
	if project != "Payroll" {
		t.Errorf("B4 = %q", project)
	}
	total, _ := f.GetCellValue("Timesheet", "D7")
	if total != "6.5" {
		t.Errorf("D7 = %q", total)
	}
}

func TestGenerateCSV(t *testing.T) {
	f := testutil.NewFixture()
	data, err := services.NewReportService(f.Service).GenerateCSV(context.Background(), 2, "2025-07-01", "2025-07-07")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("Payroll,Design,4,Approved")) {
		t.Errorf("csv = %s", data)
	}
}
