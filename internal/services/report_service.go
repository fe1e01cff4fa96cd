package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"timesheet-backend/internal/timesheet"

	"github.com/xuri/excelize/v2"
)

var reportHeader = []string{
	"Date", "Project", "Task", "Hours", "Status", "Comments",
	"Leave Reason", "Holiday", "Vacation", "Week Off",
}

// ReportService exports timesheets as spreadsheets
type ReportService struct {
	Timesheets *TimesheetService
}

func NewReportService(timesheets *TimesheetService) *ReportService {
	return &ReportService{Timesheets: timesheets}
}

func reportRows(entries []timesheet.Entry) ([][]string, float64) {
	rows := make([][]string, 0, len(entries))
	var total float64
	for _, e := range entries {
		total += e.Hours
		rows = append(rows, []string{
			e.Date,
			e.ProjectName,
			e.TaskName,
			strconv.FormatFloat(e.Hours, 'f', -1, 64),
			string(e.Status),
			e.Comments,
			e.LeaveReason,
			yesNo(e.IsHoliday),
			yesNo(e.IsVacation),
			yesNo(e.IsWeekOff),
		})
	}
	return rows, total
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return ""
}

// GenerateCSV renders the range as CSV with a trailing total row
func (s *ReportService) GenerateCSV(ctx context.Context, employeeID int, start, end string) ([]byte, error) {
	entries, _, err := s.Timesheets.Entries(ctx, employeeID, start, end)
	if err != nil {
		return nil, err
	}
	return EntriesCSV(entries)
}

// EntriesCSV renders entries as CSV
func EntriesCSV(entries []timesheet.Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write(reportHeader)
	rows, total := reportRows(entries)
	for _, row := range rows {
		w.Write(row)
	}
	w.Write([]string{"Total", "", "", strconv.FormatFloat(total, 'f', -1, 64)})

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateXLSX renders the range as an Excel workbook
func (s *ReportService) GenerateXLSX(ctx context.Context, employeeID int, start, end string) ([]byte, error) {
	entries, rng, err := s.Timesheets.Entries(ctx, employeeID, start, end)
	if err != nil {
		return nil, err
	}
	return EntriesXLSX(entries, rng)
}

// EntriesXLSX renders entries into a single-sheet workbook named after the range
func EntriesXLSX(entries []timesheet.Entry, rng timesheet.Range) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := "Timesheet"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}

	f.SetCellValue(sheet, "A1", fmt.Sprintf("Timesheet %s to %s", rng.Start, rng.End))
	for i, h := range reportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		f.SetCellValue(sheet, cell, h)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		f.SetCellStyle(sheet, "A3", "J3", style)
	}

	rows, total := reportRows(entries)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+4)
			if c == 3 {
				f.SetCellValue(sheet, cell, entries[r].Hours)
				continue
			}
			f.SetCellValue(sheet, cell, v)
		}
	}
	totalRow := len(rows) + 4
	f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", totalRow), total)
	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "B", "C", 24)
	f.SetColWidth(sheet, "F", "G", 32)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
