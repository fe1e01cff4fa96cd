package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"timesheet-backend/internal/models"
	"timesheet-backend/internal/services"
	"timesheet-backend/internal/timesheet"
	"timesheet-backend/pkg/utils"
)

// maxSubmitBytes caps a submission body
const maxSubmitBytes = 1 << 20

type TimesheetHandler struct {
	Service *services.TimesheetService
	Reports *services.ReportService
}

func NewTimesheetHandler(s *services.TimesheetService, reports *services.ReportService) *TimesheetHandler {
	return &TimesheetHandler{Service: s, Reports: reports}
}

// authorizedEmployee resolves {id} and checks the caller may access it
func (h *TimesheetHandler) authorizedEmployee(w http.ResponseWriter, r *http.Request, write bool) (int, bool) {
	c, ok := claims(w, r)
	if !ok {
		return 0, false
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return 0, false
	}
	if err := h.Service.Authorize(r.Context(), c, id, write); err != nil {
		writeError(w, r, err)
		return 0, false
	}
	return id, true
}

// Fetch returns the nested timesheet of an employee for ?start=&end=
func (h *TimesheetHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorizedEmployee(w, r, false)
	if !ok {
		return
	}
	q := r.URL.Query()
	groups, err := h.Service.Fetch(r.Context(), id, q.Get("start"), q.Get("end"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, groups)
}

// Submit upserts the nested payload for an employee
func (h *TimesheetHandler) Submit(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var groups []timesheet.PackageGroup
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSubmitBytes)).Decode(&groups); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	n, err := h.Service.Submit(r.Context(), c, id, groups)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]int{"submitted": n})
}

// Review approves or rejects records (admin)
func (h *TimesheetHandler) Review(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	var req models.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	n, err := h.Service.Review(r.Context(), c, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]int64{"reviewed": n})
}

// Pending lists records waiting for approval in the caller's organisation (admin)
func (h *TimesheetHandler) Pending(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	rows, err := h.Service.Pending(r.Context(), c.OrganizationID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rows == nil {
		rows = []*models.TimesheetRow{}
	}
	utils.JSON(w, http.StatusOK, rows)
}

func (h *TimesheetHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorizedEmployee(w, r, false)
	if !ok {
		return
	}
	q := r.URL.Query()
	sum, err := h.Service.Summary(r.Context(), id, q.Get("start"), q.Get("end"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, sum)
}

// Export downloads the range as CSV (default) or XLSX
func (h *TimesheetHandler) Export(w http.ResponseWriter, r *http.Request) {
	id, ok := h.authorizedEmployee(w, r, false)
	if !ok {
		return
	}
	q := r.URL.Query()
	start, end := q.Get("start"), q.Get("end")

	var (
		data        []byte
		err         error
		contentType string
		ext         string
	)
	switch q.Get("format") {
	case "", "csv":
		data, err = h.Reports.GenerateCSV(r.Context(), id, start, end)
		contentType, ext = "text/csv", "csv"
	case "xlsx":
		data, err = h.Reports.GenerateXLSX(r.Context(), id, start, end)
		contentType, ext = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx"
	default:
		utils.Error(w, http.StatusBadRequest, "format must be csv or xlsx")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="timesheet_%d_%s_%s.%s"`, id, start, end, ext))
	w.Write(data)
}
