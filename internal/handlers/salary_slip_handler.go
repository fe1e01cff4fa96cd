package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"timesheet-backend/internal/models"
	"timesheet-backend/internal/services"
	"timesheet-backend/pkg/utils"
)

type SalarySlipHandler struct {
	Service *services.SalarySlipService
}

func NewSalarySlipHandler(s *services.SalarySlipService) *SalarySlipHandler {
	return &SalarySlipHandler{Service: s}
}

func writePDF(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, name))
	w.Write(data)
}

func slipFilename(s *models.SalarySlip) string {
	return fmt.Sprintf("salary_slip_%d_%04d_%02d.pdf", s.EmployeeID, s.Year, s.Month)
}

// Preview renders the slip without storing it (admin).
// ?format=json returns the calculation instead of the PDF.
func (h *SalarySlipHandler) Preview(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	var req models.SalarySlipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	slip, err := h.Service.Preview(r.Context(), c.OrganizationID, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if r.URL.Query().Get("format") == "json" {
		utils.JSON(w, http.StatusOK, slip)
		return
	}
	data, err := h.Service.RenderPDF(slip)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePDF(w, slipFilename(slip), data)
}

// Issue stores, archives and announces a slip (admin)
func (h *SalarySlipHandler) Issue(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	var req models.SalarySlipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	slip, err := h.Service.Issue(r.Context(), c, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, slip)
}

func (h *SalarySlipHandler) List(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	slips, err := h.Service.List(r.Context(), c, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if slips == nil {
		slips = []*models.SalarySlip{}
	}
	utils.JSON(w, http.StatusOK, slips)
}

func (h *SalarySlipHandler) PDF(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	slip, data, err := h.Service.PDF(r.Context(), c, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePDF(w, slipFilename(slip), data)
}
