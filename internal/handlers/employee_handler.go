package handlers

import (
	"encoding/json"
	"net/http"

	"timesheet-backend/internal/models"
	"timesheet-backend/internal/services"
	"timesheet-backend/pkg/utils"
)

type EmployeeHandler struct {
	Service *services.EmployeeService
}

func NewEmployeeHandler(s *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{Service: s}
}

func (h *EmployeeHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	var req models.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	emp, err := h.Service.Create(r.Context(), c.OrganizationID, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, emp)
}

func (h *EmployeeHandler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	emp, err := h.Service.Get(r.Context(), c.OrganizationID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, emp)
}

// ListEmployees returns all employees of the caller's organisation
func (h *EmployeeHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	list, err := h.Service.List(r.Context(), c.OrganizationID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*models.Employee{}
	}
	utils.JSON(w, http.StatusOK, list)
}

// UpdateEmployee updates an existing employee
func (h *EmployeeHandler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	emp, err := h.Service.Update(r.Context(), c.OrganizationID, id, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, emp)
}

// SetActive pauses or resumes an account
func (h *EmployeeHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.SetActive(r.Context(), c, id, req.IsActive); err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{"id": id, "is_active": req.IsActive})
}
