package handlers

import (
	"encoding/json"
	"net/http"

	"timesheet-backend/internal/models"
	"timesheet-backend/internal/services"
	"timesheet-backend/pkg/utils"
)

type ProjectHandler struct {
	Service *services.ProjectService
}

func NewProjectHandler(s *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{Service: s}
}

func (h *ProjectHandler) CreatePackage(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	var req models.CreatePackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := h.Service.CreatePackage(r.Context(), c.OrganizationID, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, p)
}

func (h *ProjectHandler) ListPackages(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	list, err := h.Service.ListPackages(r.Context(), c.OrganizationID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*models.Package{}
	}
	utils.JSON(w, http.StatusOK, list)
}

func (h *ProjectHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	packageID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	t, err := h.Service.CreateTask(r.Context(), c.OrganizationID, packageID, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, t)
}

// Assign gives an employee access to a package
func (h *ProjectHandler) Assign(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	packageID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.AssignPackageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EmployeeID <= 0 {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.Assign(r.Context(), c.OrganizationID, packageID, req.EmployeeID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProjectHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	packageID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	employeeID, ok := pathID(w, r, "employeeId")
	if !ok {
		return
	}

	if err := h.Service.Unassign(r.Context(), c.OrganizationID, packageID, employeeID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MyPackages lists the packages the caller can log time against
func (h *ProjectHandler) MyPackages(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	list, err := h.Service.Assigned(r.Context(), c.EmployeeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*models.Package{}
	}
	utils.JSON(w, http.StatusOK, list)
}
