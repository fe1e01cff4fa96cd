package handlers

import (
	"encoding/json"
	"net/http"

	"timesheet-backend/internal/models"
	"timesheet-backend/internal/services"
	"timesheet-backend/pkg/utils"
)

type AuthHandler struct {
	Service *services.EmployeeService
}

func NewAuthHandler(s *services.EmployeeService) *AuthHandler {
	return &AuthHandler{Service: s}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

// Me returns the caller's profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	emp, err := h.Service.Get(r.Context(), c.OrganizationID, c.EmployeeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, emp)
}

// UpdateMe changes the caller's name and phone
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	emp, err := h.Service.UpdateProfile(r.Context(), c.EmployeeID, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, emp)
}

// Mentees lists the employees the caller mentors
func (h *AuthHandler) Mentees(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	list, err := h.Service.Mentees(r.Context(), c.EmployeeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*models.Employee{}
	}
	utils.JSON(w, http.StatusOK, list)
}
