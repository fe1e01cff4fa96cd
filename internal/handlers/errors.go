package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"timesheet-backend/internal/auth"
	"timesheet-backend/internal/middleware"
	"timesheet-backend/internal/services"
	"timesheet-backend/pkg/utils"

	"github.com/gorilla/mux"
)

// writeError maps service errors onto HTTP statuses. Unknown errors are
// logged and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		utils.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidLogin):
		utils.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrAccountInactive):
		utils.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrLocked), errors.Is(err, services.ErrDuplicateEmail):
		utils.Error(w, http.StatusConflict, err.Error())
	default:
		log.Printf("[HTTP] %s %s (request %s): %v", r.Method, r.URL.Path, middleware.RequestIDFromContext(r.Context()), err)
		utils.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

// claims returns the authenticated caller or writes 401
func claims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	c, ok := middleware.GetClaims(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Authorization required")
	}
	return c, ok
}

// pathID parses an integer route variable or writes 400
func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		utils.Error(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}
