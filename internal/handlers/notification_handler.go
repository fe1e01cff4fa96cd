package handlers

import (
	"net/http"

	"timesheet-backend/internal/models"
	"timesheet-backend/internal/notify"
	"timesheet-backend/internal/services"
	"timesheet-backend/pkg/utils"
)

type NotificationHandler struct {
	Service *services.NotificationService
	Hub     *notify.Hub
}

func NewNotificationHandler(s *services.NotificationService, hub *notify.Hub) *NotificationHandler {
	return &NotificationHandler{Service: s, Hub: hub}
}

// List returns the caller's latest notifications; ?unread=true filters unread ones
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	list, err := h.Service.List(r.Context(), c.EmployeeID, r.URL.Query().Get("unread") == "true")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*models.Notification{}
	}
	utils.JSON(w, http.StatusOK, list)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.MarkRead(r.Context(), c.EmployeeID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	n, err := h.Service.MarkAllRead(r.Context(), c.EmployeeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]int64{"updated": n})
}

// WebSocket streams new notifications to the caller
func (h *NotificationHandler) WebSocket(w http.ResponseWriter, r *http.Request) {
	c, ok := claims(w, r)
	if !ok {
		return
	}
	h.Hub.Serve(w, r, c.EmployeeID)
}
