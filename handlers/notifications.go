package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/struffoli/facecard/models"
	"github.com/struffoli/facecard/pkg"
	"github.com/struffoli/facecard/services"
)

type NotificationHandler struct {
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// Create godoc
// POST /api/notifs
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	var req models.CreateNotificationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	list, err := h.notificationService.CreateNotification(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, list)
}

// Active godoc
// GET /api/notifs/{id}/active
func (h *NotificationHandler) Active(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	list, err := h.notificationService.GetActive(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, list)
}

// All godoc
// GET /api/notifs/{id}
func (h *NotificationHandler) All(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	list, err := h.notificationService.GetAll(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, list)
}

// Clear godoc
// PATCH /api/notifs/{id}/clear
func (h *NotificationHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	n, err := h.notificationService.Clear(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, n)
}
