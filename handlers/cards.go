package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/struffoli/facecard/models"
	"github.com/struffoli/facecard/pkg"
	"github.com/struffoli/facecard/services"
)

type CardHandler struct {
	cardService services.CardService
}

func NewCardHandler(cardService services.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

// CreateCard godoc
// POST /api/cards/card
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	var req models.CreateCardRequest
	if !decodeBody(w, r, &req) {
		return
	}

	cards, err := h.cardService.CreateCard(r.Context(), user, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, cards)
}

// AddComment godoc
// POST /api/cards/{id}/comment
func (h *CardHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	var req models.DescriptionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ids, err := h.cardService.AddComment(r.Context(), user, chi.URLParam(r, "id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, ids)
}

// AddReply godoc
// POST /api/cards/{id}/{commentId}/reply
func (h *CardHandler) AddReply(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	var req models.DescriptionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ids, err := h.cardService.AddReply(r.Context(), user, chi.URLParam(r, "id"), chi.URLParam(r, "commentId"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, ids)
}

// AddStep godoc
// POST /api/cards/{id}/step
func (h *CardHandler) AddStep(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	var req models.AddStepRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ids, err := h.cardService.AddStep(r.Context(), user.ID, chi.URLParam(r, "id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, ids)
}

// GetCard godoc
// GET /api/cards/{id}
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.cardService.GetCard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, card)
}

// GetComments godoc
// GET /api/cards/{id}/comments
func (h *CardHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.cardService.GetComments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, comments)
}

// GetReplies godoc
// GET /api/cards/{id}/{commentId}/replies
func (h *CardHandler) GetReplies(w http.ResponseWriter, r *http.Request) {
	replies, err := h.cardService.GetReplies(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "commentId"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, replies)
}

// GetSteps godoc
// GET /api/cards/{id}/steps
func (h *CardHandler) GetSteps(w http.ResponseWriter, r *http.Request) {
	steps, err := h.cardService.GetSteps(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, steps)
}

// RenameCard godoc
// PATCH /api/cards/card/{id}
func (h *CardHandler) RenameCard(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	var req models.RenameCardRequest
	if !decodeBody(w, r, &req) {
		return
	}

	card, err := h.cardService.RenameCard(r.Context(), user.ID, chi.URLParam(r, "id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, card)
}

// EditComment godoc
// PATCH /api/cards/comment/{id}
func (h *CardHandler) EditComment(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	var req models.DescriptionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	comment, err := h.cardService.EditComment(r.Context(), user.ID, chi.URLParam(r, "id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, comment)
}

// EditReply godoc
// PATCH /api/cards/reply/{id}
func (h *CardHandler) EditReply(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	var req models.DescriptionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	reply, err := h.cardService.EditReply(r.Context(), user.ID, chi.URLParam(r, "id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, reply)
}

// UpdateStep godoc
// PATCH /api/cards/step/{id}/{stepId}
func (h *CardHandler) UpdateStep(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	var req models.UpdateStepRequest
	if !decodeBody(w, r, &req) {
		return
	}

	step, err := h.cardService.UpdateStep(r.Context(), user.ID, chi.URLParam(r, "id"), chi.URLParam(r, "stepId"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, step)
}

// ReorderSteps godoc
// PUT /api/cards/{id}/steps/order
// Body: { "step_ids": ["...", "..."] }
func (h *CardHandler) ReorderSteps(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	var req models.ReorderStepsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ids, err := h.cardService.ReorderSteps(r.Context(), user.ID, chi.URLParam(r, "id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, ids)
}

// DeleteCard godoc
// DELETE /api/cards/card/{id}
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	card, err := h.cardService.DeleteCard(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, card)
}

// DeleteComment godoc
// DELETE /api/cards/comment/{id}
func (h *CardHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	comment, err := h.cardService.DeleteComment(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, comment)
}

// DeleteReply godoc
// DELETE /api/cards/reply/{id}
func (h *CardHandler) DeleteReply(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	reply, err := h.cardService.DeleteReply(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, reply)
}

// DeleteStep godoc
// DELETE /api/cards/step/{id}
func (h *CardHandler) DeleteStep(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	step, err := h.cardService.DeleteStep(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, step)
}
