package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/struffoli/facecard/models"
	"github.com/struffoli/facecard/pkg"
	"github.com/struffoli/facecard/services"
)

type UserHandler struct {
	userService   services.UserService
	uploadService services.UploadService
	maxUpload     int64
}

func NewUserHandler(userService services.UserService, uploadService services.UploadService, maxUpload int64) *UserHandler {
	return &UserHandler{
		userService:   userService,
		uploadService: uploadService,
		maxUpload:     maxUpload,
	}
}

// GetUser godoc
// GET /api/users/{id}/profile
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, user)
}

// GetFriends godoc
// GET /api/users/{id}/friends
func (h *UserHandler) GetFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := h.userService.GetFriends(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, friends)
}

// ToggleFriend godoc
// PATCH /api/users/{id}/{friendId}
func (h *UserHandler) ToggleFriend(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	friends, err := h.userService.ToggleFriend(r.Context(), user.ID, chi.URLParam(r, "id"), chi.URLParam(r, "friendId"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, friends)
}

// UpdateProfile godoc
// PUT /api/users/{id}/profile
//
// Accepts JSON, or a multipart form with the same fields plus an optional
// "picture" file that replaces picture_path.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var req models.UpdateProfileRequest
	uploaded := isMultipart(r)
	if uploaded {
		if !ownsAccount(w, user, id) {
			return
		}
		if err := parseMultipart(w, r, h.maxUpload); err != nil {
			pkg.Error(w, err)
			return
		}
		form, err := profileForm(r)
		if err != nil {
			pkg.Error(w, err)
			return
		}
		req = *form

		name, err := saveFormPicture(r, h.uploadService)
		if err != nil {
			pkg.Error(w, err)
			return
		}
		if name != "" {
			req.PicturePath = name
		}
	} else if !decodeBody(w, r, &req) {
		return
	}

	profile, err := h.userService.UpdateProfile(r.Context(), user.ID, id, &req)
	if err != nil {
		discardPicture(h.uploadService, req.PicturePath, uploaded)
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, profile)
}

// UploadPicture godoc
// POST /api/users/{id}/picture (multipart, field "picture")
func (h *UserHandler) UploadPicture(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if !ownsAccount(w, user, id) {
		return
	}

	if err := parseMultipart(w, r, h.maxUpload); err != nil {
		pkg.Error(w, err)
		return
	}

	name, err := saveFormPicture(r, h.uploadService)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	if name == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "picture field is required")
		return
	}

	profile, err := h.userService.UpdateProfile(r.Context(), user.ID, id, &models.UpdateProfileRequest{PicturePath: name})
	if err != nil {
		discardPicture(h.uploadService, name, true)
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, profile)
}

// ownsAccount writes a 403 unless the requester is the account in the URL.
// Checked before a picture is stored, so rejected requests leave no file.
func ownsAccount(w http.ResponseWriter, user *models.User, id string) bool {
	if user.ID != id {
		pkg.Error(w, fmt.Errorf("%w: you do not own this account", pkg.ErrForbidden))
		return false
	}
	return true
}

// profileForm reads the text fields of a multipart profile update. An
// absent or empty is_public leaves the flag unchanged.
func profileForm(r *http.Request) (*models.UpdateProfileRequest, error) {
	req := &models.UpdateProfileRequest{
		UserID:       r.FormValue("user_id"),
		FullName:     r.FormValue("full_name"),
		Username:     r.FormValue("username"),
		Email:        r.FormValue("email"),
		Password:     r.FormValue("password"),
		ActiveCardID: r.FormValue("active_card_id"),
	}
	if raw := r.FormValue("is_public"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: is_public must be true or false", pkg.ErrBadRequest)
		}
		req.IsPublic = &v
	}
	return req, nil
}
