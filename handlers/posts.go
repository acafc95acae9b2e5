package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/struffoli/facecard/models"
	"github.com/struffoli/facecard/pkg"
	"github.com/struffoli/facecard/services"
)

type PostHandler struct {
	postService services.PostService
}

func NewPostHandler(postService services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// Create godoc
// POST /api/posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	var req models.CreatePostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	posts, err := h.postService.CreatePost(r.Context(), user, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, posts)
}

// Feed godoc
// GET /api/posts
// GET /api/posts/{id}/feed
func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	if userID := chi.URLParam(r, "id"); userID != "" && userID != user.ID {
		pkg.Error(w, fmt.Errorf("%w: feed belongs to another user", pkg.ErrForbidden))
		return
	}

	posts, err := h.postService.GetFeed(r.Context(), user)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, posts)
}

// UserPosts godoc
// GET /api/posts/{id}
func (h *PostHandler) UserPosts(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	posts, err := h.postService.GetUserPosts(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, posts)
}

// Like godoc
// PATCH /api/posts/{id}/like
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	post, err := h.postService.LikePost(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, post)
}

// Delete godoc
// DELETE /api/posts/{id}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	post, err := h.postService.DeletePost(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, post)
}
