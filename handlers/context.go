package handlers

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/struffoli/facecard/models"
	"github.com/struffoli/facecard/pkg"
)

type contextKey string

// UserContextKey carries the authenticated *models.User, set by the auth
// middleware.
const UserContextKey contextKey = "user"

// requester returns the authenticated user, writing a 401 when the route
// was mounted without the auth middleware.
func requester(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok || user == nil {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "not authorized, no token")
		return nil, false
	}
	return user, true
}

// decodeBody parses the JSON body into v and writes a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
