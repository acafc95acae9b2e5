// Package handlers is the HTTP layer.
//
// Handlers stay thin: decode the request, call a service, write the
// envelope. No business rules and no database access live here.
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/struffoli/facecard/models"
	"github.com/struffoli/facecard/pkg"
	"github.com/struffoli/facecard/pkg/metrics"
	"github.com/struffoli/facecard/pkg/ratelimit"
	"github.com/struffoli/facecard/services"
)

// SessionCookie is the name of the httpOnly cookie holding the JWT.
const SessionCookie = "jwt"

type AuthHandler struct {
	authService  services.AuthService
	loginLimiter *ratelimit.LoginRateLimiter
	cookieSecure bool
}

// NewAuthHandler builds the handler. A nil loginLimiter disables login
// rate limiting.
func NewAuthHandler(authService services.AuthService, loginLimiter *ratelimit.LoginRateLimiter, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		loginLimiter: loginLimiter,
		cookieSecure: cookieSecure,
	}
}

// Register godoc
// POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	h.setSessionCookie(w, res.Token)
	pkg.JSON(w, http.StatusCreated, res.User)
}

// Login godoc
// POST /api/auth/login
//
// Attempts are limited per client IP. A successful login resets the
// counter for that IP.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ip := ratelimit.ExtractIP(r)
	if h.loginLimiter != nil && !h.loginLimiter.Allow(ip) {
		metrics.LoginAttempts.WithLabelValues("limited").Inc()
		retryAfter := h.loginLimiter.RetryAfterSeconds(ip)
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
		pkg.ErrorWithMessage(w, http.StatusTooManyRequests,
			fmt.Sprintf("too many login attempts, please try again in %s",
				ratelimit.FormatRetryMessage(retryAfter)))
		return
	}

	var req models.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		pkg.Error(w, err)
		return
	}

	if h.loginLimiter != nil {
		h.loginLimiter.Reset(ip)
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()

	h.setSessionCookie(w, res.Token)
	pkg.JSON(w, http.StatusOK, res.User)
}

// Logout godoc
// POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
	pkg.JSON(w, http.StatusOK, map[string]string{"message": "User logged out"})
}

// Me godoc
// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}
	pkg.JSON(w, http.StatusOK, user)
}

// ForgotPassword godoc
// POST /api/auth/forgot-password
//
// Always answers with the same message, whether or not the email exists.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), &req); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{
		"message": "if the email exists, a reset link has been sent",
	})
}

// ResetPassword godoc
// POST /api/auth/reset-password
// Body: { "token": "...", "new_password": "..." }
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.authService.ResetPassword(r.Context(), &req); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{
		"message": "password has been reset successfully",
	})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	expiry := h.authService.TokenExpiry()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(expiry),
		MaxAge:   int(expiry.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}
