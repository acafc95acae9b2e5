// Package services holds the business logic between the HTTP handlers and
// the repositories.
//
// Services never see http.Request or http.ResponseWriter. They take domain
// models and request DTOs, enforce ownership and validation, and return
// sentinel errors from pkg wrapped with a readable message.
package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/struffoli/facecard/models"
	"github.com/struffoli/facecard/pkg"
	"github.com/struffoli/facecard/pkg/email"
	"github.com/struffoli/facecard/pkg/logging"
	"github.com/struffoli/facecard/pkg/metrics"
	"github.com/struffoli/facecard/pkg/validation"
	"github.com/struffoli/facecard/repository"
)

const (
	bcryptCost = 10

	resetTokenTTL      = 20 * time.Minute
	resetTokenCooldown = 2 * time.Minute
)

type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req *models.LoginRequest) (*AuthResult, error)
	ValidateToken(tokenString string) (*models.TokenClaims, error)
	// ForgotPassword mails a reset link when the email belongs to an
	// account. The outcome is the same for unknown emails, for requests
	// inside the per-user cooldown and for mail delivery failures, so the
	// caller cannot learn which accounts exist. Only storage errors surface.
	ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error
	TokenExpiry() time.Duration
}

// AuthResult is what register and login hand back to the handler, which
// moves Token into the cookie and serializes only User.
type AuthResult struct {
	User      models.AuthUser
	Token     string
	ExpiresAt time.Time
}

type authService struct {
	userRepo  repository.UserRepository
	resetRepo repository.PasswordResetRepository
	sender    email.EmailSender // nil when email is not configured
	jwtSecret []byte
	expiry    time.Duration
	now       func() time.Time
}

func NewAuthService(
	userRepo repository.UserRepository,
	resetRepo repository.PasswordResetRepository,
	sender email.EmailSender,
	jwtSecret string,
	expiry time.Duration,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		resetRepo: resetRepo,
		sender:    sender,
		jwtSecret: []byte(jwtSecret),
		expiry:    expiry,
		now:       time.Now,
	}
}

func (s *authService) TokenExpiry() time.Duration {
	return s.expiry
}

// Register creates the account and issues a session token. Email is checked
// before username so the client sees the same error order as the form.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*AuthResult, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	emailLower := strings.ToLower(strings.TrimSpace(req.Email))

	taken, err := s.userRepo.EmailTaken(ctx, emailLower, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: email already in use", pkg.ErrAlreadyExists)
	}

	taken, err = s.userRepo.UsernameTaken(ctx, strings.ToLower(req.Username), "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: username already taken", pkg.ErrAlreadyExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FullName:     req.FullName,
		Username:     req.Username,
		Email:        emailLower,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err // ErrAlreadyExists on a lost race
	}

	metrics.DocumentsCreated.WithLabelValues("users").Inc()
	logging.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("[auth] user registered")

	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*AuthResult, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByLogin(ctx, strings.TrimSpace(req.LoginName))
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", pkg.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", pkg.ErrUnauthorized)
	}

	return s.issue(user)
}

func (s *authService) ValidateToken(tokenString string) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: not authorized, token failed", pkg.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("%w: not authorized, token failed", pkg.ErrUnauthorized)
	}

	return claims, nil
}

func (s *authService) ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}

	if s.sender == nil {
		logging.Warn().Msg("[auth] password reset requested but email is not configured")
		return nil
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil
		}
		return err
	}

	now := s.now().UTC()

	latest, err := s.resetRepo.GetLatestByUserID(ctx, user.ID)
	if err != nil && !errors.Is(err, pkg.ErrNotFound) {
		return err
	}
	if latest != nil && latest.CreatedAt.Add(resetTokenCooldown).After(now) {
		logging.Debug().Str("user_id", user.ID).Msg("[auth] password reset skipped, cooldown active")
		return nil
	}

	if err := s.resetRepo.DeleteByUserID(ctx, user.ID); err != nil {
		return err
	}

	plain, err := randomToken()
	if err != nil {
		return err
	}

	token := &models.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: hashToken(plain),
		ExpiresAt: now.Add(resetTokenTTL),
	}
	if err := s.resetRepo.Create(ctx, token); err != nil {
		return err
	}

	if err := s.sender.SendPasswordReset(ctx, user.Email, plain); err != nil {
		// No mail went out, so the token must not hold the user in cooldown.
		logging.Error().Err(err).Str("user_id", user.ID).Msg("[auth] failed to send password reset email")
		if err := s.resetRepo.DeleteByUserID(ctx, user.ID); err != nil {
			logging.Error().Err(err).Str("user_id", user.ID).Msg("[auth] failed to drop unsent reset token")
		}
		return nil
	}

	logging.Info().Str("user_id", user.ID).Msg("[auth] password reset email sent")
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}

	token, err := s.resetRepo.GetByTokenHash(ctx, hashToken(req.Token))
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return fmt.Errorf("%w: invalid or expired reset token", pkg.ErrBadRequest)
		}
		return err
	}

	if s.now().After(token.ExpiresAt) {
		if err := s.resetRepo.DeleteByUserID(ctx, token.UserID); err != nil {
			return err
		}
		return fmt.Errorf("%w: invalid or expired reset token", pkg.ErrBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, token.UserID, string(hash)); err != nil {
		return err
	}

	// Single use: every outstanding token of the user goes.
	return s.resetRepo.DeleteByUserID(ctx, token.UserID)
}

func (s *authService) issue(user *models.User) (*AuthResult, error) {
	now := s.now()
	expiresAt := now.Add(s.expiry)

	claims := &models.TokenClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "facecard",
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &AuthResult{User: user.AuthUser(), Token: signed, ExpiresAt: expiresAt}, nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func hashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
