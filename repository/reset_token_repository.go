package repository

import (
	"context"
	"time"

	"github.com/struffoli/facecard/models"
)

// PasswordResetRepository stores hashed password reset tokens.
type PasswordResetRepository interface {
	Create(ctx context.Context, token *models.PasswordResetToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error)
	// GetLatestByUserID backs the per-user cooldown. pkg.ErrNotFound when none exist.
	GetLatestByUserID(ctx context.Context, userID string) (*models.PasswordResetToken, error)
	DeleteByUserID(ctx context.Context, userID string) error
	// DeleteExpired removes tokens that expired before now and returns how many.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
