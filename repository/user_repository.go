// Package repository holds the data access layer: one interface per
// collection plus its SQLite implementation.
//
// Constructors take a database.TxQuerier, so services can build the same
// repositories on a *sql.Tx inside database.WithTx. Missing rows come back
// as pkg.ErrNotFound and unique violations as pkg.ErrAlreadyExists.
package repository

import (
	"context"

	"github.com/struffoli/facecard/models"
)

type UserRepository interface {
	// Create assigns ID and timestamps. A taken email or username returns
	// pkg.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByIDs returns the users in ids order, skipping ids that no longer exist.
	GetByIDs(ctx context.Context, ids []string) ([]models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByLogin matches loginName against username_lower or email, case-insensitively.
	GetByLogin(ctx context.Context, loginName string) (*models.User, error)
	EmailTaken(ctx context.Context, email, exceptID string) (bool, error)
	UsernameTaken(ctx context.Context, usernameLower, exceptID string) (bool, error)
	// Update writes every mutable profile field, including the password hash.
	Update(ctx context.Context, user *models.User) error
	UpdateFriends(ctx context.Context, id string, friends models.IDList) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
