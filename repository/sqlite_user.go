package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/struffoli/facecard/database"
	"github.com/struffoli/facecard/models"
	"github.com/struffoli/facecard/pkg"
)

const userColumns = `id, full_name, username, username_lower, email, password_hash,
	picture_path, is_public, friends, active_card_id, created_at, updated_at`

type sqliteUserRepo struct {
	db database.TxQuerier
}

func NewSQLiteUserRepo(db database.TxQuerier) UserRepository {
	return &sqliteUserRepo{db: db}
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(
		&u.ID, &u.FullName, &u.Username, &u.UsernameLower, &u.Email, &u.PasswordHash,
		&u.PicturePath, &u.IsPublic, &u.Friends, &u.ActiveCardID, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *sqliteUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = newID()
	}
	if user.PicturePath == "" {
		user.PicturePath = models.DefaultPicturePath
	}
	if user.Friends == nil {
		user.Friends = models.IDList{}
	}
	user.UsernameLower = strings.ToLower(user.Username)
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = now()
	user.UpdatedAt = user.CreatedAt

	query := `INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.FullName, user.Username, user.UsernameLower, user.Email, user.PasswordHash,
		user.PicturePath, user.IsPublic, user.Friends, user.ActiveCardID, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return uniqueUserError(err, "failed to create user")
	}
	return nil
}

func (r *sqliteUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *sqliteUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, strings.ToLower(email))
}

func (r *sqliteUserRepo) GetByLogin(ctx context.Context, loginName string) (*models.User, error) {
	lower := strings.ToLower(strings.TrimSpace(loginName))
	return r.getOne(ctx,
		`SELECT `+userColumns+` FROM users WHERE username_lower = ? OR email = ? LIMIT 1`,
		lower, lower)
}

func (r *sqliteUserRepo) getOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user not found", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *sqliteUserRepo) GetByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id IN (SELECT value FROM json_each(?))`,
		models.IDList(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get users by ids: %w", err)
	}

	users, err := collect(rows, scanUser)
	if err != nil {
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}
	return orderByIDs(ids, users, func(u *models.User) string { return u.ID }), nil
}

func (r *sqliteUserRepo) EmailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(*) FROM users WHERE email = ? AND id != ?`, strings.ToLower(email), exceptID)
}

func (r *sqliteUserRepo) UsernameTaken(ctx context.Context, usernameLower, exceptID string) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(*) FROM users WHERE username_lower = ? AND id != ?`, strings.ToLower(usernameLower), exceptID)
}

func (r *sqliteUserRepo) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check user uniqueness: %w", err)
	}
	return n > 0, nil
}

func (r *sqliteUserRepo) Update(ctx context.Context, user *models.User) error {
	user.UsernameLower = strings.ToLower(user.Username)
	user.Email = strings.ToLower(user.Email)
	user.UpdatedAt = now()

	result, err := r.db.ExecContext(ctx, `
		UPDATE users SET full_name = ?, username = ?, username_lower = ?, email = ?,
			password_hash = ?, picture_path = ?, is_public = ?, active_card_id = ?, updated_at = ?
		WHERE id = ?`,
		user.FullName, user.Username, user.UsernameLower, user.Email,
		user.PasswordHash, user.PicturePath, user.IsPublic, user.ActiveCardID, user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return uniqueUserError(err, "failed to update user")
	}
	return checkAffected(result, "user")
}

func (r *sqliteUserRepo) UpdateFriends(ctx context.Context, id string, friends models.IDList) error {
	if friends == nil {
		friends = models.IDList{}
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET friends = ?, updated_at = ? WHERE id = ?`, friends, now(), id)
	if err != nil {
		return fmt.Errorf("failed to update friends: %w", err)
	}
	return checkAffected(result, "user")
}

func (r *sqliteUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`, passwordHash, now(), id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return checkAffected(result, "user")
}

// uniqueUserError maps a UNIQUE violation on users to a readable conflict.
func uniqueUserError(err error, msg string) error {
	if isUniqueViolation(err) {
		if strings.Contains(err.Error(), "users.email") {
			return fmt.Errorf("%w: email already in use", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("%w: username already taken", pkg.ErrAlreadyExists)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
