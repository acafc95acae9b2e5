package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/struffoli/facecard/database"
	"github.com/struffoli/facecard/models"
	"github.com/struffoli/facecard/pkg"
)

const notificationColumns = `id, user_id, face_card_id, other_user_id, description,
	is_active, created_at, updated_at`

type sqliteNotificationRepo struct {
	db database.TxQuerier
}

func NewSQLiteNotificationRepo(db database.TxQuerier) NotificationRepository {
	return &sqliteNotificationRepo{db: db}
}

func scanNotification(row rowScanner) (*models.Notification, error) {
	n := &models.Notification{}
	if err := row.Scan(
		&n.ID, &n.UserID, &n.FaceCardID, &n.OtherUserID, &n.Description,
		&n.IsActive, &n.CreatedAt, &n.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return n, nil
}

func (r *sqliteNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = newID()
	}
	n.CreatedAt = now()
	n.UpdatedAt = n.CreatedAt

	_, err := r.db.ExecContext(ctx, `INSERT INTO notifications (`+notificationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.FaceCardID, n.OtherUserID, n.Description,
		n.IsActive, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *sqliteNotificationRepo) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	n, err := scanNotification(r.db.QueryRowContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: notification not found", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

func (r *sqliteNotificationRepo) ListByUser(ctx context.Context, userID string, activeOnly bool) ([]models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = ?`
	if activeOnly {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	notifs, err := collect(rows, scanNotification)
	if err != nil {
		return nil, fmt.Errorf("failed to scan notification row: %w", err)
	}
	return notifs, nil
}

func (r *sqliteNotificationRepo) SetActive(ctx context.Context, id string, active bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_active = ?, updated_at = ? WHERE id = ?`, active, now(), id)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	return checkAffected(result, "notification")
}
