package repository

import (
	"context"

	"github.com/struffoli/facecard/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	// ListByUser returns a recipient's notifications newest first,
	// optionally only the active ones.
	ListByUser(ctx context.Context, userID string, activeOnly bool) ([]models.Notification, error)
	SetActive(ctx context.Context, id string, active bool) error
}
