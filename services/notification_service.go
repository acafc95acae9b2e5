package services

import (
	"context"
	"fmt"

	"github.com/struffoli/facecard/models"
	"github.com/struffoli/facecard/pkg"
	"github.com/struffoli/facecard/pkg/metrics"
	"github.com/struffoli/facecard/pkg/validation"
	"github.com/struffoli/facecard/repository"
)

type NotificationService interface {
	// CreateNotification records that the requester acted on a card and
	// returns the recipient's notifications.
	CreateNotification(ctx context.Context, requesterID string, req *models.CreateNotificationRequest) ([]models.Notification, error)
	// GetActive and GetAll are only for the recipient: requesterID must
	// equal userID.
	GetActive(ctx context.Context, requesterID, userID string) ([]models.Notification, error)
	GetAll(ctx context.Context, requesterID, userID string) ([]models.Notification, error)
	// Clear marks one notification as read. Recipient only.
	Clear(ctx context.Context, requesterID, id string) (*models.Notification, error)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository, userRepo repository.UserRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo, userRepo: userRepo}
}

func (s *notificationService) CreateNotification(ctx context.Context, requesterID string, req *models.CreateNotificationRequest) ([]models.Notification, error) {
	if err := checkBodyUser(requesterID, req.OtherUserID); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	recipient, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	n := &models.Notification{
		UserID:      recipient.ID,
		FaceCardID:  req.FaceCardID,
		OtherUserID: requesterID,
		Description: models.Truncate(req.Description, models.NotificationDescriptionMax),
		IsActive:    true,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return nil, err
	}
	metrics.DocumentsCreated.WithLabelValues("notifications").Inc()

	return s.notificationRepo.ListByUser(ctx, recipient.ID, false)
}

func (s *notificationService) GetActive(ctx context.Context, requesterID, userID string) ([]models.Notification, error) {
	if err := requireOwner(requesterID, userID, "inbox"); err != nil {
		return nil, err
	}
	return s.notificationRepo.ListByUser(ctx, userID, true)
}

func (s *notificationService) GetAll(ctx context.Context, requesterID, userID string) ([]models.Notification, error) {
	if err := requireOwner(requesterID, userID, "inbox"); err != nil {
		return nil, err
	}
	return s.notificationRepo.ListByUser(ctx, userID, false)
}

// Clear marks the notification as read. Only its recipient may clear it.
func (s *notificationService) Clear(ctx context.Context, requesterID, id string) (*models.Notification, error) {
	n, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != requesterID {
		return nil, fmt.Errorf("%w: not your notification", pkg.ErrForbidden)
	}

	if err := s.notificationRepo.SetActive(ctx, n.ID, false); err != nil {
		return nil, err
	}
	n.IsActive = false
	return n, nil
}
