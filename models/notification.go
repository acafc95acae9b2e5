package models

import "time"

// NotificationDescriptionMax is the length descriptions are truncated to.
const NotificationDescriptionMax = 40

// Notification tells UserID that OtherUserID did something on a card.
type Notification struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	FaceCardID  string    `json:"face_card_id"`
	OtherUserID string    `json:"other_user_id"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateNotificationRequest struct {
	UserID      string `json:"user_id" validate:"required"`
	FaceCardID  string `json:"face_card_id"`
	OtherUserID string `json:"other_user_id"`
	Description string `json:"description" validate:"required"`
}
