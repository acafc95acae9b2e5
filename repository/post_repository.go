package repository

import (
	"context"

	"github.com/struffoli/facecard/models"
)

// PostRepository lists posts newest first.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	ListAll(ctx context.Context) ([]models.Post, error)
	// ListByUserIDs backs both the feed and a single user's posts. An empty
	// slice matches nothing.
	ListByUserIDs(ctx context.Context, userIDs []string) ([]models.Post, error)
	UpdateLikes(ctx context.Context, id string, likes models.BoolMap) error
	Delete(ctx context.Context, id string) error
}
