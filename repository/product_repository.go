package repository

import (
	"context"

	"github.com/struffoli/facecard/models"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	// ListLikedBy and ListHolyGrailedBy return products whose map holds userID=true.
	ListLikedBy(ctx context.Context, userID string) ([]models.Product, error)
	ListHolyGrailedBy(ctx context.Context, userID string) ([]models.Product, error)
	// Update writes the editable fields: type, name, picture, ingredients, description.
	Update(ctx context.Context, product *models.Product) error
	UpdateLikes(ctx context.Context, id string, likes models.BoolMap) error
	UpdateHolyGrails(ctx context.Context, id string, holyGrails models.BoolMap) error
	Delete(ctx context.Context, id string) error
}
