package repository

import (
	"context"

	"github.com/struffoli/facecard/models"
)

type CardRepository interface {
	Create(ctx context.Context, card *models.Card) error
	GetByID(ctx context.Context, id string) (*models.Card, error)
	// ListByUser returns a user's cards oldest first.
	ListByUser(ctx context.Context, userID string) ([]models.Card, error)
	// Update writes name, comments and steps.
	Update(ctx context.Context, card *models.Card) error
	Delete(ctx context.Context, id string) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Comment, error)
	// Update writes description, replies and edited.
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id string) error
	DeleteByCardID(ctx context.Context, cardID string) error
}

type ReplyRepository interface {
	Create(ctx context.Context, reply *models.Reply) error
	GetByID(ctx context.Context, id string) (*models.Reply, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Reply, error)
	Update(ctx context.Context, reply *models.Reply) error
	Delete(ctx context.Context, id string) error
	DeleteByCommentID(ctx context.Context, commentID string) error
	// DeleteByCardID removes the replies of every comment on the card.
	DeleteByCardID(ctx context.Context, cardID string) error
}

type StepRepository interface {
	Create(ctx context.Context, step *models.Step) error
	GetByID(ctx context.Context, id string) (*models.Step, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Step, error)
	Update(ctx context.Context, step *models.Step) error
	Delete(ctx context.Context, id string) error
	DeleteByCardID(ctx context.Context, cardID string) error
}
