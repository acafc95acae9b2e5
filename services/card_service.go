package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/struffoli/facecard/database"
	"github.com/struffoli/facecard/models"
	"github.com/struffoli/facecard/pkg"
	"github.com/struffoli/facecard/pkg/logging"
	"github.com/struffoli/facecard/pkg/metrics"
	"github.com/struffoli/facecard/pkg/validation"
	"github.com/struffoli/facecard/repository"
)

// CardService manages cards and the documents hanging off them. A card
// keeps the ordered ids of its comments and steps; a comment keeps the
// ordered ids of its replies. Every write that touches a parent and a child
// runs in one transaction.
type CardService interface {
	CreateCard(ctx context.Context, requester *models.User, req *models.CreateCardRequest) ([]models.Card, error)
	AddComment(ctx context.Context, requester *models.User, cardID string, req *models.DescriptionRequest) (models.IDList, error)
	AddReply(ctx context.Context, requester *models.User, cardID, commentID string, req *models.DescriptionRequest) (models.IDList, error)
	AddStep(ctx context.Context, requesterID, cardID string, req *models.AddStepRequest) (models.IDList, error)

	GetCard(ctx context.Context, id string) (*models.Card, error)
	GetComments(ctx context.Context, cardID string) ([]models.Comment, error)
	GetReplies(ctx context.Context, cardID, commentID string) ([]models.Reply, error)
	GetSteps(ctx context.Context, cardID string) ([]models.Step, error)

	RenameCard(ctx context.Context, requesterID, id string, req *models.RenameCardRequest) (*models.Card, error)
	EditComment(ctx context.Context, requesterID, id string, req *models.DescriptionRequest) (*models.Comment, error)
	EditReply(ctx context.Context, requesterID, id string, req *models.DescriptionRequest) (*models.Reply, error)
	UpdateStep(ctx context.Context, requesterID, cardID, stepID string, req *models.UpdateStepRequest) (*models.Step, error)
	ReorderSteps(ctx context.Context, requesterID, cardID string, req *models.ReorderStepsRequest) (models.IDList, error)

	DeleteCard(ctx context.Context, requesterID, id string) (*models.Card, error)
	DeleteComment(ctx context.Context, requesterID, id string) (*models.Comment, error)
	DeleteReply(ctx context.Context, requesterID, id string) (*models.Reply, error)
	DeleteStep(ctx context.Context, requesterID, id string) (*models.Step, error)
}

type cardService struct {
	db          *sql.DB
	cardRepo    repository.CardRepository
	commentRepo repository.CommentRepository
	replyRepo   repository.ReplyRepository
	stepRepo    repository.StepRepository
	productRepo repository.ProductRepository
}

func NewCardService(
	db *sql.DB,
	cardRepo repository.CardRepository,
	commentRepo repository.CommentRepository,
	replyRepo repository.ReplyRepository,
	stepRepo repository.StepRepository,
	productRepo repository.ProductRepository,
) CardService {
	return &cardService{
		db:          db,
		cardRepo:    cardRepo,
		commentRepo: commentRepo,
		replyRepo:   replyRepo,
		stepRepo:    stepRepo,
		productRepo: productRepo,
	}
}

// cardTx holds repositories bound to one transaction.
type cardTx struct {
	cards    repository.CardRepository
	comments repository.CommentRepository
	replies  repository.ReplyRepository
	steps    repository.StepRepository
}

func (s *cardService) withTx(ctx context.Context, fn func(r cardTx) error) error {
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(cardTx{
			cards:    repository.NewSQLiteCardRepo(tx),
			comments: repository.NewSQLiteCommentRepo(tx),
			replies:  repository.NewSQLiteReplyRepo(tx),
			steps:    repository.NewSQLiteStepRepo(tx),
		})
	})
}

// ─── Create ───

func (s *cardService) CreateCard(ctx context.Context, requester *models.User, req *models.CreateCardRequest) ([]models.Card, error) {
	if err := checkBodyUser(requester.ID, req.UserID); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	card := &models.Card{
		UserID:          requester.ID,
		UserUsername:    requester.Username,
		UserPicturePath: requester.PicturePath,
		Name:            req.Name,
	}
	if err := s.cardRepo.Create(ctx, card); err != nil {
		return nil, err
	}
	metrics.DocumentsCreated.WithLabelValues("cards").Inc()

	return s.cardRepo.ListByUser(ctx, requester.ID)
}

func (s *cardService) AddComment(ctx context.Context, requester *models.User, cardID string, req *models.DescriptionRequest) (models.IDList, error) {
	if err := checkBodyUser(requester.ID, req.UserID); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var ids models.IDList
	err := s.withTx(ctx, func(r cardTx) error {
		card, err := r.cards.GetByID(ctx, cardID)
		if err != nil {
			return err
		}

		comment := &models.Comment{
			CardID:          card.ID,
			UserID:          requester.ID,
			UserUsername:    requester.Username,
			UserPicturePath: requester.PicturePath,
			Description:     req.Description,
		}
		if err := r.comments.Create(ctx, comment); err != nil {
			return err
		}

		card.Comments = append(card.Comments, comment.ID)
		if err := r.cards.Update(ctx, card); err != nil {
			return err
		}
		ids = card.Comments
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.DocumentsCreated.WithLabelValues("comments").Inc()
	return ids, nil
}

func (s *cardService) AddReply(ctx context.Context, requester *models.User, cardID, commentID string, req *models.DescriptionRequest) (models.IDList, error) {
	if err := checkBodyUser(requester.ID, req.UserID); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var ids models.IDList
	err := s.withTx(ctx, func(r cardTx) error {
		card, err := r.cards.GetByID(ctx, cardID)
		if err != nil {
			return err
		}
		comment, err := r.comments.GetByID(ctx, commentID)
		if err != nil {
			return err
		}
		if !card.Comments.Contains(comment.ID) {
			return fmt.Errorf("%w: invalid comment", pkg.ErrConflict)
		}

		reply := &models.Reply{
			CommentID:       comment.ID,
			UserID:          requester.ID,
			UserUsername:    requester.Username,
			UserPicturePath: requester.PicturePath,
			Description:     req.Description,
		}
		if err := r.replies.Create(ctx, reply); err != nil {
			return err
		}

		comment.Replies = append(comment.Replies, reply.ID)
		if err := r.comments.Update(ctx, comment); err != nil {
			return err
		}
		ids = comment.Replies
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.DocumentsCreated.WithLabelValues("replies").Inc()
	return ids, nil
}

// AddStep appends a step for productID. Product type and name are copied
// into the step along with the card owner's like and holy grail flags.
func (s *cardService) AddStep(ctx context.Context, requesterID, cardID string, req *models.AddStepRequest) (models.IDList, error) {
	if err := checkBodyUser(requesterID, req.UserID); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	frequency := models.DefaultFrequency
	if req.Frequency != nil {
		frequency = *req.Frequency
	}

	var ids models.IDList
	err = s.withTx(ctx, func(r cardTx) error {
		card, err := r.cards.GetByID(ctx, cardID)
		if err != nil {
			return err
		}
		if err := requireOwner(requesterID, card.UserID, "card"); err != nil {
			return err
		}

		step := &models.Step{
			CardID:    card.ID,
			IsAM:      req.IsAM,
			IsPM:      req.IsPM,
			Frequency: frequency,
		}
		step.SnapshotProduct(product, card.UserID)
		if err := r.steps.Create(ctx, step); err != nil {
			return err
		}

		card.Steps = append(card.Steps, step.ID)
		if err := r.cards.Update(ctx, card); err != nil {
			return err
		}
		ids = card.Steps
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.DocumentsCreated.WithLabelValues("steps").Inc()
	return ids, nil
}

// ─── Read ───

func (s *cardService) GetCard(ctx context.Context, id string) (*models.Card, error) {
	return s.cardRepo.GetByID(ctx, id)
}

func (s *cardService) GetComments(ctx context.Context, cardID string) ([]models.Comment, error) {
	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	return s.commentRepo.GetByIDs(ctx, card.Comments)
}

func (s *cardService) GetReplies(ctx context.Context, cardID, commentID string) ([]models.Reply, error) {
	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !card.Comments.Contains(comment.ID) {
		return nil, fmt.Errorf("%w: invalid comment", pkg.ErrConflict)
	}
	return s.replyRepo.GetByIDs(ctx, comment.Replies)
}

func (s *cardService) GetSteps(ctx context.Context, cardID string) ([]models.Step, error) {
	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	return s.stepRepo.GetByIDs(ctx, card.Steps)
}

// ─── Update ───

func (s *cardService) RenameCard(ctx context.Context, requesterID, id string, req *models.RenameCardRequest) (*models.Card, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	card, err := s.cardRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(requesterID, card.UserID, "card"); err != nil {
		return nil, err
	}

	if req.Name != "" {
		card.Name = req.Name
	}
	if err := s.cardRepo.Update(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *cardService) EditComment(ctx context.Context, requesterID, id string, req *models.DescriptionRequest) (*models.Comment, error) {
	if err := checkBodyUser(requesterID, req.UserID); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(requesterID, comment.UserID, "comment"); err != nil {
		return nil, err
	}

	if req.Description != comment.Description {
		comment.Description = req.Description
		comment.Edited = true
	}
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *cardService) EditReply(ctx context.Context, requesterID, id string, req *models.DescriptionRequest) (*models.Reply, error) {
	if err := checkBodyUser(requesterID, req.UserID); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	reply, err := s.replyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(requesterID, reply.UserID, "reply"); err != nil {
		return nil, err
	}

	if req.Description != reply.Description {
		reply.Description = req.Description
		reply.Edited = true
	}
	if err := s.replyRepo.Update(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// UpdateStep changes the fields present in req. Pointing the step at a
// different product takes a fresh snapshot of it.
func (s *cardService) UpdateStep(ctx context.Context, requesterID, cardID, stepID string, req *models.UpdateStepRequest) (*models.Step, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(requesterID, card.UserID, "card"); err != nil {
		return nil, err
	}

	step, err := s.stepRepo.GetByID(ctx, stepID)
	if err != nil {
		return nil, err
	}
	if !card.Steps.Contains(step.ID) {
		return nil, fmt.Errorf("%w: invalid step", pkg.ErrConflict)
	}

	if req.ProductID != "" && req.ProductID != step.ProductID {
		product, err := s.productRepo.GetByID(ctx, req.ProductID)
		if err != nil {
			return nil, err
		}
		step.SnapshotProduct(product, card.UserID)
	}
	if req.IsAM != nil {
		step.IsAM = *req.IsAM
	}
	if req.IsPM != nil {
		step.IsPM = *req.IsPM
	}
	if req.Frequency != nil {
		step.Frequency = *req.Frequency
	}

	if err := s.stepRepo.Update(ctx, step); err != nil {
		return nil, err
	}
	return step, nil
}

// ReorderSteps replaces the card's step order. The new order must hold
// exactly the ids the card already has.
func (s *cardService) ReorderSteps(ctx context.Context, requesterID, cardID string, req *models.ReorderStepsRequest) (models.IDList, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(requesterID, card.UserID, "card"); err != nil {
		return nil, err
	}
	if !req.StepIDs.IsPermutationOf(card.Steps) {
		return nil, fmt.Errorf("%w: step_ids must list every step of the card exactly once", pkg.ErrBadRequest)
	}

	card.Steps = req.StepIDs
	if err := s.cardRepo.Update(ctx, card); err != nil {
		return nil, err
	}
	return card.Steps, nil
}

// ─── Delete ───

// DeleteCard removes the card together with its steps, comments and replies.
func (s *cardService) DeleteCard(ctx context.Context, requesterID, id string) (*models.Card, error) {
	var deleted *models.Card
	err := s.withTx(ctx, func(r cardTx) error {
		card, err := r.cards.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwner(requesterID, card.UserID, "card"); err != nil {
			return err
		}

		if err := r.replies.DeleteByCardID(ctx, card.ID); err != nil {
			return err
		}
		if err := r.comments.DeleteByCardID(ctx, card.ID); err != nil {
			return err
		}
		if err := r.steps.DeleteByCardID(ctx, card.ID); err != nil {
			return err
		}
		if err := r.cards.Delete(ctx, card.ID); err != nil {
			return err
		}
		deleted = card
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Info().Str("card_id", deleted.ID).Str("user_id", requesterID).Msg("[cards] card deleted")
	return deleted, nil
}

func (s *cardService) DeleteComment(ctx context.Context, requesterID, id string) (*models.Comment, error) {
	var deleted *models.Comment
	err := s.withTx(ctx, func(r cardTx) error {
		comment, err := r.comments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwner(requesterID, comment.UserID, "comment"); err != nil {
			return err
		}

		if err := r.replies.DeleteByCommentID(ctx, comment.ID); err != nil {
			return err
		}
		if err := r.comments.Delete(ctx, comment.ID); err != nil {
			return err
		}
		if err := spliceCard(ctx, r.cards, comment.CardID, func(c *models.Card) {
			c.Comments = c.Comments.Without(comment.ID)
		}); err != nil {
			return err
		}
		deleted = comment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (s *cardService) DeleteReply(ctx context.Context, requesterID, id string) (*models.Reply, error) {
	var deleted *models.Reply
	err := s.withTx(ctx, func(r cardTx) error {
		reply, err := r.replies.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwner(requesterID, reply.UserID, "reply"); err != nil {
			return err
		}

		if err := r.replies.Delete(ctx, reply.ID); err != nil {
			return err
		}

		comment, err := r.comments.GetByID(ctx, reply.CommentID)
		switch {
		case err == nil:
			comment.Replies = comment.Replies.Without(reply.ID)
			if err := r.comments.Update(ctx, comment); err != nil {
				return err
			}
		case !isNotFound(err):
			return err
		}

		deleted = reply
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// DeleteStep is allowed for the owner of the card the step belongs to.
func (s *cardService) DeleteStep(ctx context.Context, requesterID, id string) (*models.Step, error) {
	var deleted *models.Step
	err := s.withTx(ctx, func(r cardTx) error {
		step, err := r.steps.GetByID(ctx, id)
		if err != nil {
			return err
		}
		card, err := r.cards.GetByID(ctx, step.CardID)
		if err != nil {
			return err
		}
		if err := requireOwner(requesterID, card.UserID, "step"); err != nil {
			return err
		}

		if err := r.steps.Delete(ctx, step.ID); err != nil {
			return err
		}
		card.Steps = card.Steps.Without(step.ID)
		if err := r.cards.Update(ctx, card); err != nil {
			return err
		}
		deleted = step
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// spliceCard applies edit to the card if it still exists.
func spliceCard(ctx context.Context, cards repository.CardRepository, cardID string, edit func(*models.Card)) error {
	card, err := cards.GetByID(ctx, cardID)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	edit(card)
	return cards.Update(ctx, card)
}
