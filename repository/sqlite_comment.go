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

const commentColumns = `id, card_id, user_id, user_username, user_picture_path,
	description, replies, edited, created_at, updated_at`

type sqliteCommentRepo struct {
	db database.TxQuerier
}

func NewSQLiteCommentRepo(db database.TxQuerier) CommentRepository {
	return &sqliteCommentRepo{db: db}
}

func scanComment(row rowScanner) (*models.Comment, error) {
	c := &models.Comment{}
	if err := row.Scan(
		&c.ID, &c.CardID, &c.UserID, &c.UserUsername, &c.UserPicturePath,
		&c.Description, &c.Replies, &c.Edited, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *sqliteCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = newID()
	}
	if comment.Replies == nil {
		comment.Replies = models.IDList{}
	}
	comment.CreatedAt = now()
	comment.UpdatedAt = comment.CreatedAt

	_, err := r.db.ExecContext(ctx, `INSERT INTO comments (`+commentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		comment.ID, comment.CardID, comment.UserID, comment.UserUsername, comment.UserPicturePath,
		comment.Description, comment.Replies, comment.Edited, comment.CreatedAt, comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *sqliteCommentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: comment not found", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return c, nil
}

func (r *sqliteCommentRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Comment, error) {
	if len(ids) == 0 {
		return []models.Comment{}, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id IN (SELECT value FROM json_each(?))`,
		models.IDList(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	comments, err := collect(rows, scanComment)
	if err != nil {
		return nil, fmt.Errorf("failed to scan comment row: %w", err)
	}
	return orderByIDs(ids, comments, func(c *models.Comment) string { return c.ID }), nil
}

func (r *sqliteCommentRepo) Update(ctx context.Context, comment *models.Comment) error {
	comment.UpdatedAt = now()
	result, err := r.db.ExecContext(ctx,
		`UPDATE comments SET description = ?, replies = ?, edited = ?, updated_at = ? WHERE id = ?`,
		comment.Description, comment.Replies, comment.Edited, comment.UpdatedAt, comment.ID)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return checkAffected(result, "comment")
}

func (r *sqliteCommentRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return checkAffected(result, "comment")
}

func (r *sqliteCommentRepo) DeleteByCardID(ctx context.Context, cardID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE card_id = ?`, cardID); err != nil {
		return fmt.Errorf("failed to delete card comments: %w", err)
	}
	return nil
}
