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

const replyColumns = `id, comment_id, user_id, user_username, user_picture_path,
	description, edited, created_at, updated_at`

type sqliteReplyRepo struct {
	db database.TxQuerier
}

func NewSQLiteReplyRepo(db database.TxQuerier) ReplyRepository {
	return &sqliteReplyRepo{db: db}
}

func scanReply(row rowScanner) (*models.Reply, error) {
	rp := &models.Reply{}
	if err := row.Scan(
		&rp.ID, &rp.CommentID, &rp.UserID, &rp.UserUsername, &rp.UserPicturePath,
		&rp.Description, &rp.Edited, &rp.CreatedAt, &rp.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return rp, nil
}

func (r *sqliteReplyRepo) Create(ctx context.Context, reply *models.Reply) error {
	if reply.ID == "" {
		reply.ID = newID()
	}
	reply.CreatedAt = now()
	reply.UpdatedAt = reply.CreatedAt

	_, err := r.db.ExecContext(ctx, `INSERT INTO replies (`+replyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		reply.ID, reply.CommentID, reply.UserID, reply.UserUsername, reply.UserPicturePath,
		reply.Description, reply.Edited, reply.CreatedAt, reply.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reply: %w", err)
	}
	return nil
}

func (r *sqliteReplyRepo) GetByID(ctx context.Context, id string) (*models.Reply, error) {
	rp, err := scanReply(r.db.QueryRowContext(ctx, `SELECT `+replyColumns+` FROM replies WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: reply not found", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reply: %w", err)
	}
	return rp, nil
}

func (r *sqliteReplyRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Reply, error) {
	if len(ids) == 0 {
		return []models.Reply{}, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+replyColumns+` FROM replies WHERE id IN (SELECT value FROM json_each(?))`,
		models.IDList(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get replies: %w", err)
	}
	replies, err := collect(rows, scanReply)
	if err != nil {
		return nil, fmt.Errorf("failed to scan reply row: %w", err)
	}
	return orderByIDs(ids, replies, func(rp *models.Reply) string { return rp.ID }), nil
}

func (r *sqliteReplyRepo) Update(ctx context.Context, reply *models.Reply) error {
	reply.UpdatedAt = now()
	result, err := r.db.ExecContext(ctx,
		`UPDATE replies SET description = ?, edited = ?, updated_at = ? WHERE id = ?`,
		reply.Description, reply.Edited, reply.UpdatedAt, reply.ID)
	if err != nil {
		return fmt.Errorf("failed to update reply: %w", err)
	}
	return checkAffected(result, "reply")
}

func (r *sqliteReplyRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM replies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reply: %w", err)
	}
	return checkAffected(result, "reply")
}

func (r *sqliteReplyRepo) DeleteByCommentID(ctx context.Context, commentID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM replies WHERE comment_id = ?`, commentID); err != nil {
		return fmt.Errorf("failed to delete comment replies: %w", err)
	}
	return nil
}

func (r *sqliteReplyRepo) DeleteByCardID(ctx context.Context, cardID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM replies WHERE comment_id IN (SELECT id FROM comments WHERE card_id = ?)`, cardID)
	if err != nil {
		return fmt.Errorf("failed to delete card replies: %w", err)
	}
	return nil
}
