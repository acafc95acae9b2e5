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

const postColumns = `id, user_id, user_username, user_picture_path, linked_object_id,
	links_to_card, description, likes, created_at, updated_at`

const postOrder = ` ORDER BY created_at DESC, rowid DESC`

type sqlitePostRepo struct {
	db database.TxQuerier
}

func NewSQLitePostRepo(db database.TxQuerier) PostRepository {
	return &sqlitePostRepo{db: db}
}

func scanPost(row rowScanner) (*models.Post, error) {
	p := &models.Post{}
	if err := row.Scan(
		&p.ID, &p.UserID, &p.UserUsername, &p.UserPicturePath, &p.LinkedObjectID,
		&p.LinksToCard, &p.Description, &p.Likes, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *sqlitePostRepo) Create(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = newID()
	}
	if post.Likes == nil {
		post.Likes = models.BoolMap{}
	}
	post.CreatedAt = now()
	post.UpdatedAt = post.CreatedAt

	_, err := r.db.ExecContext(ctx, `INSERT INTO posts (`+postColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID, post.UserID, post.UserUsername, post.UserPicturePath, post.LinkedObjectID,
		post.LinksToCard, post.Description, post.Likes, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *sqlitePostRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: post not found", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

func (r *sqlitePostRepo) ListAll(ctx context.Context) ([]models.Post, error) {
	return r.list(ctx, `SELECT `+postColumns+` FROM posts`+postOrder)
}

func (r *sqlitePostRepo) ListByUserIDs(ctx context.Context, userIDs []string) ([]models.Post, error) {
	if len(userIDs) == 0 {
		return []models.Post{}, nil
	}
	return r.list(ctx,
		`SELECT `+postColumns+` FROM posts WHERE user_id IN (SELECT value FROM json_each(?))`+postOrder,
		models.IDList(userIDs))
}

func (r *sqlitePostRepo) list(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	posts, err := collect(rows, scanPost)
	if err != nil {
		return nil, fmt.Errorf("failed to scan post row: %w", err)
	}
	return posts, nil
}

func (r *sqlitePostRepo) UpdateLikes(ctx context.Context, id string, likes models.BoolMap) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE posts SET likes = ?, updated_at = ? WHERE id = ?`, likes, now(), id)
	if err != nil {
		return fmt.Errorf("failed to update post likes: %w", err)
	}
	return checkAffected(result, "post")
}

func (r *sqlitePostRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return checkAffected(result, "post")
}
