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

const cardColumns = `id, user_id, user_username, user_picture_path, name,
	comments, steps, created_at, updated_at`

type sqliteCardRepo struct {
	db database.TxQuerier
}

func NewSQLiteCardRepo(db database.TxQuerier) CardRepository {
	return &sqliteCardRepo{db: db}
}

func scanCard(row rowScanner) (*models.Card, error) {
	c := &models.Card{}
	if err := row.Scan(
		&c.ID, &c.UserID, &c.UserUsername, &c.UserPicturePath, &c.Name,
		&c.Comments, &c.Steps, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *sqliteCardRepo) Create(ctx context.Context, card *models.Card) error {
	if card.ID == "" {
		card.ID = newID()
	}
	if card.Comments == nil {
		card.Comments = models.IDList{}
	}
	if card.Steps == nil {
		card.Steps = models.IDList{}
	}
	card.CreatedAt = now()
	card.UpdatedAt = card.CreatedAt

	_, err := r.db.ExecContext(ctx, `INSERT INTO cards (`+cardColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		card.ID, card.UserID, card.UserUsername, card.UserPicturePath, card.Name,
		card.Comments, card.Steps, card.CreatedAt, card.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

func (r *sqliteCardRepo) GetByID(ctx context.Context, id string) (*models.Card, error) {
	card, err := scanCard(r.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: card not found", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return card, nil
}

func (r *sqliteCardRepo) ListByUser(ctx context.Context, userID string) ([]models.Card, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE user_id = ? ORDER BY created_at, rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	cards, err := collect(rows, scanCard)
	if err != nil {
		return nil, fmt.Errorf("failed to scan card row: %w", err)
	}
	return cards, nil
}

func (r *sqliteCardRepo) Update(ctx context.Context, card *models.Card) error {
	card.UpdatedAt = now()
	result, err := r.db.ExecContext(ctx,
		`UPDATE cards SET name = ?, comments = ?, steps = ?, updated_at = ? WHERE id = ?`,
		card.Name, card.Comments, card.Steps, card.UpdatedAt, card.ID)
	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}
	return checkAffected(result, "card")
}

func (r *sqliteCardRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	return checkAffected(result, "card")
}
