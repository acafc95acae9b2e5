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

const stepColumns = `id, card_id, product_id, product_type, product_name, is_liked,
	is_holy_grail, is_am, is_pm, frequency, created_at, updated_at`

type sqliteStepRepo struct {
	db database.TxQuerier
}

func NewSQLiteStepRepo(db database.TxQuerier) StepRepository {
	return &sqliteStepRepo{db: db}
}

func scanStep(row rowScanner) (*models.Step, error) {
	s := &models.Step{}
	if err := row.Scan(
		&s.ID, &s.CardID, &s.ProductID, &s.ProductType, &s.ProductName, &s.IsLiked,
		&s.IsHolyGrail, &s.IsAM, &s.IsPM, &s.Frequency, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *sqliteStepRepo) Create(ctx context.Context, step *models.Step) error {
	if step.ID == "" {
		step.ID = newID()
	}
	step.CreatedAt = now()
	step.UpdatedAt = step.CreatedAt

	_, err := r.db.ExecContext(ctx, `INSERT INTO steps (`+stepColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		step.ID, step.CardID, step.ProductID, step.ProductType, step.ProductName, step.IsLiked,
		step.IsHolyGrail, step.IsAM, step.IsPM, step.Frequency, step.CreatedAt, step.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create step: %w", err)
	}
	return nil
}

func (r *sqliteStepRepo) GetByID(ctx context.Context, id string) (*models.Step, error) {
	s, err := scanStep(r.db.QueryRowContext(ctx, `SELECT `+stepColumns+` FROM steps WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: step not found", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get step: %w", err)
	}
	return s, nil
}

func (r *sqliteStepRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Step, error) {
	if len(ids) == 0 {
		return []models.Step{}, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+stepColumns+` FROM steps WHERE id IN (SELECT value FROM json_each(?))`,
		models.IDList(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get steps: %w", err)
	}
	steps, err := collect(rows, scanStep)
	if err != nil {
		return nil, fmt.Errorf("failed to scan step row: %w", err)
	}
	return orderByIDs(ids, steps, func(s *models.Step) string { return s.ID }), nil
}

func (r *sqliteStepRepo) Update(ctx context.Context, step *models.Step) error {
	step.UpdatedAt = now()
	result, err := r.db.ExecContext(ctx, `
		UPDATE steps SET product_id = ?, product_type = ?, product_name = ?, is_liked = ?,
			is_holy_grail = ?, is_am = ?, is_pm = ?, frequency = ?, updated_at = ?
		WHERE id = ?`,
		step.ProductID, step.ProductType, step.ProductName, step.IsLiked,
		step.IsHolyGrail, step.IsAM, step.IsPM, step.Frequency, step.UpdatedAt, step.ID)
	if err != nil {
		return fmt.Errorf("failed to update step: %w", err)
	}
	return checkAffected(result, "step")
}

func (r *sqliteStepRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM steps WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete step: %w", err)
	}
	return checkAffected(result, "step")
}

func (r *sqliteStepRepo) DeleteByCardID(ctx context.Context, cardID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM steps WHERE card_id = ?`, cardID); err != nil {
		return fmt.Errorf("failed to delete card steps: %w", err)
	}
	return nil
}
