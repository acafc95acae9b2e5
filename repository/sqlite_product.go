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

const productColumns = `id, user_id, product_type, product_name, picture_path,
	ingredients, description, likes, holy_grails, created_at, updated_at`

type sqliteProductRepo struct {
	db database.TxQuerier
}

func NewSQLiteProductRepo(db database.TxQuerier) ProductRepository {
	return &sqliteProductRepo{db: db}
}

func scanProduct(row rowScanner) (*models.Product, error) {
	p := &models.Product{}
	if err := row.Scan(
		&p.ID, &p.UserID, &p.ProductType, &p.ProductName, &p.PicturePath,
		&p.Ingredients, &p.Description, &p.Likes, &p.HolyGrails, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *sqliteProductRepo) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = newID()
	}
	if product.PicturePath == "" {
		product.PicturePath = models.DefaultProductPicture
	}
	if product.Ingredients == nil {
		product.Ingredients = models.Ingredients{}
	}
	if product.Likes == nil {
		product.Likes = models.BoolMap{}
	}
	if product.HolyGrails == nil {
		product.HolyGrails = models.BoolMap{}
	}
	product.CreatedAt = now()
	product.UpdatedAt = product.CreatedAt

	_, err := r.db.ExecContext(ctx, `INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID, product.UserID, product.ProductType, product.ProductName, product.PicturePath,
		product.Ingredients, product.Description, product.Likes, product.HolyGrails,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *sqliteProductRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: product not found", pkg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

func (r *sqliteProductRepo) ListLikedBy(ctx context.Context, userID string) ([]models.Product, error) {
	return r.listFlagged(ctx, "likes", userID)
}

func (r *sqliteProductRepo) ListHolyGrailedBy(ctx context.Context, userID string) ([]models.Product, error) {
	return r.listFlagged(ctx, "holy_grails", userID)
}

// listFlagged selects products whose JSON map column has userID set to true.
// column is one of two constants, never user input.
func (r *sqliteProductRepo) listFlagged(ctx context.Context, column, userID string) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE EXISTS (SELECT 1 FROM json_each(products.` + column + `) WHERE key = ? AND value = 1)
		ORDER BY created_at DESC, rowid DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products by %s: %w", column, err)
	}
	products, err := collect(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("failed to scan product row: %w", err)
	}
	return products, nil
}

func (r *sqliteProductRepo) Update(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = now()
	result, err := r.db.ExecContext(ctx, `
		UPDATE products SET product_type = ?, product_name = ?, picture_path = ?,
			ingredients = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		product.ProductType, product.ProductName, product.PicturePath,
		product.Ingredients, product.Description, product.UpdatedAt, product.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return checkAffected(result, "product")
}

func (r *sqliteProductRepo) UpdateLikes(ctx context.Context, id string, likes models.BoolMap) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE products SET likes = ?, updated_at = ? WHERE id = ?`, likes, now(), id)
	if err != nil {
		return fmt.Errorf("failed to update product likes: %w", err)
	}
	return checkAffected(result, "product")
}

func (r *sqliteProductRepo) UpdateHolyGrails(ctx context.Context, id string, holyGrails models.BoolMap) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE products SET holy_grails = ?, updated_at = ? WHERE id = ?`, holyGrails, now(), id)
	if err != nil {
		return fmt.Errorf("failed to update product holy grails: %w", err)
	}
	return checkAffected(result, "product")
}

func (r *sqliteProductRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return checkAffected(result, "product")
}
