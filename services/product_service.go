// Package services: ProductService, the shared product catalogue.
//
// Products are public. Steps on cards reference them by id and copy the
// type and name, so a card still reads correctly after the product is
// edited or deleted.
package services

import (
	"context"

	"github.com/struffoli/facecard/models"
	"github.com/struffoli/facecard/pkg/metrics"
	"github.com/struffoli/facecard/pkg/validation"
	"github.com/struffoli/facecard/repository"
)

// ProductService manages the shared product catalogue. Any user can read a
// product and toggle their own like or holy-grail flag on it; only the user
// who added a product can change or delete it.
type ProductService interface {
	// CreateProduct adds a product owned by the requester.
	CreateProduct(ctx context.Context, requesterID string, req *models.CreateProductRequest) (*models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)

	// GetUserLikedProducts and GetUserHolyGrailedProducts list the products
	// whose flag map marks userID. An unknown user simply has none.
	GetUserLikedProducts(ctx context.Context, userID string) ([]models.Product, error)
	GetUserHolyGrailedProducts(ctx context.Context, userID string) ([]models.Product, error)

	// AuthorizeUpdate reports whether the requester may update the product:
	// pkg.ErrNotFound if it does not exist, pkg.ErrForbidden if someone else
	// owns it. Handlers call it before storing an uploaded picture.
	AuthorizeUpdate(ctx context.Context, requesterID, id string) error

	// UpdateProduct applies the non-empty fields of req. Owner only.
	UpdateProduct(ctx context.Context, requesterID, id string, req *models.UpdateProductRequest) (*models.Product, error)

	// LikeProduct and HolyGrailProduct flip the requester's flag and return
	// the updated product.
	LikeProduct(ctx context.Context, requesterID, id string) (*models.Product, error)
	HolyGrailProduct(ctx context.Context, requesterID, id string) (*models.Product, error)

	// DeleteProduct removes the product and returns it. Owner only. Steps
	// that reference it keep their denormalized name and type.
	DeleteProduct(ctx context.Context, requesterID, id string) (*models.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) CreateProduct(ctx context.Context, requesterID string, req *models.CreateProductRequest) (*models.Product, error) {
	if err := checkBodyUser(requesterID, req.UserID); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	product := &models.Product{
		UserID:      requesterID,
		ProductType: req.ProductType,
		ProductName: req.ProductName,
		Ingredients: req.Ingredients,
		Description: req.Description,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	metrics.DocumentsCreated.WithLabelValues("products").Inc()

	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

func (s *productService) GetUserLikedProducts(ctx context.Context, userID string) ([]models.Product, error) {
	return s.productRepo.ListLikedBy(ctx, userID)
}

func (s *productService) GetUserHolyGrailedProducts(ctx context.Context, userID string) ([]models.Product, error) {
	return s.productRepo.ListHolyGrailedBy(ctx, userID)
}

func (s *productService) AuthorizeUpdate(ctx context.Context, requesterID, id string) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return requireOwner(requesterID, product.UserID, "product")
}

func (s *productService) UpdateProduct(ctx context.Context, requesterID, id string, req *models.UpdateProductRequest) (*models.Product, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(requesterID, product.UserID, "product"); err != nil {
		return nil, err
	}

	if req.ProductType != "" {
		product.ProductType = req.ProductType
	}
	if req.ProductName != "" {
		product.ProductName = req.ProductName
	}
	if len(req.Ingredients) > 0 {
		product.Ingredients = req.Ingredients
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.PicturePath != "" {
		product.PicturePath = req.PicturePath
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) LikeProduct(ctx context.Context, requesterID, id string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	liked := product.Likes.Toggle(requesterID)
	if err := s.productRepo.UpdateLikes(ctx, product.ID, product.Likes); err != nil {
		return nil, err
	}
	metrics.RecordToggle("product_like", liked)

	return product, nil
}

func (s *productService) HolyGrailProduct(ctx context.Context, requesterID, id string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	on := product.HolyGrails.Toggle(requesterID)
	if err := s.productRepo.UpdateHolyGrails(ctx, product.ID, product.HolyGrails); err != nil {
		return nil, err
	}
	metrics.RecordToggle("holy_grail", on)

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, requesterID, id string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(requesterID, product.UserID, "product"); err != nil {
		return nil, err
	}

	if err := s.productRepo.Delete(ctx, product.ID); err != nil {
		return nil, err
	}
	return product, nil
}
