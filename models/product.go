package models

import "time"

// DefaultProductPicture is the placeholder until a picture is uploaded.
const DefaultProductPicture = "test"

type Product struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id"`
	ProductType string      `json:"product_type"`
	ProductName string      `json:"product_name"`
	PicturePath string      `json:"picture_path"`
	Ingredients Ingredients `json:"ingredients"`
	Description string      `json:"description"`
	Likes       BoolMap     `json:"likes"`
	HolyGrails  BoolMap     `json:"holy_grails"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type CreateProductRequest struct {
	UserID      string      `json:"user_id"`
	ProductType string      `json:"product_type" validate:"required,max=40"`
	ProductName string      `json:"product_name" validate:"required,max=60"`
	Ingredients Ingredients `json:"ingredients"`
	Description string      `json:"description" validate:"required,max=1000"`
}

// UpdateProductRequest is a partial update; empty fields keep their values.
type UpdateProductRequest struct {
	ProductType string      `json:"product_type" validate:"omitempty,max=40"`
	ProductName string      `json:"product_name" validate:"omitempty,max=60"`
	Ingredients Ingredients `json:"ingredients"`
	Description string      `json:"description" validate:"omitempty,max=1000"`
	PicturePath string      `json:"picture_path"`
}
