package models

import "time"

// DefaultFrequency is the number of days per week a new step applies.
const DefaultFrequency = 7

// Card is a named routine. Comments and Steps hold ids in display order.
type Card struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	UserUsername    string    `json:"user_username"`
	UserPicturePath string    `json:"user_picture_path"`
	Name            string    `json:"name"`
	Comments        IDList    `json:"comments"`
	Steps           IDList    `json:"steps"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Comment struct {
	ID              string    `json:"id"`
	CardID          string    `json:"card_id"`
	UserID          string    `json:"user_id"`
	UserUsername    string    `json:"user_username"`
	UserPicturePath string    `json:"user_picture_path"`
	Description     string    `json:"description"`
	Replies         IDList    `json:"replies"`
	Edited          bool      `json:"edited"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Reply struct {
	ID              string    `json:"id"`
	CommentID       string    `json:"comment_id"`
	UserID          string    `json:"user_id"`
	UserUsername    string    `json:"user_username"`
	UserPicturePath string    `json:"user_picture_path"`
	Description     string    `json:"description"`
	Edited          bool      `json:"edited"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Step references a product within a card. ProductType, ProductName,
// IsLiked and IsHolyGrail are snapshots taken from the product for the
// card owner when the step is created or repointed.
type Step struct {
	ID          string    `json:"id"`
	CardID      string    `json:"card_id"`
	ProductID   string    `json:"product_id"`
	ProductType string    `json:"product_type"`
	ProductName string    `json:"product_name"`
	IsLiked     bool      `json:"is_liked"`
	IsHolyGrail bool      `json:"is_holy_grail"`
	IsAM        bool      `json:"is_am"`
	IsPM        bool      `json:"is_pm"`
	Frequency   int       `json:"frequency"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SnapshotProduct copies the product fields a step denormalizes, as seen
// by ownerID.
func (s *Step) SnapshotProduct(p *Product, ownerID string) {
	s.ProductID = p.ID
	s.ProductType = p.ProductType
	s.ProductName = p.ProductName
	s.IsLiked = p.Likes[ownerID]
	s.IsHolyGrail = p.HolyGrails[ownerID]
}

type CreateCardRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name" validate:"required,max=60"`
}

type RenameCardRequest struct {
	Name string `json:"name" validate:"max=60"`
}

// DescriptionRequest is the body for creating or editing comments and replies.
type DescriptionRequest struct {
	UserID      string `json:"user_id"`
	Description string `json:"description" validate:"required,min=1,max=200"`
}

type AddStepRequest struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id" validate:"required"`
	IsAM      bool   `json:"is_am"`
	IsPM      bool   `json:"is_pm"`
	Frequency *int   `json:"frequency" validate:"omitempty,min=0,max=8"`
}

// UpdateStepRequest changes only the fields that are present.
type UpdateStepRequest struct {
	ProductID string `json:"product_id"`
	IsAM      *bool  `json:"is_am"`
	IsPM      *bool  `json:"is_pm"`
	Frequency *int   `json:"frequency" validate:"omitempty,min=0,max=8"`
}

type ReorderStepsRequest struct {
	StepIDs IDList `json:"step_ids" validate:"required"`
}
