package models

import "time"

// Post is a feed entry. Author fields are copied from the user at creation.
type Post struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	UserUsername    string    `json:"user_username"`
	UserPicturePath string    `json:"user_picture_path"`
	LinkedObjectID  string    `json:"linked_object_id"`
	LinksToCard     bool      `json:"links_to_card"`
	Description     string    `json:"description"`
	Likes           BoolMap   `json:"likes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CreatePostRequest struct {
	UserID         string `json:"user_id"`
	LinkedObjectID string `json:"linked_object_id"`
	LinksToCard    bool   `json:"links_to_card"`
	Description    string `json:"description" validate:"required,max=500"`
}
