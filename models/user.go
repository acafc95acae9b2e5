// Package models defines the stored documents and the request bodies the
// API accepts.
//
// Documents mirror one table each. Embedded collections (friends, likes,
// card comments and steps) are JSON columns typed as IDList or BoolMap.
// Request structs carry `validate` tags checked by pkg/validation.
package models

import "time"

// DefaultPicturePath is assigned to users who never uploaded a picture.
const DefaultPicturePath = "defaultProfilePicture.jpeg"

// User is an account. Friends is symmetric: if B is in A.Friends then A is
// in B.Friends.
type User struct {
	ID            string    `json:"id"`
	FullName      string    `json:"full_name"`
	Username      string    `json:"username"`
	UsernameLower string    `json:"-"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	PicturePath   string    `json:"picture_path"`
	IsPublic      bool      `json:"is_public"`
	Friends       IDList    `json:"friends"`
	ActiveCardID  string    `json:"active_card_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsFriend reports whether userID is in u's friend list.
func (u *User) IsFriend(userID string) bool {
	return u.Friends.Contains(userID)
}

// CanViewPostsOf reports whether u may read owner's posts: their own, a
// public profile, or a profile that lists u as a friend.
func (u *User) CanViewPostsOf(owner *User) bool {
	return u.ID == owner.ID || owner.IsPublic || owner.IsFriend(u.ID)
}

// FriendSummary is the shape returned by friend list endpoints.
type FriendSummary struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	Username    string `json:"username"`
	PicturePath string `json:"picture_path"`
}

func (u *User) Summary() FriendSummary {
	return FriendSummary{
		ID:          u.ID,
		FullName:    u.FullName,
		Username:    u.Username,
		PicturePath: u.PicturePath,
	}
}

// Profile is returned after a profile update.
type Profile struct {
	ID           string `json:"id"`
	FullName     string `json:"full_name"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PicturePath  string `json:"picture_path"`
	ActiveCardID string `json:"active_card_id"`
	IsPublic     bool   `json:"is_public"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:           u.ID,
		FullName:     u.FullName,
		Username:     u.Username,
		Email:        u.Email,
		PicturePath:  u.PicturePath,
		ActiveCardID: u.ActiveCardID,
		IsPublic:     u.IsPublic,
	}
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	FullName string `json:"full_name" validate:"required,min=1,max=50"`
	Username string `json:"username" validate:"required,min=4,max=30"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=4,max=64"`
}

// LoginRequest accepts either a username or an email in LoginName.
type LoginRequest struct {
	LoginName string `json:"login_name" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

// UpdateProfileRequest is a partial update; empty strings and nil pointers
// leave the current value untouched.
type UpdateProfileRequest struct {
	UserID       string `json:"user_id"`
	FullName     string `json:"full_name" validate:"omitempty,max=50"`
	Username     string `json:"username" validate:"omitempty,min=4,max=30"`
	Email        string `json:"email" validate:"omitempty,email,max=100"`
	Password     string `json:"password" validate:"omitempty,min=4,max=64"`
	PicturePath  string `json:"picture_path"`
	ActiveCardID string `json:"active_card_id"`
	IsPublic     *bool  `json:"is_public"`
}

// AuthUser is returned by register and login.
type AuthUser struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	PicturePath string `json:"picture_path"`
}

func (u *User) AuthUser() AuthUser {
	return AuthUser{
		ID:          u.ID,
		FullName:    u.FullName,
		Username:    u.Username,
		Email:       u.Email,
		PicturePath: u.PicturePath,
	}
}
