package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims is the payload of the session JWT.
type TokenClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}
