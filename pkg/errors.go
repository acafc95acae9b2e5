// Package pkg holds small utilities shared by every layer.
// This file defines the domain-level errors.
//
// Services return these sentinels (usually wrapped with a detail message)
// and the handler layer maps them to HTTP status codes:
//
//	if errors.Is(err, pkg.ErrNotFound) { ... }
package pkg

import "errors"

// Status mapping (see StatusFor):
//
//	ErrNotFound       404  the document in the URL or body does not exist
//	ErrUnauthorized   401  no session, bad token, bad credentials
//	ErrForbidden      403  the document exists but belongs to someone else
//	ErrAlreadyExists  409  username or email taken
//	ErrConflict       409  a child id that is not on the given parent
//	ErrBadRequest     400  validation failures and malformed input
//	ErrInternal       500  anything else; the message is not shown
var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrAlreadyExists = errors.New("already exists")
	ErrConflict      = errors.New("conflict")
	ErrBadRequest    = errors.New("bad request")
	ErrInternal      = errors.New("internal error")
)
