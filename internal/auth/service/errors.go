package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/ticketcheater/internal/auth/domain"
)

var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrInvalidToken      = errors.New("invalid_token")
	ErrExpiredToken      = errors.New("expired_token")
	ErrInvalidPermission = errors.New("invalid_permission")

	ErrUserNotFound       = errors.New("user_not_found")
	ErrInvalidPassword    = errors.New("invalid_password")
	ErrDuplicatedUsername = errors.New("duplicated_username")

	ErrGameNotFound     = errors.New("game_not_found")
	ErrCategoryNotFound = errors.New("category_not_found")

	// ErrInvalidRequest is wrapped with the offending field.
	ErrInvalidRequest = errors.New("invalid_request")
)

// PasswordVerifier checks a plaintext password against a stored hash.
type PasswordVerifier interface {
	Verify(plain, hash string) bool
}

// UserLookup resolves a token subject to a principal. ok is false when the
// subject is unknown or removed.
type UserLookup interface {
	LookupPrincipal(ctx context.Context, subject string) (p domain.Principal, ok bool, err error)
}
